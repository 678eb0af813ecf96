package usecase

import (
	"HamqadamBot/internal/domain"
	"HamqadamBot/internal/repository/SessionStates"
	"HamqadamBot/pkg/logger"
	"context"
	"github.com/stretchr/testify/require"
	"strings"
	"sync"
	"testing"
)

const testUser int64 = 100

// keyTranslator renders a message as its key followed by its arguments so
// assertions do not depend on catalog wording.
type keyTranslator struct{}

func (keyTranslator) Get(_ string, key string, args ...string) string {
	if len(args) == 0 {
		return key
	}
	return key + " " + strings.Join(args, " ")
}

func (keyTranslator) Supports(lang string) bool {
	return lang == "en" || lang == "fa"
}

func (keyTranslator) DefaultLanguage() string {
	return "en"
}

type sentMessage struct {
	ChatID    int64
	MessageID int
	Text      string
	Choices   []domain.Choice
	Edit      bool
}

type fakeMessenger struct {
	mu     sync.Mutex
	sent   []sentMessage
	nextID int
}

func (m *fakeMessenger) SendText(_ context.Context, chatID int64, text string, choices []domain.Choice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.sent = append(m.sent, sentMessage{ChatID: chatID, MessageID: m.nextID, Text: text, Choices: choices})
	return nil
}

func (m *fakeMessenger) EditMessage(_ context.Context, chatID int64, messageID int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{ChatID: chatID, MessageID: messageID, Text: text, Edit: true})
	return nil
}

// lastKeyboard is the id of the newest message to chatID that offered buttons.
func (m *fakeMessenger) lastKeyboard(chatID int64) int {
	msgs := m.messages(chatID)
	for i := len(msgs) - 1; i >= 0; i-- {
		if len(msgs[i].Choices) > 0 {
			return msgs[i].MessageID
		}
	}
	return 0
}

func (m *fakeMessenger) messages(chatID int64) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, msg := range m.sent {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out
}

func (m *fakeMessenger) last(chatID int64) sentMessage {
	msgs := m.messages(chatID)
	if len(msgs) == 0 {
		return sentMessage{}
	}
	return msgs[len(msgs)-1]
}

func (m *fakeMessenger) texts(chatID int64) []string {
	var out []string
	for _, msg := range m.messages(chatID) {
		out = append(out, msg.Text)
	}
	return out
}

type submitCall struct {
	Token string
	Draft domain.Draft
}

type fakeRepo struct {
	mu           sync.Mutex
	calls        int
	submits      []submitCall
	authFn       func(externalID int64, hint string) (domain.Credentials, error)
	profileFn    func(token string) (domain.Profile, error)
	submitFn     func(ctx context.Context, token string, draft domain.Draft) (domain.CreatedPost, error)
	listFn       func(token, status string) ([]domain.PostSummary, error)
	listStatuses []string
}

func (r *fakeRepo) Authenticate(_ context.Context, externalID int64, hint string) (domain.Credentials, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.authFn == nil {
		return domain.Credentials{Token: "tok", Profile: domain.Profile{UserID: "u-1"}}, nil
	}
	return r.authFn(externalID, hint)
}

func (r *fakeRepo) FetchProfile(_ context.Context, token string) (domain.Profile, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.profileFn == nil {
		return domain.Profile{UserID: "u-1"}, nil
	}
	return r.profileFn(token)
}

func (r *fakeRepo) SubmitDraft(ctx context.Context, token string, draft domain.Draft) (domain.CreatedPost, error) {
	r.mu.Lock()
	r.calls++
	r.submits = append(r.submits, submitCall{Token: token, Draft: draft})
	fn := r.submitFn
	r.mu.Unlock()
	if fn == nil {
		return domain.CreatedPost{PostID: "p-1"}, nil
	}
	return fn(ctx, token, draft)
}

func (r *fakeRepo) ListDrafts(_ context.Context, token string, status string) ([]domain.PostSummary, error) {
	r.mu.Lock()
	r.calls++
	r.listStatuses = append(r.listStatuses, status)
	r.mu.Unlock()
	if r.listFn == nil {
		return nil, nil
	}
	return r.listFn(token, status)
}

func (r *fakeRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *fakeRepo) submitCalls() []submitCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]submitCall(nil), r.submits...)
}

type testEnv struct {
	t          *testing.T
	repo       *fakeRepo
	messenger  *fakeMessenger
	store      *SessionStates.SessionStates
	dispatcher *Dispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := &fakeRepo{}
	messenger := &fakeMessenger{}
	store := SessionStates.NewSessionStates()
	log := logger.Discard()
	text := keyTranslator{}

	flow := NewDraftFlow(repo, messenger, text, log)
	account := NewAccount(repo, messenger, text, log, 5)
	return &testEnv{
		t:          t,
		repo:       repo,
		messenger:  messenger,
		store:      store,
		dispatcher: NewDispatcher(store, flow, account, messenger, text, log),
	}
}

// login seeds a session as if /login had succeeded.
func (e *testEnv) login(userID int64) {
	s, release, err := e.store.Acquire(context.Background(), userID)
	require.NoError(e.t, err)
	defer release()
	s.AuthToken = "tok"
	s.Profile = &domain.Profile{UserID: "u-1"}
}

func (e *testEnv) command(userID int64, cmd string) {
	e.dispatcher.Handle(context.Background(), domain.Event{UserID: userID, Kind: domain.EventCommand, Command: cmd})
}

func (e *testEnv) text(userID int64, text string) {
	e.dispatcher.Handle(context.Background(), domain.Event{UserID: userID, Kind: domain.EventText, Payload: text})
}

// button taps token on the newest keyboard sent to userID.
func (e *testEnv) button(userID int64, token string) {
	e.dispatcher.Handle(context.Background(), domain.Event{
		UserID:    userID,
		Kind:      domain.EventButton,
		Payload:   token,
		MessageID: e.messenger.lastKeyboard(userID),
	})
}

func (e *testEnv) session(t *testing.T, userID int64) domain.Session {
	t.Helper()
	s, ok := e.store.Snapshot(context.Background(), userID)
	if !ok {
		t.Fatalf("no session for user %d", userID)
	}
	return s
}
