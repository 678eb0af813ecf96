package SessionStates

import (
	"HamqadamBot/internal/domain"
	"context"
	"fmt"
	"github.com/google/uuid"
	"sync"
)

type entry struct {
	// lock holds one token while the session is acquired.
	lock    chan struct{}
	session *domain.Session
	// state mirrors session.State as of the last release so readers never
	// wait on a user whose transition is in flight.
	state domain.ConversationState
}

// SessionStates owns every user's session for the life of the process.
// Entries are created lazily and never evicted.
type SessionStates struct {
	states map[int64]*entry
	mu     sync.Mutex
}

func NewSessionStates() *SessionStates {
	return &SessionStates{
		states: make(map[int64]*entry),
	}
}

// Acquire returns the session for chatID, creating it on first use, and holds
// the user's lock until release is called. It gives up when ctx is done
// before the lock is free.
func (s *SessionStates) Acquire(ctx context.Context, chatID int64) (*domain.Session, func(), error) {
	const op = "SessionStates.Acquire"

	e := s.entry(chatID)
	if err := e.acquire(ctx); err != nil {
		return nil, nil, fmt.Errorf("%s: chat %d: %w", op, chatID, err)
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			s.mu.Lock()
			e.state = e.session.State
			s.mu.Unlock()
			<-e.lock
		})
	}
	return e.session, release, nil
}

// Snapshot returns a copy of the session, waiting for any in-flight
// transition of that user.
func (s *SessionStates) Snapshot(ctx context.Context, chatID int64) (domain.Session, bool) {
	s.mu.Lock()
	e, ok := s.states[chatID]
	s.mu.Unlock()
	if !ok {
		return domain.Session{}, false
	}

	if err := e.acquire(ctx); err != nil {
		return domain.Session{}, false
	}
	defer func() { <-e.lock }()

	snapshot := *e.session
	if e.session.Draft != nil {
		draft := *e.session.Draft
		snapshot.Draft = &draft
	}
	if e.session.Profile != nil {
		profile := *e.session.Profile
		snapshot.Profile = &profile
	}
	return snapshot, true
}

// GetCurrentStatesID lists users that are in the middle of a draft flow.
func (s *SessionStates) GetCurrentStatesID(ctx context.Context) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	states := make([]int64, 0, 32)

	for k, v := range s.states {
		if v.state.Drafting() {
			states = append(states, k)
		}
	}
	return states
}

func (s *SessionStates) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func (s *SessionStates) GetCorrelationID(session *domain.Session) string {
	if session.CorrelationID == "" {
		session.CorrelationID = generateCorrelationID()
	}
	return session.CorrelationID
}

func generateCorrelationID() string {
	return uuid.New().String()
}

func (s *SessionStates) entry(chatID int64) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.states[chatID]
	if !ok {
		e = &entry{
			lock:    make(chan struct{}, 1),
			session: domain.NewSession(chatID),
			state:   domain.StateIdle,
		}
		s.states[chatID] = e
	}
	return e
}

func (e *entry) acquire(ctx context.Context) error {
	select {
	case e.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
