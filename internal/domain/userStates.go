package domain

type ConversationState string

const (
	StateIdle             ConversationState = "idle"
	StateAwaitingPostType ConversationState = "awaiting_post_type"
	StateAwaitingTitle    ConversationState = "awaiting_title"
	StateAwaitingBody     ConversationState = "awaiting_body"
	StateTerminal         ConversationState = "terminal"
)

// Drafting reports whether a draft is expected to exist in this state.
func (s ConversationState) Drafting() bool {
	switch s {
	case StateAwaitingPostType, StateAwaitingTitle, StateAwaitingBody:
		return true
	}
	return false
}

// Session is the per-user record. It is mutated only while the owning
// user's lock is held.
type Session struct {
	UserID        int64
	AuthToken     string
	Profile       *Profile
	Draft         *Draft
	State         ConversationState
	Locale        string
	CorrelationID string
}

func NewSession(userID int64) *Session {
	return &Session{UserID: userID, State: StateIdle}
}

func (s *Session) Authenticated() bool {
	return s.AuthToken != ""
}

// Identity returns the backend user id from the cached profile.
func (s *Session) Identity() (string, bool) {
	if s.Profile == nil || s.Profile.UserID == "" {
		return "", false
	}
	return s.Profile.UserID, true
}

// ResetFlow drops any draft and returns the session to idle.
func (s *Session) ResetFlow() {
	s.Draft = nil
	s.State = StateIdle
}
