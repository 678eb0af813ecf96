package usecase

import (
	"HamqadamBot/internal/domain"
	"context"
)

type CoreRepository interface {
	Authenticate(ctx context.Context, externalID int64, displayNameHint string) (domain.Credentials, error)
	FetchProfile(ctx context.Context, token string) (domain.Profile, error)
	SubmitDraft(ctx context.Context, token string, draft domain.Draft) (domain.CreatedPost, error)
	ListDrafts(ctx context.Context, token string, status string) ([]domain.PostSummary, error)
}

// Messenger is the outbound half of the chat transport.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, choices []domain.Choice) error
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
}

type SessionStore interface {
	Acquire(ctx context.Context, chatID int64) (*domain.Session, func(), error)
	GetCorrelationID(session *domain.Session) string
}

type Translator interface {
	Get(lang, key string, args ...string) string
	Supports(lang string) bool
	DefaultLanguage() string
}
