package usecase

import (
	"HamqadamBot/internal/domain"
	"HamqadamBot/pkg/logger"
	"context"
	"log/slog"
)

const (
	chatIDKey        = "chat_id"
	commandKey       = "command"
	errorKey         = "error"
	stateKey         = "state"
	successKey       = "success"
	correlationIDKey = logger.CorrelationIDKey
)

type responder struct {
	messenger Messenger
	text      Translator
	log       *slog.Logger
}

func (r responder) reply(ctx context.Context, s *domain.Session, key string, args ...string) {
	r.send(ctx, s, r.text.Get(s.Locale, key, args...), nil)
}

func (r responder) replyWithChoices(ctx context.Context, s *domain.Session, key string, choices []domain.Choice) {
	r.send(ctx, s, r.text.Get(s.Locale, key), choices)
}

func (r responder) send(ctx context.Context, s *domain.Session, text string, choices []domain.Choice) {
	if err := r.messenger.SendText(ctx, s.UserID, text, choices); err != nil {
		r.log.ErrorContext(ctx, "failed to send message",
			chatIDKey, s.UserID,
			correlationIDKey, logger.CorrelationID(ctx),
			errorKey, err)
	}
}

func (r responder) edit(ctx context.Context, s *domain.Session, messageID int, key string, args ...string) {
	text := r.text.Get(s.Locale, key, args...)
	if err := r.messenger.EditMessage(ctx, s.UserID, messageID, text); err != nil {
		r.log.ErrorContext(ctx, "failed to edit message",
			chatIDKey, s.UserID,
			correlationIDKey, logger.CorrelationID(ctx),
			errorKey, err)
	}
}
