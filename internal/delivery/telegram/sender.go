package telegram

import (
	"HamqadamBot/internal/domain"
	"HamqadamBot/pkg/prometheus"
	"context"
	"fmt"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"log/slog"
	"unicode/utf8"
)

const (
	maxMessageLength = 4000

	messageTypeText     = "text"
	messageTypeKeyboard = "keyboard"
	messageTypeEdit     = "edit"
)

// Sender delivers replies and rewrites keyboard prompts in place once a
// button is pressed.
type Sender struct {
	api API
	log *slog.Logger
}

func NewSender(api API, log *slog.Logger) *Sender {
	return &Sender{
		api: api,
		log: log,
	}
}

func (s *Sender) SendText(ctx context.Context, chatID int64, text string, choices []domain.Choice) error {
	const op = "Sender.SendText"

	msg := tgbotapi.NewMessage(chatID, truncateText(text))
	msgType := messageTypeText
	if len(choices) > 0 {
		msg.ReplyMarkup = choiceKeyboard(choices)
		msgType = messageTypeKeyboard
	}

	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("%s: send to chat %d: %w", op, chatID, err)
	}
	prometheus.MessagesSent.WithLabelValues(msgType).Inc()
	return nil
}

// EditMessage replaces the text of messageID and drops its keyboard. A zero
// messageID or a failed edit results in a new message instead.
func (s *Sender) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	const op = "Sender.EditMessage"

	if messageID == 0 {
		return s.SendText(ctx, chatID, text, nil)
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, truncateText(text))
	if _, err := s.api.Send(edit); err != nil {
		s.log.WarnContext(ctx, "edit failed, sending new message",
			chatIDKey, chatID,
			"message_id", messageID,
			errorKey, err)
		if sendErr := s.SendText(ctx, chatID, text, nil); sendErr != nil {
			return fmt.Errorf("%s: %w", op, sendErr)
		}
		return nil
	}
	prometheus.MessagesSent.WithLabelValues(messageTypeEdit).Inc()
	return nil
}

func choiceKeyboard(choices []domain.Choice) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, c := range choices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Label, c.Token),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func truncateText(text string) string {
	if utf8.RuneCountInString(text) <= maxMessageLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxMessageLength]) + "..."
}
