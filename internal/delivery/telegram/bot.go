package telegram

import (
	"HamqadamBot/configs"
	"HamqadamBot/internal/domain"
	"context"
	"fmt"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"log/slog"
	"net/http"
	"strings"
)

const (
	chatIDKey = "chat_id"
	errorKey  = "error"
)

// API is the subset of tgbotapi.BotAPI the transport uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type EventHandler interface {
	Handle(ctx context.Context, ev domain.Event)
}

type Queue interface {
	Submit(key int64, task func())
	Wait(ctx context.Context) error
}

type Bot struct {
	api           API
	updates       UpdateSource
	handler       EventHandler
	queue         Queue
	updateTimeout int
	log           *slog.Logger

	// drain outlives the polling context; Stop cancels it once queued
	// events are done or the shutdown deadline passes.
	drain       context.Context
	cancelDrain context.CancelFunc
}

func NewAPI(cfg configs.TelegramConfig) (*tgbotapi.BotAPI, error) {
	const op = "telegram.NewAPI"

	api, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, &http.Client{
		Timeout: cfg.ConnectionTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create bot api: %w", op, err)
	}
	api.Debug = cfg.Debug
	return api, nil
}

func NewBot(api API, updates UpdateSource, handler EventHandler, queue Queue, cfg configs.TelegramConfig, log *slog.Logger) *Bot {
	drain, cancelDrain := context.WithCancel(context.Background())
	return &Bot{
		api:           api,
		updates:       updates,
		handler:       handler,
		queue:         queue,
		updateTimeout: cfg.UpdateTimeout,
		log:           log,
		drain:         drain,
		cancelDrain:   cancelDrain,
	}
}

// Run reads updates until ctx is cancelled or the update channel closes.
// Each event is queued on its user's lane; Run itself never blocks on a
// handler or on the Telegram API.
//
// Queued events keep the values of ctx but not its cancellation, so events
// still pending when polling stops are handled in full by Stop.
func (b *Bot) Run(ctx context.Context) error {
	taskCtx, cancelTasks := context.WithCancel(context.WithoutCancel(ctx))
	context.AfterFunc(b.drain, cancelTasks)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.updateTimeout
	updates := b.updates.GetUpdatesChan(u)
	b.log.Info("bot is receiving updates")

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			ev, ok := toEvent(update)
			if !ok {
				continue
			}
			b.queue.Submit(ev.UserID, func() {
				if ev.CallbackID != "" {
					b.answerCallback(taskCtx, ev)
				}
				b.handler.Handle(taskCtx, ev)
			})
		}
	}
}

// Stop stops polling and waits for queued events to finish. Events still
// running when ctx expires see their context cancelled.
func (b *Bot) Stop(ctx context.Context) error {
	const op = "Bot.Stop"
	defer b.cancelDrain()

	b.updates.StopReceivingUpdates()
	if err := b.queue.Wait(ctx); err != nil {
		return fmt.Errorf("%s: pending events not drained: %w", op, err)
	}
	return nil
}

func (b *Bot) answerCallback(ctx context.Context, ev domain.Event) {
	if _, err := b.api.Request(tgbotapi.NewCallback(ev.CallbackID, "")); err != nil {
		b.log.WarnContext(ctx, "failed to answer callback",
			chatIDKey, ev.UserID,
			errorKey, err)
	}
}

// toEvent strips Telegram framing from an update. Updates that carry
// nothing the dispatcher understands are dropped, and so is anything outside
// a private chat: sessions are keyed by chat id, which only identifies a
// single user when the chat is private.
func toEvent(update tgbotapi.Update) (domain.Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		if cq.Message == nil || !isPrivate(cq.Message.Chat) {
			return domain.Event{}, false
		}
		ev := domain.Event{
			UserID:     cq.Message.Chat.ID,
			Kind:       domain.EventButton,
			Payload:    cq.Data,
			CallbackID: cq.ID,
			MessageID:  cq.Message.MessageID,
		}
		fillSender(&ev, cq.From)
		return ev, true

	case update.Message == nil || !isPrivate(update.Message.Chat):
		return domain.Event{}, false

	case update.Message.IsCommand():
		ev := domain.Event{
			UserID:  update.Message.Chat.ID,
			Kind:    domain.EventCommand,
			Command: strings.ToLower(update.Message.Command()),
			Payload: strings.TrimSpace(update.Message.CommandArguments()),
		}
		fillSender(&ev, update.Message.From)
		return ev, true

	default:
		text := strings.TrimSpace(update.Message.Text)
		if text == "" {
			return domain.Event{}, false
		}
		ev := domain.Event{
			UserID:  update.Message.Chat.ID,
			Kind:    domain.EventText,
			Payload: text,
		}
		fillSender(&ev, update.Message.From)
		return ev, true
	}
}

func isPrivate(chat *tgbotapi.Chat) bool {
	return chat != nil && chat.IsPrivate()
}

func fillSender(ev *domain.Event, from *tgbotapi.User) {
	if from == nil {
		return
	}
	ev.Username = from.UserName
	ev.DisplayName = strings.TrimSpace(from.FirstName + " " + from.LastName)
	ev.LanguageCode = from.LanguageCode
}
