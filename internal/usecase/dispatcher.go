package usecase

import (
	"HamqadamBot/internal/domain"
	"HamqadamBot/pkg/logger"
	"HamqadamBot/pkg/prometheus"
	"context"
	"log/slog"
	"strings"
	"time"
)

const (
	CommandStart      = "start"
	CommandLogin      = "login"
	CommandHelp       = "help"
	CommandMe         = "me"
	CommandCreatePost = "createpost"
	CommandCancelPost = "cancelpost"
	CommandCancel     = "cancel"
	CommandMyDrafts   = "mydrafts"

	unknownLabel = "unknown"
)

// Dispatcher routes one inbound event to the draft flow or to a single-shot
// command. Callers must deliver a user's events one at a time and in order.
type Dispatcher struct {
	sessions SessionStore
	flow     *DraftFlow
	account  *Account
	responder
}

func NewDispatcher(sessions SessionStore, flow *DraftFlow, account *Account, messenger Messenger, text Translator, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sessions:  sessions,
		flow:      flow,
		account:   account,
		responder: responder{messenger: messenger, text: text, log: log},
	}
}

func (d *Dispatcher) Handle(ctx context.Context, ev domain.Event) {
	session, release, err := d.sessions.Acquire(ctx, ev.UserID)
	if err != nil {
		d.log.WarnContext(ctx, "event dropped, session busy",
			chatIDKey, ev.UserID,
			"kind", ev.Kind,
			errorKey, err)
		return
	}
	defer release()

	if session.Locale == "" {
		session.Locale = d.locale(ev.LanguageCode)
	}
	ctx = logger.WithCorrelationID(ctx, d.sessions.GetCorrelationID(session))

	label := eventLabel(ev)
	startTime := time.Now()
	defer func() {
		prometheus.CommandDuration.WithLabelValues(label).Observe(time.Since(startTime).Seconds())
	}()
	status := successKey
	defer func() {
		prometheus.CommandCounter.WithLabelValues(label, status).Inc()
	}()

	d.log.InfoContext(ctx, "event received",
		chatIDKey, ev.UserID,
		"kind", ev.Kind,
		commandKey, ev.Command,
		stateKey, session.State,
		correlationIDKey, logger.CorrelationID(ctx))

	switch ev.Kind {
	case domain.EventCommand:
		if !d.handleCommand(ctx, session, ev) {
			status = errorKey
		}
	case domain.EventText:
		if session.State.Drafting() {
			d.flow.HandleText(ctx, session, ev.Payload)
			return
		}
		d.reply(ctx, session, "idle_text_hint")
	case domain.EventButton:
		d.flow.HandleChoice(ctx, session, ev.Payload, ev.MessageID)
	default:
		status = errorKey
		d.log.WarnContext(ctx, "unsupported event kind",
			chatIDKey, ev.UserID,
			"kind", ev.Kind,
			correlationIDKey, logger.CorrelationID(ctx))
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, s *domain.Session, ev domain.Event) bool {
	switch ev.Command {
	case CommandStart, CommandLogin:
		d.account.Login(ctx, s, ev.Username, ev.DisplayName)
	case CommandHelp:
		d.reply(ctx, s, "help_text")
	case CommandMe:
		d.account.ShowProfile(ctx, s, ev.DisplayName)
	case CommandMyDrafts:
		d.account.ListDrafts(ctx, s)
	case CommandCreatePost:
		d.flow.Start(ctx, s)
	case CommandCancelPost, CommandCancel:
		d.flow.Cancel(ctx, s)
	default:
		d.reply(ctx, s, "unknown_command")
		return false
	}
	return true
}

func (d *Dispatcher) locale(languageCode string) string {
	lang, _, _ := strings.Cut(strings.ToLower(languageCode), "-")
	if lang != "" && d.text.Supports(lang) {
		return lang
	}
	return d.text.DefaultLanguage()
}

func eventLabel(ev domain.Event) string {
	if ev.Kind != domain.EventCommand {
		return string(ev.Kind)
	}
	switch ev.Command {
	case CommandStart, CommandLogin, CommandHelp, CommandMe, CommandCreatePost,
		CommandCancelPost, CommandCancel, CommandMyDrafts:
		return ev.Command
	}
	return unknownLabel
}
