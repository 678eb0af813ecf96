package usecase

import (
	"HamqadamBot/internal/domain"
	"HamqadamBot/pkg/logger"
	"HamqadamBot/pkg/prometheus"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"
)

const (
	minTitleLength = 3
	minBodyLength  = 10

	outcomeSubmitted       = "submitted"
	outcomeCancelled       = string(domain.KindUserCancelled)
	outcomeInvalidOption   = "invalid_option"
	outcomeMissingIdentity = string(domain.KindMissingIdentity)
)

// DraftFlow drives post creation: type -> title -> body -> submit. Every
// method runs with the session's lock held; the only suspension point is the
// SubmitDraft call at the end of the flow.
type DraftFlow struct {
	repo CoreRepository
	responder
}

func NewDraftFlow(repo CoreRepository, messenger Messenger, text Translator, log *slog.Logger) *DraftFlow {
	return &DraftFlow{
		repo:      repo,
		responder: responder{messenger: messenger, text: text, log: log},
	}
}

func (f *DraftFlow) Start(ctx context.Context, s *domain.Session) {
	if s.State.Drafting() {
		f.reply(ctx, s, "draft_in_progress")
		return
	}
	if !s.Authenticated() {
		f.reply(ctx, s, "not_logged_in")
		return
	}

	s.Draft = &domain.Draft{}
	s.State = domain.StateAwaitingPostType
	prometheus.ActiveDrafts.Inc()
	f.log.InfoContext(ctx, "draft flow started",
		chatIDKey, s.UserID,
		correlationIDKey, logger.CorrelationID(ctx))

	f.replyWithChoices(ctx, s, "select_post_type_prompt", f.postTypeChoices(s.Locale))
}

// HandleChoice consumes a button token pressed on messageID. Only the post
// type step takes buttons; any token outside the offered set ends the flow.
func (f *DraftFlow) HandleChoice(ctx context.Context, s *domain.Session, token string, messageID int) {
	if s.State != domain.StateAwaitingPostType {
		f.log.DebugContext(ctx, "stale button ignored",
			chatIDKey, s.UserID,
			stateKey, s.State,
			"token", token,
			correlationIDKey, logger.CorrelationID(ctx))
		return
	}

	postType, ok := domain.ParsePostTypeToken(token)
	if !ok {
		f.edit(ctx, s, messageID, "invalid_option")
		f.terminate(ctx, s, outcomeInvalidOption)
		return
	}

	s.Draft.Type = postType
	s.State = domain.StateAwaitingTitle
	f.edit(ctx, s, messageID, "post_type_selected_prompt_title",
		"type_name", f.text.Get(s.Locale, "post_type_"+postType.Key()))
}

func (f *DraftFlow) HandleText(ctx context.Context, s *domain.Session, text string) {
	switch s.State {
	case domain.StateAwaitingPostType:
		f.reply(ctx, s, "use_buttons_hint")

	case domain.StateAwaitingTitle:
		title, ok := validateTitle(text)
		if !ok {
			f.reply(ctx, s, "post_title_too_short")
			return
		}
		s.Draft.Title.Set(s.Locale, title)
		s.State = domain.StateAwaitingBody
		f.reply(ctx, s, "post_title_received_prompt_content")

	case domain.StateAwaitingBody:
		body, ok := validateBody(text)
		if !ok {
			f.reply(ctx, s, "post_content_too_short")
			return
		}
		f.submit(ctx, s, body)
	}
}

// Cancel always succeeds and discards whatever was entered.
func (f *DraftFlow) Cancel(ctx context.Context, s *domain.Session) {
	if !s.State.Drafting() {
		f.reply(ctx, s, "nothing_to_cancel")
		return
	}
	f.reply(ctx, s, "post_creation_cancelled")
	f.terminate(ctx, s, outcomeCancelled)
}

func (f *DraftFlow) submit(ctx context.Context, s *domain.Session, body string) {
	authorID, ok := s.Identity()
	if !ok {
		f.log.WarnContext(ctx, "draft submission aborted",
			chatIDKey, s.UserID,
			correlationIDKey, logger.CorrelationID(ctx),
			errorKey, domain.ErrMissingIdentity)
		f.reply(ctx, s, "missing_identity")
		f.terminate(ctx, s, outcomeMissingIdentity)
		return
	}

	s.Draft.Body.Set(s.Locale, body)
	s.Draft.Author = &domain.AuthorInfo{AuthorID: authorID, AuthorType: domain.AuthorTypeUser}
	f.reply(ctx, s, "creating_post_draft_wait")

	post, err := f.repo.SubmitDraft(ctx, s.AuthToken, *s.Draft)
	if err != nil {
		f.log.ErrorContext(ctx, "failed to create draft",
			chatIDKey, s.UserID,
			correlationIDKey, logger.CorrelationID(ctx),
			errorKey, err)
		f.reply(ctx, s, submitFailureKey(err), "error", domain.MessageOf(err))
		outcome := string(domain.KindOf(err))
		if outcome == "" {
			outcome = errorKey
		}
		f.terminate(ctx, s, outcome)
		return
	}

	f.log.InfoContext(ctx, "draft created",
		chatIDKey, s.UserID,
		"post_id", post.PostID,
		correlationIDKey, logger.CorrelationID(ctx))
	f.reply(ctx, s, "post_draft_created_success", "post_id", post.PostID)
	f.terminate(ctx, s, outcomeSubmitted)
}

// terminate passes through the terminal state and lands back on idle with
// the draft cleared.
func (f *DraftFlow) terminate(ctx context.Context, s *domain.Session, outcome string) {
	s.State = domain.StateTerminal
	f.log.InfoContext(ctx, "draft flow finished",
		chatIDKey, s.UserID,
		"outcome", outcome,
		correlationIDKey, logger.CorrelationID(ctx))
	prometheus.FlowOutcomes.WithLabelValues(outcome).Inc()
	prometheus.ActiveDrafts.Dec()

	s.ResetFlow()
	s.CorrelationID = ""
}

func (f *DraftFlow) postTypeChoices(lang string) []domain.Choice {
	types := domain.PostTypes()
	choices := make([]domain.Choice, 0, len(types))
	for _, t := range types {
		choices = append(choices, domain.Choice{
			Label: f.text.Get(lang, "post_type_"+t.Key()),
			Token: t.Token(),
		})
	}
	return choices
}

func validateTitle(text string) (string, bool) {
	return validateLength(text, minTitleLength)
}

func validateBody(text string) (string, bool) {
	return validateLength(text, minBodyLength)
}

func validateLength(text string, minLen int) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minLen {
		return "", false
	}
	return trimmed, true
}

func submitFailureKey(err error) string {
	switch domain.KindOf(err) {
	case domain.KindUnauthenticated:
		return "post_draft_unauthenticated"
	case domain.KindTransport:
		return "post_draft_unreachable"
	case domain.KindHTTPStatus:
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return "post_draft_unauthenticated"
		}
	}
	return "post_draft_created_fail"
}
