package usecase

import (
	"HamqadamBot/internal/domain"
	"HamqadamBot/pkg/logger"
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// Account serves the single-shot commands. None of them touch the draft flow.
type Account struct {
	repo           CoreRepository
	draftsPageSize int
	responder
}

func NewAccount(repo CoreRepository, messenger Messenger, text Translator, log *slog.Logger, draftsPageSize int) *Account {
	return &Account{
		repo:           repo,
		draftsPageSize: draftsPageSize,
		responder:      responder{messenger: messenger, text: text, log: log},
	}
}

// Login authenticates the Telegram user. Nothing is stored unless the
// backend returned both a token and a user id.
func (a *Account) Login(ctx context.Context, s *domain.Session, username, displayName string) {
	creds, err := a.repo.Authenticate(ctx, s.UserID, username)
	if err != nil {
		a.log.ErrorContext(ctx, "failed to login user",
			chatIDKey, s.UserID,
			correlationIDKey, logger.CorrelationID(ctx),
			errorKey, err)
		if domain.KindOf(err) == domain.KindMalformedResponse {
			a.reply(ctx, s, "login_data_incomplete_error")
			return
		}
		a.reply(ctx, s, "login_failed", "error_details", domain.MessageOf(err))
		return
	}

	s.AuthToken = creds.Token
	profile := creds.Profile
	s.Profile = &profile
	a.log.InfoContext(ctx, "user logged in",
		chatIDKey, s.UserID,
		"user_id", profile.UserID,
		correlationIDKey, logger.CorrelationID(ctx))

	a.reply(ctx, s, "welcome_registered",
		"user_mention", a.displayName(s.Locale, profile, displayName, username, profile.TelegramUsername))
}

func (a *Account) ShowProfile(ctx context.Context, s *domain.Session, displayName string) {
	if !s.Authenticated() {
		a.reply(ctx, s, "not_logged_in")
		return
	}

	profile, err := a.repo.FetchProfile(ctx, s.AuthToken)
	if err != nil {
		a.log.ErrorContext(ctx, "failed to fetch profile",
			chatIDKey, s.UserID,
			correlationIDKey, logger.CorrelationID(ctx),
			errorKey, err)
		a.reply(ctx, s, "profile_fetch_error")
		return
	}
	s.Profile = &profile

	na := a.text.Get(s.Locale, "not_available")
	a.send(ctx, s, a.text.Get(s.Locale, "user_profile_info_title")+"\n"+
		a.text.Get(s.Locale, "user_profile_info",
			"user_id", profile.UserID,
			"full_name", orDefault(a.displayName(s.Locale, profile, displayName), na),
			"telegram_username", orDefault(profile.TelegramUsername, na),
			"account_status", orDefault(profile.AccountStatus, na),
		), nil)
}

func (a *Account) ListDrafts(ctx context.Context, s *domain.Session) {
	if !s.Authenticated() {
		a.reply(ctx, s, "not_logged_in")
		return
	}
	a.reply(ctx, s, "fetching_drafts")

	posts, err := a.repo.ListDrafts(ctx, s.AuthToken, domain.PostStatusDraft)
	if err != nil {
		a.log.ErrorContext(ctx, "failed to fetch drafts",
			chatIDKey, s.UserID,
			correlationIDKey, logger.CorrelationID(ctx),
			errorKey, err)
		a.reply(ctx, s, "fetch_drafts_fail", "error", domain.MessageOf(err))
		return
	}
	if len(posts) == 0 {
		a.reply(ctx, s, "no_drafts_found")
		return
	}
	a.send(ctx, s, renderDrafts(a.text, s.Locale, posts, a.draftsPageSize), nil)
}

// renderDrafts lists at most limit posts and notes how many were left out.
func renderDrafts(text Translator, lang string, posts []domain.PostSummary, limit int) string {
	shown := posts
	if len(shown) > limit {
		shown = shown[:limit]
	}

	lines := make([]string, 0, len(shown)+2)
	lines = append(lines, text.Get(lang, "your_draft_posts_title"))
	for _, post := range shown {
		title := post.Title.Resolve(lang, text.DefaultLanguage())
		if title == "" {
			title = text.Get(lang, "untitled")
		}
		lines = append(lines, text.Get(lang, "draft_line",
			"title", title,
			"post_id", orDefault(post.PostID, text.Get(lang, "not_available"))))
	}
	if hidden := len(posts) - len(shown); hidden > 0 {
		lines = append(lines, text.Get(lang, "more_drafts_available", "count", strconv.Itoa(hidden)))
	}
	return strings.Join(lines, "\n")
}

func (a *Account) displayName(lang string, profile domain.Profile, names ...string) string {
	if name := profile.FullName.Resolve(lang, a.text.DefaultLanguage()); strings.TrimSpace(name) != "" {
		return name
	}
	for _, name := range names {
		if name != "" {
			return name
		}
	}
	return ""
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
