package usecase

import (
	"HamqadamBot/internal/domain"
	"context"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestAccount_Login(t *testing.T) {
	t.Run("greets with backend full name", func(t *testing.T) {
		env := newTestEnv(t)
		var gotID int64
		var gotHint string
		env.repo.authFn = func(externalID int64, hint string) (domain.Credentials, error) {
			gotID, gotHint = externalID, hint
			return domain.Credentials{
				Token:   "tok-9",
				Profile: domain.Profile{UserID: "u-9", FullName: domain.NewI18nText("en", "Alice Liddell")},
			}, nil
		}

		env.dispatcher.Handle(context.Background(), domain.Event{
			UserID: testUser, Kind: domain.EventCommand, Command: CommandStart,
			Username: "alice", DisplayName: "Alice",
		})

		assert.Equal(t, testUser, gotID)
		assert.Equal(t, "alice", gotHint)
		s := env.session(t, testUser)
		assert.Equal(t, "tok-9", s.AuthToken)
		require.NotNil(t, s.Profile)
		assert.Equal(t, "u-9", s.Profile.UserID)
		assert.Equal(t, "welcome_registered user_mention Alice Liddell", env.messenger.last(testUser).Text)
	})

	t.Run("falls back to telegram name", func(t *testing.T) {
		env := newTestEnv(t)
		env.dispatcher.Handle(context.Background(), domain.Event{
			UserID: testUser, Kind: domain.EventCommand, Command: CommandLogin,
			Username: "alice", DisplayName: "Alice",
		})
		assert.Equal(t, "welcome_registered user_mention Alice", env.messenger.last(testUser).Text)
	})

	t.Run("malformed response stores nothing", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.authFn = func(int64, string) (domain.Credentials, error) {
			return domain.Credentials{}, &domain.APIError{Kind: domain.KindMalformedResponse, Message: "no user id"}
		}
		env.command(testUser, CommandLogin)

		s := env.session(t, testUser)
		assert.False(t, s.Authenticated())
		assert.Nil(t, s.Profile)
		assert.Equal(t, "login_data_incomplete_error", env.messenger.last(testUser).Text)
	})

	t.Run("transport failure reports message", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.authFn = func(int64, string) (domain.Credentials, error) {
			return domain.Credentials{}, &domain.APIError{Kind: domain.KindTransport, Message: "down"}
		}
		env.command(testUser, CommandLogin)

		s := env.session(t, testUser)
		assert.False(t, s.Authenticated())
		assert.Equal(t, "login_failed error_details down", env.messenger.last(testUser).Text)
	})

	t.Run("does not touch a running draft", func(t *testing.T) {
		env := newTestEnv(t)
		env.login(testUser)
		env.driveTo(t, testUser, domain.StateAwaitingTitle)

		env.command(testUser, CommandLogin)

		s := env.session(t, testUser)
		assert.Equal(t, domain.StateAwaitingTitle, s.State)
		assert.Equal(t, domain.PostTypeArticle, s.Draft.Type)
	})
}

func TestAccount_ShowProfile(t *testing.T) {
	t.Run("requires login", func(t *testing.T) {
		env := newTestEnv(t)
		env.command(testUser, CommandMe)
		assert.Equal(t, "not_logged_in", env.messenger.last(testUser).Text)
		assert.Equal(t, 0, env.repo.callCount())
	})

	t.Run("refreshes cached profile", func(t *testing.T) {
		env := newTestEnv(t)
		env.login(testUser)
		env.repo.profileFn = func(token string) (domain.Profile, error) {
			assert.Equal(t, "tok", token)
			return domain.Profile{UserID: "u-1", TelegramUsername: "alice", AccountStatus: "ACTIVE"}, nil
		}

		env.command(testUser, CommandMe)

		s := env.session(t, testUser)
		assert.Equal(t, "alice", s.Profile.TelegramUsername)
		assert.Equal(t,
			"user_profile_info_title\nuser_profile_info user_id u-1 full_name not_available telegram_username alice account_status ACTIVE",
			env.messenger.last(testUser).Text)
	})

	t.Run("fetch error", func(t *testing.T) {
		env := newTestEnv(t)
		env.login(testUser)
		env.repo.profileFn = func(string) (domain.Profile, error) {
			return domain.Profile{}, &domain.APIError{Kind: domain.KindHTTPStatus, StatusCode: 500}
		}

		env.command(testUser, CommandMe)

		assert.Equal(t, "profile_fetch_error", env.messenger.last(testUser).Text)
		assert.Equal(t, "u-1", env.session(t, testUser).Profile.UserID)
	})
}

func TestAccount_ListDrafts(t *testing.T) {
	posts := func(n int) []domain.PostSummary {
		out := make([]domain.PostSummary, 0, n)
		for i := 1; i <= n; i++ {
			out = append(out, domain.PostSummary{
				PostID: fmt.Sprintf("p-%d", i),
				Title:  domain.NewI18nText("en", fmt.Sprintf("Post %d", i)),
				Status: domain.PostStatusDraft,
			})
		}
		return out
	}

	t.Run("caps at page size", func(t *testing.T) {
		env := newTestEnv(t)
		env.login(testUser)
		env.repo.listFn = func(string, string) ([]domain.PostSummary, error) {
			return posts(7), nil
		}

		env.command(testUser, CommandMyDrafts)

		texts := env.messenger.texts(testUser)
		require.Len(t, texts, 2)
		assert.Equal(t, "fetching_drafts", texts[0])
		lines := strings.Split(texts[1], "\n")
		require.Len(t, lines, 7)
		assert.Equal(t, "your_draft_posts_title", lines[0])
		assert.Equal(t, "draft_line title Post 1 post_id p-1", lines[1])
		assert.Equal(t, "draft_line title Post 5 post_id p-5", lines[5])
		assert.Equal(t, "more_drafts_available count 2", lines[6])
		assert.Equal(t, []string{domain.PostStatusDraft}, env.repo.listStatuses)
	})

	t.Run("exactly page size has no notice", func(t *testing.T) {
		env := newTestEnv(t)
		env.login(testUser)
		env.repo.listFn = func(string, string) ([]domain.PostSummary, error) {
			return posts(5), nil
		}

		env.command(testUser, CommandMyDrafts)

		last := env.messenger.last(testUser).Text
		assert.Len(t, strings.Split(last, "\n"), 6)
		assert.NotContains(t, last, "more_drafts_available")
	})

	t.Run("empty", func(t *testing.T) {
		env := newTestEnv(t)
		env.login(testUser)
		env.command(testUser, CommandMyDrafts)
		assert.Equal(t, "no_drafts_found", env.messenger.last(testUser).Text)
	})

	t.Run("error", func(t *testing.T) {
		env := newTestEnv(t)
		env.login(testUser)
		env.repo.listFn = func(string, string) ([]domain.PostSummary, error) {
			return nil, &domain.APIError{Kind: domain.KindMalformedResponse, Message: "bad list"}
		}
		env.command(testUser, CommandMyDrafts)
		assert.Equal(t, "fetch_drafts_fail error bad list", env.messenger.last(testUser).Text)
	})

	t.Run("requires login", func(t *testing.T) {
		env := newTestEnv(t)
		env.command(testUser, CommandMyDrafts)
		assert.Equal(t, "not_logged_in", env.messenger.last(testUser).Text)
		assert.Equal(t, 0, env.repo.callCount())
	})
}

func TestRenderDrafts_Fallbacks(t *testing.T) {
	out := renderDrafts(keyTranslator{}, "fa", []domain.PostSummary{
		{PostID: "p-1", Title: domain.NewI18nText("en", "English only")},
		{PostID: "p-2"},
		{Title: domain.NewI18nText("fa", "فارسی")},
	}, 5)

	assert.Equal(t, strings.Join([]string{
		"your_draft_posts_title",
		"draft_line title English only post_id p-1",
		"draft_line title untitled post_id p-2",
		"draft_line title فارسی post_id not_available",
	}, "\n"), out)
}
