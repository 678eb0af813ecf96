package coreapi

import (
	"HamqadamBot/configs"
	"HamqadamBot/internal/domain"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	maxResponseSize = 4 << 20
	maxDetailLen    = 500
)

// Repo is the only component that talks to the core API. Every error it
// returns is a *domain.APIError; nothing is retried.
type Repo struct {
	Path    string
	Client  *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

func NewRepo(config configs.CoreAPIConfig, log *slog.Logger) *Repo {
	return &Repo{
		Path: strings.TrimRight(config.BaseURL, "/"),
		Client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), config.Burst),
		log:     log,
	}
}

type authRequest struct {
	TelegramID       string `json:"telegramId"`
	TelegramUsername string `json:"telegramUsername,omitempty"`
}

type submitRequest struct {
	PostType    domain.PostType   `json:"postType"`
	Title       domain.I18nText   `json:"title"`
	ContentBody domain.I18nText   `json:"contentBody"`
	BodyFormat  string            `json:"bodyFormat"`
	AuthorInfo  domain.AuthorInfo `json:"authorInfo"`
}

// Authenticate exchanges a Telegram identity for an access token. The backend
// decides whether this is a login or a registration.
func (repo *Repo) Authenticate(ctx context.Context, externalID int64, displayNameHint string) (domain.Credentials, error) {
	body, apiErr := repo.doRequest(ctx, call{
		name:     "authenticate",
		method:   http.MethodPost,
		endpoint: "/auth/telegram",
		payload: authRequest{
			TelegramID:       strconv.FormatInt(externalID, 10),
			TelegramUsername: displayNameHint,
		},
	})
	if apiErr != nil {
		return domain.Credentials{}, apiErr
	}

	res := gjson.ParseBytes(body)
	token := res.Get("accessToken").String()
	profile, ok := decodeProfile(res.Get("user"))
	if !gjson.ValidBytes(body) || token == "" || !ok {
		return domain.Credentials{}, malformed("Login response is missing the access token or user id.", body)
	}
	return domain.Credentials{Token: token, Profile: profile}, nil
}

func (repo *Repo) FetchProfile(ctx context.Context, token string) (domain.Profile, error) {
	if token == "" {
		return domain.Profile{}, unauthenticated()
	}
	body, apiErr := repo.doRequest(ctx, call{
		name:     "fetch_profile",
		method:   http.MethodGet,
		endpoint: "/users/me",
		token:    token,
	})
	if apiErr != nil {
		return domain.Profile{}, apiErr
	}

	res := gjson.ParseBytes(body)
	if wrapped := res.Get("user"); wrapped.IsObject() {
		res = wrapped
	}
	profile, ok := decodeProfile(res)
	if !ok {
		return domain.Profile{}, malformed("Profile response is missing the user id.", body)
	}
	return profile, nil
}

// SubmitDraft creates a post in draft status. A 2xx answer without a postId is
// reported as MalformedResponse.
func (repo *Repo) SubmitDraft(ctx context.Context, token string, draft domain.Draft) (domain.CreatedPost, error) {
	if token == "" {
		return domain.CreatedPost{}, unauthenticated()
	}
	if !draft.Complete() {
		return domain.CreatedPost{}, &domain.APIError{
			Kind:    domain.KindValidation,
			Message: "Draft is missing its type, title, body or author.",
			Err:     domain.ErrIncompleteDraft,
		}
	}
	body, apiErr := repo.doRequest(ctx, call{
		name:     "submit_draft",
		method:   http.MethodPost,
		endpoint: "/posts",
		token:    token,
		payload: submitRequest{
			PostType:    draft.Type,
			Title:       draft.Title,
			ContentBody: draft.Body,
			BodyFormat:  domain.BodyFormatText,
			AuthorInfo:  *draft.Author,
		},
	})
	if apiErr != nil {
		return domain.CreatedPost{}, apiErr
	}

	postID := gjson.GetBytes(body, "postId").String()
	if postID == "" {
		return domain.CreatedPost{}, malformed("Core API did not return a post id.", body)
	}
	return domain.CreatedPost{PostID: postID}, nil
}

// ListDrafts returns every post with the given status; callers truncate for
// display.
func (repo *Repo) ListDrafts(ctx context.Context, token string, status string) ([]domain.PostSummary, error) {
	if token == "" {
		return nil, unauthenticated()
	}
	body, apiErr := repo.doRequest(ctx, call{
		name:     "list_drafts",
		method:   http.MethodGet,
		endpoint: "/posts",
		token:    token,
		query:    url.Values{"status": {status}},
	})
	if apiErr != nil {
		return nil, apiErr
	}

	posts, err := normalizePostList(body)
	if err != nil {
		return nil, malformed("Core API returned an unexpected list of posts.", body)
	}
	return posts, nil
}

type call struct {
	name     string
	method   string
	endpoint string
	token    string
	query    url.Values
	payload  any
}

func (repo *Repo) doRequest(ctx context.Context, c call) ([]byte, *domain.APIError) {
	const op = "Repo.doRequest"

	var reqBody []byte
	if c.payload != nil {
		var err error
		if reqBody, err = json.Marshal(c.payload); err != nil {
			return nil, &domain.APIError{
				Kind:    domain.KindTransport,
				Message: "Core API request could not be encoded.",
				Detail:  err.Error(),
				Err:     fmt.Errorf("%s: %w", op, err),
			}
		}
	}

	if err := repo.limiter.Wait(ctx); err != nil {
		return nil, transportError(fmt.Errorf("%s: rate limiter: %w", op, err))
	}

	target := repo.Path + c.endpoint
	if len(c.query) > 0 {
		target += "?" + c.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, c.method, target, bytes.NewReader(reqBody))
	if err != nil {
		return nil, transportError(fmt.Errorf("%s: failed to create request: %w", op, err))
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	repo.log.DebugContext(ctx, "Outgoing core API request",
		"call", c.name,
		"method", req.Method,
		"url", req.URL.String(),
		"authorized", c.token != "",
		"body", truncate(reqBody),
	)

	resp, err := repo.Client.Do(req)
	if err != nil {
		repo.log.ErrorContext(ctx, "Core API request failed", "call", c.name, "error", err)
		return nil, transportError(fmt.Errorf("%s: request failed: %w", op, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, transportError(fmt.Errorf("%s: failed to read response: %w", op, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		repo.log.WarnContext(ctx, "Core API returned error status",
			"call", c.name,
			"status", resp.StatusCode,
			"body", truncate(respBody),
		)
		return nil, &domain.APIError{
			Kind:       domain.KindHTTPStatus,
			Message:    fmt.Sprintf("Core API HTTP error: %d", resp.StatusCode),
			Detail:     truncate(respBody),
			StatusCode: resp.StatusCode,
		}
	}
	return respBody, nil
}

func decodeProfile(res gjson.Result) (domain.Profile, bool) {
	if !res.IsObject() {
		return domain.Profile{}, false
	}
	profile := domain.Profile{
		UserID:           res.Get("userId").String(),
		TelegramUsername: res.Get("telegramUsername").String(),
		AccountStatus:    res.Get("accountStatus").String(),
	}
	if fullName := res.Get("fullName"); fullName.Exists() {
		// fullName is cosmetic; an odd shape just leaves it empty.
		_ = json.Unmarshal([]byte(fullName.Raw), &profile.FullName)
	}
	return profile, profile.UserID != ""
}

func unauthenticated() *domain.APIError {
	return &domain.APIError{
		Kind:    domain.KindUnauthenticated,
		Message: "Authentication token required.",
		Err:     domain.ErrTokenRequired,
	}
}

func transportError(err error) *domain.APIError {
	return &domain.APIError{
		Kind:    domain.KindTransport,
		Message: "Core API request error. Is Core service running?",
		Detail:  err.Error(),
		Err:     err,
	}
}

func malformed(message string, body []byte) *domain.APIError {
	return &domain.APIError{
		Kind:    domain.KindMalformedResponse,
		Message: message,
		Detail:  truncate(body),
	}
}

func truncate(b []byte) string {
	if len(b) > maxDetailLen {
		return string(b[:maxDetailLen])
	}
	return string(b)
}
