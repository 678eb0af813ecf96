package meteredRepo

import (
	"HamqadamBot/internal/domain"
	"HamqadamBot/pkg/prometheus"
	"context"
	"log/slog"
	"time"
)

type CoreRepository interface {
	Authenticate(ctx context.Context, externalID int64, displayNameHint string) (domain.Credentials, error)
	FetchProfile(ctx context.Context, token string) (domain.Profile, error)
	SubmitDraft(ctx context.Context, token string, draft domain.Draft) (domain.CreatedPost, error)
	ListDrafts(ctx context.Context, token string, status string) ([]domain.PostSummary, error)
}

// MeteredRepo records latency and failure kinds for every core API call.
type MeteredRepo struct {
	repo CoreRepository
	log  *slog.Logger
}

func NewMeteredRepo(repo CoreRepository, log *slog.Logger) *MeteredRepo {
	return &MeteredRepo{
		repo: repo,
		log:  log,
	}
}

func (r *MeteredRepo) Authenticate(ctx context.Context, externalID int64, displayNameHint string) (domain.Credentials, error) {
	defer r.observe(ctx, "authenticate", time.Now())
	creds, err := r.repo.Authenticate(ctx, externalID, displayNameHint)
	r.record(ctx, "authenticate", err)
	return creds, err
}

func (r *MeteredRepo) FetchProfile(ctx context.Context, token string) (domain.Profile, error) {
	defer r.observe(ctx, "fetch_profile", time.Now())
	profile, err := r.repo.FetchProfile(ctx, token)
	r.record(ctx, "fetch_profile", err)
	return profile, err
}

func (r *MeteredRepo) SubmitDraft(ctx context.Context, token string, draft domain.Draft) (domain.CreatedPost, error) {
	defer r.observe(ctx, "submit_draft", time.Now())
	post, err := r.repo.SubmitDraft(ctx, token, draft)
	r.record(ctx, "submit_draft", err)
	return post, err
}

func (r *MeteredRepo) ListDrafts(ctx context.Context, token string, status string) ([]domain.PostSummary, error) {
	defer r.observe(ctx, "list_drafts", time.Now())
	posts, err := r.repo.ListDrafts(ctx, token, status)
	r.record(ctx, "list_drafts", err)
	return posts, err
}

func (r *MeteredRepo) observe(_ context.Context, method string, start time.Time) {
	prometheus.APIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (r *MeteredRepo) record(ctx context.Context, method string, err error) {
	if err == nil {
		return
	}
	kind := domain.KindOf(err)
	prometheus.APIFailures.WithLabelValues(method, string(kind)).Inc()
	r.log.WarnContext(ctx, "core API call failed",
		"method", method,
		"kind", kind,
		"error", err,
	)
}
