package logger

import (
	"HamqadamBot/configs"
	"context"
	"io"
	"log/slog"
	"os"
)

type ctxKey struct{}

const CorrelationIDKey = "correlation_id"

func NewLogger(cfg *configs.Config) *slog.Logger {
	return New(cfg.Env, os.Stdout)
}

// New builds a logger for the given environment: text/debug for local,
// JSON/debug for dev, JSON/info for prod.
func New(env string, w io.Writer) *slog.Logger {
	switch env {
	case configs.EnvLocal:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case configs.EnvProd:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

// Discard drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
