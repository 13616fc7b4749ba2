// Package logger provides the service's structured, levelled logger built on
// log/slog.
//
// Handlers and repositories log through WithCtx so every line carries the
// request ID stored by the request logger middleware:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product created", "insert_id", res.InsertID)
//	// → time=... level=INFO msg="product created" request_id=a1b2c3d4 insert_id=7
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu sync.RWMutex

	// L is the process-wide base logger.
	L *slog.Logger

	out io.Writer = os.Stdout
)

func init() {
	Configure(os.Getenv("APP_ENV"))
}

// Configure rebuilds L for env. Production environments log JSON for log
// aggregators, everything else logs human-readable text at DEBUG. Extra
// handlers (the Mongo sink) receive every record as well.
func Configure(env string, extra ...slog.Handler) *slog.Logger {
	var handler slog.Handler

	switch strings.ToLower(env) {
	case "production", "prod":
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	if len(extra) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{handler}, extra...)...)
	}

	l := slog.New(handler)

	mu.Lock()
	L = l
	mu.Unlock()

	slog.SetDefault(l)
	return l
}

// SetOutput redirects the text/JSON handler. Call Configure afterwards.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

func base() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return L
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the request logger stored in ctx, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return base()
}

// InjectLogger stores log into ctx. Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

func Debug(msg string, args ...any) { base().Debug(msg, args...) }

func Info(msg string, args ...any) { base().Info(msg, args...) }

func Warn(msg string, args ...any) { base().Warn(msg, args...) }

func Error(msg string, args ...any) { base().Error(msg, args...) }
