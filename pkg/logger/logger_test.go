package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/products/pkg/logger"
)

func capture(t *testing.T, env string, extra ...slog.Handler) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.Configure(env, extra...)
	t.Cleanup(func() {
		logger.SetOutput(os.Stdout)
		logger.Configure("")
	})
	return &buf
}

func TestConfigure_ProductionWritesJSON(t *testing.T) {
	buf := capture(t, "production")

	logger.Info("database: connecting", "attempt", 1)
	logger.Debug("hidden in production")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "database: connecting", line["msg"])
	assert.EqualValues(t, 1, line["attempt"])
	assert.NotContains(t, buf.String(), "hidden in production")
}

func TestConfigure_LocalWritesText(t *testing.T) {
	buf := capture(t, "local")

	logger.Debug("visible locally", "k", "v")

	assert.Contains(t, buf.String(), `msg="visible locally"`)
	assert.Contains(t, buf.String(), "k=v")
}

func TestWithCtx(t *testing.T) {
	buf := capture(t, "local")

	assert.Same(t, logger.L, logger.WithCtx(context.Background()))

	reqLog := logger.L.With("request_id", "abc123")
	ctx := logger.InjectLogger(context.Background(), reqLog)
	logger.WithCtx(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=abc123")
}

type recordingHandler struct {
	level   slog.Level
	records *[]slog.Record
}

func (h recordingHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }
func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}
func (h recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var debugs, warns []slog.Record
	m := logger.NewMultiHandler(
		recordingHandler{level: slog.LevelDebug, records: &debugs},
		recordingHandler{level: slog.LevelWarn, records: &warns},
	)
	log := slog.New(m)

	log.Info("info line")
	log.Warn("warn line")

	assert.Len(t, debugs, 2)
	require.Len(t, warns, 1)
	assert.Equal(t, "warn line", warns[0].Message)
}

func TestConfigure_ExtraHandlerReceivesRecords(t *testing.T) {
	var got []slog.Record
	capture(t, "local", recordingHandler{level: slog.LevelInfo, records: &got})

	logger.Info("to both")

	require.Len(t, got, 1)
	assert.Equal(t, "to both", got[0].Message)
}
