package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureHandler struct {
	level   slog.Level
	records []slog.Record
}

func (c *captureHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= c.level }
func (c *captureHandler) Handle(_ context.Context, r slog.Record) error {
	c.records = append(c.records, r)
	return nil
}
func (c *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return c }
func (c *captureHandler) WithGroup(string) slog.Handler      { return c }

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestMultiHandlerFanOut(t *testing.T) {
	stdout := &captureHandler{level: slog.LevelInfo}
	errSink := &captureHandler{level: slog.LevelError}
	m := NewMultiHandler(stdout, nil, errSink)

	ctx := context.Background()
	require.True(t, m.Enabled(ctx, slog.LevelInfo))
	require.False(t, m.Enabled(ctx, slog.LevelDebug))

	info := slog.NewRecord(time.Now(), slog.LevelInfo, "routine", 0)
	errRec := slog.NewRecord(time.Now(), slog.LevelError, "broken", 0)
	require.NoError(t, m.Handle(ctx, info))
	require.NoError(t, m.Handle(ctx, errRec))

	// Info reaches stdout only; errors reach both sinks. The nil sink was
	// dropped at construction.
	assert.Len(t, stdout.records, 2)
	assert.Len(t, errSink.records, 1)
	assert.Equal(t, "broken", errSink.records[0].Message)
}
