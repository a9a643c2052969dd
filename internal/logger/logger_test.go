package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"worktracker/internal/logger"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	debug := logger.Load("debug")
	assert.True(t, debug.Enabled(ctx, slog.LevelDebug))

	warn := logger.Load("WARN")
	assert.False(t, warn.Enabled(ctx, slog.LevelInfo))
	assert.True(t, warn.Enabled(ctx, slog.LevelWarn))

	fallback := logger.Load("chatty")
	assert.True(t, fallback.Enabled(ctx, slog.LevelInfo))
	assert.False(t, fallback.Enabled(ctx, slog.LevelDebug))
}
