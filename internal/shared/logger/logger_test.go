package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docket-dev/docket/internal/shared/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), "level %q", name)
	}
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docket.log")

	err := Init(&config.LoggerConfig{Level: "debug", Format: "json", OutputPath: path}, "release")
	require.NoError(t, err)
	require.NotNil(t, Logger)

	assert.True(t, Logger.Enabled(context.Background(), slog.LevelDebug))

	SetLevel(slog.LevelError)
	assert.False(t, Logger.Enabled(context.Background(), slog.LevelWarn))
}
