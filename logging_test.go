package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := parseLevel("loud")
	assert.Error(t, err)
}

func TestSetupLoggingWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ddc-switcher.log")

	log, closeLog, err := setupLogging(LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1, Level: "info"})
	require.NoError(t, err)

	log.Info("switching input", "input", "usbc", "to", 27)
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "switching input")
	assert.Contains(t, string(data), "usbc")
}

func TestSetupLoggingRejectsBadLevel(t *testing.T) {
	_, _, err := setupLogging(LogConfig{Level: "nope"})
	assert.Error(t, err)
}
