package rlog

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rhema.log")

	l, err := New(Config{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	l.Info("hello", "k", "v")

	data, err := readAll(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
}

func TestWithAddsScope(t *testing.T) {
	var buf bytes.Buffer
	base := &Logger{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	scoped := base.With("component", "cache")
	scoped.Info("tick")
	assert.Contains(t, buf.String(), "component=cache")
}

func TestContextRoundTrip(t *testing.T) {
	l := Discard()
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}

func readAll(path string) ([]byte, error) {
	return os.ReadFile(path)
}
