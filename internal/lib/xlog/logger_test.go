package xlog

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ysmood/gson"
)

func TestFileLogger(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "repobox.log")

	l, err := New(Options{File: p, Level: "info"})
	require.NoError(t, err)

	l.Debug("hidden")
	l.With("scope", "test").Info("hello", "n", 1, "error", errors.New("boom"))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(p)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	line := gson.NewFrom(lines[0])
	assert.Equal(t, "info", line.Get("level").Str())
	assert.Equal(t, "hello", line.Get("msg").Str())
	assert.Equal(t, "test", line.Get("scope").Str())
	assert.Equal(t, 1, line.Get("n").Int())
	assert.Equal(t, "boom", line.Get("error").Str())
}

func TestFileLoggerGroup(t *testing.T) {
	p := filepath.Join(t.TempDir(), "repobox.log")

	l, err := New(Options{File: p})
	require.NoError(t, err)

	l.With("scope", "session").WithGroup("req").With("id", 7).Info("grouped", "path", "/x")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(p)
	require.NoError(t, err)

	line := gson.NewFrom(strings.TrimSpace(string(data)))
	assert.Equal(t, "session", line.Get("scope").Str())
	assert.Equal(t, 7, line.Get("req").Get("id").Int())
	assert.Equal(t, "/x", line.Get("req").Get("path").Str())
	assert.False(t, line.Has("logger"))
	assert.False(t, line.Has("id"))
}

func TestConsoleLogger(t *testing.T) {
	buf := &bytes.Buffer{}

	l, err := New(Options{Console: buf, Level: "error"})
	require.NoError(t, err)

	l.Debug("visible on console", "k", "v")
	require.NoError(t, l.Close())

	assert.Contains(t, buf.String(), "visible on console")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestNoOutput(t *testing.T) {
	l, err := New(Options{})
	require.NoError(t, err)
	assert.False(t, l.Enabled(context.Background(), 100))
	require.NoError(t, l.Close())
}

func TestDisabledLogger(t *testing.T) {
	assert.False(t, DisabledLogger.Enabled(context.Background(), -100))
	DisabledLogger.Error("nothing happens")
}
