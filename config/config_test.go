package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/apiclient/errors"
	"github.com/kochabx/apiclient/log"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestLoadFile(t *testing.T) {
	file := writeFile(t, "apiclient.yaml", `
server_url: http://localhost:8000
timeout: 5s
concurrency: 4
log:
  level: debug
`)

	c := New(WithFile(file, false), WithLogger(log.Nop()))
	require.NoError(t, c.Load())

	s := c.Snapshot()
	assert.Equal(t, "http://localhost:8000", s.ServerURL)
	assert.Equal(t, 5*time.Second, s.Timeout)
	assert.Equal(t, 4, s.Concurrency)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "/apis/users/login", s.LoginPath)
	assert.Equal(t, "/user-login", s.LoginView)
	assert.Equal(t, "size", s.Log.Rotate)
	assert.Equal(t, "http://localhost:8000", c.ServerURL())
}

func TestEnvOverride(t *testing.T) {
	file := writeFile(t, "apiclient.yaml", "server_url: http://localhost:8000\n")
	t.Setenv("APICLIENT_SERVER_URL", "https://forum.example.com")
	t.Setenv("APICLIENT_LOG_LEVEL", "warn")
	t.Setenv("APICLIENT_TIMEOUT", "2s")

	c := New(WithFile(file, false), WithLogger(log.Nop()))
	require.NoError(t, c.Load())

	s := c.Snapshot()
	assert.Equal(t, "https://forum.example.com", s.ServerURL)
	assert.Equal(t, "warn", s.Log.Level)
	assert.Equal(t, 2*time.Second, s.Timeout)
}

func TestEnvOnly(t *testing.T) {
	t.Setenv("APICLIENT_SERVER_URL", "http://127.0.0.1:8000")

	c := New(WithLogger(log.Nop()))
	require.NoError(t, c.Load())
	assert.Equal(t, "http://127.0.0.1:8000", c.ServerURL())
	assert.NoError(t, c.Watch())
}

func TestOptionalMissingFile(t *testing.T) {
	t.Setenv("APICLIENT_SERVER_URL", "http://127.0.0.1:8000")
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	require.NoError(t, New(WithFile(missing, true), WithLogger(log.Nop())).Load())

	err := New(WithFile(missing, false), WithLogger(log.Nop())).Load()
	require.Error(t, err)
	assert.Equal(t, 404, errors.FromError(err).GetCode())
}

func TestValidation(t *testing.T) {
	tests := map[string]string{
		"missing url": "timeout: 1s\n",
		"bad url":     "server_url: not a url\n",
		"bad level":   "server_url: http://x\nlog:\n  level: loud\n",
		"bad rotate":  "server_url: http://x\nlog:\n  rotate: weekly\n",
		"login view":  "server_url: http://x\nlogin_view: user-login\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			file := writeFile(t, "apiclient.yaml", content)
			err := New(WithFile(file, false), WithLogger(log.Nop())).Load()
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindInvalid))
		})
	}
}

func TestFailedLoadKeepsSettings(t *testing.T) {
	file := writeFile(t, "apiclient.yaml", "server_url: http://localhost:8000\n")
	c := New(WithFile(file, false), WithLogger(log.Nop()))
	require.NoError(t, c.Load())

	require.NoError(t, os.WriteFile(file, []byte("server_url: nope\n"), 0o644))
	assert.Error(t, c.Load())
	assert.Equal(t, "http://localhost:8000", c.ServerURL())
}

func TestSetOverride(t *testing.T) {
	file := writeFile(t, "apiclient.yaml", "server_url: http://localhost:8000\n")
	c := New(WithFile(file, false), WithLogger(log.Nop()))
	require.NoError(t, c.Load())

	require.NoError(t, c.Set("server_url", "http://10.0.0.1:9000"))
	assert.Equal(t, "http://10.0.0.1:9000", c.ServerURL())
}

func TestReloadCallbacks(t *testing.T) {
	file := writeFile(t, "apiclient.yaml", "server_url: http://localhost:8000\n")

	var got []string
	c := New(WithFile(file, false), WithLogger(log.Nop()), OnReload(func(s Settings) {
		got = append(got, s.ServerURL)
	}))
	require.NoError(t, c.Load())

	require.NoError(t, os.WriteFile(file, []byte("server_url: http://localhost:9000\n"), 0o644))
	require.NoError(t, c.Reload())
	assert.Equal(t, []string{"http://localhost:9000"}, got)
}

func TestWatch(t *testing.T) {
	file := writeFile(t, "apiclient.yaml", "server_url: http://localhost:8000\n")

	reloaded := make(chan Settings, 4)
	c := New(WithFile(file, false), WithLogger(log.Nop()), OnReload(func(s Settings) {
		reloaded <- s
	}))
	require.NoError(t, c.Load())
	require.NoError(t, c.Watch())

	require.NoError(t, os.WriteFile(file, []byte("server_url: http://localhost:9000\n"), 0o644))

	select {
	case s := <-reloaded:
		assert.Equal(t, "http://localhost:9000", s.ServerURL)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after file change")
	}
	assert.Equal(t, "http://localhost:9000", c.ServerURL())
}

func TestWatchDisabled(t *testing.T) {
	file := writeFile(t, "apiclient.yaml", "server_url: http://localhost:8000\n")
	c := New(WithFile(file, false), WithWatch(false), WithLogger(log.Nop()))
	require.NoError(t, c.Load())
	assert.NoError(t, c.Watch())
}

func TestLogSettingsLogger(t *testing.T) {
	l, err := LogSettings{Level: "debug"}.Logger(io.Discard)
	require.NoError(t, err)
	assert.NotNil(t, l)

	dir := t.TempDir()
	l, err = LogSettings{Level: "info", File: dir, Rotate: "size"}.Logger(nil)
	require.NoError(t, err)
	l.Info().Msg("hello")
	require.NoError(t, l.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	_, err = LogSettings{Level: "loud"}.Logger(nil)
	assert.Error(t, err)
}
