package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pagewait.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Browser.Headless)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
wait:
  timeout: 30s
browser:
  headless: false
  bin: /opt/chrome/chrome
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Wait.Timeout)
	assert.Equal(t, waitfor.DefaultPollInterval, cfg.Wait.PollInterval, "unset keys keep defaults")
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "/opt/chrome/chrome", cfg.Browser.Bin)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "wait:\n  timeout: 30s\n")
	t.Setenv(EnvTimeout, "2s")
	t.Setenv(EnvPollInterval, "250ms")
	t.Setenv(EnvHeadless, "off")
	t.Setenv(EnvBrowserBin, "/usr/bin/chromium")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Wait.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Wait.PollInterval)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "/usr/bin/chromium", cfg.Browser.Bin)
}

func TestLoad_UnrecognisedBoolIgnored(t *testing.T) {
	t.Setenv(EnvHeadless, "maybe")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Browser.Headless)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "wait: [1, 2"))
		assert.ErrorContains(t, err, "parsing YAML")
	})
	t.Run("bad env duration", func(t *testing.T) {
		t.Setenv(EnvTimeout, "soon")
		_, err := Load("")
		assert.ErrorContains(t, err, EnvTimeout)
	})
	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeConfig(t, "wait:\n  timeout: -1s\n  poll_interval: 0s\n"))
		assert.ErrorContains(t, err, "wait.timeout must be positive")
		assert.ErrorContains(t, err, "wait.poll_interval must be positive")
	})
}

func TestPollerOptions(t *testing.T) {
	cfg := Default()
	cfg.Wait.Timeout = 3 * time.Second
	cfg.Wait.PollInterval = 50 * time.Millisecond

	p, err := waitfor.NewPoller(cfg.PollerOptions()...)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, p.Timeout())
	assert.Equal(t, 50*time.Millisecond, p.PollInterval())
}
