package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	return p
}

func TestSearchTomlFile(t *testing.T) {
	tcs := []struct {
		name   string
		setup  func(t *testing.T) (string, []string)
		assert func(t *testing.T, path string, err error)
	}{
		{
			name: "custom path exists",
			setup: func(t *testing.T) (string, []string) {
				return writeFile(t, t.TempDir(), "custom.toml", ""), nil
			},
			assert: func(t *testing.T, path string, err error) {
				assert.NoError(t, err)
				assert.NotEmpty(t, path)
			},
		},
		{
			name: "custom path not found",
			setup: func(t *testing.T) (string, []string) {
				return filepath.Join(t.TempDir(), "nonexistent.toml"), nil
			},
			assert: func(t *testing.T, path string, err error) {
				assert.Error(t, err)
				assert.Empty(t, path)
			},
		},
		{
			name: "found in lookup paths",
			setup: func(t *testing.T) (string, []string) {
				p := writeFile(t, t.TempDir(), "lookup.toml", "")
				return "", []string{"", "nonexistent", p}
			},
			assert: func(t *testing.T, path string, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "lookup.toml", filepath.Base(path))
			},
		},
		{
			name: "nothing found",
			setup: func(t *testing.T) (string, []string) {
				return "", []string{filepath.Join(t.TempDir(), "missing.toml")}
			},
			assert: func(t *testing.T, path string, err error) {
				assert.NoError(t, err)
				assert.Empty(t, path)
			},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			custom, lookup := tc.setup(t)
			path, err := searchTomlFile(custom, lookup)
			tc.assert(t, path, err)
		})
	}
}

func TestFromTomlFile(t *testing.T) {
	tcs := []struct {
		name    string
		content string
		wantErr bool
		assert  func(t *testing.T, cfg *Config)
	}{
		{
			name: "full file",
			content: `
[general]
log-level = "debug"
silent = true
metrics-addr = ":9100"

[watchdog]
interface = "en1"
test-interval = "5m"
recheck-before-change = "10s"
recheck-after-change = 20
recheck-step = "5s"
recheck-max = "45s"
probe-timeout = "2s"
targets = [
    "https://example.com/",
    "https://example.org/",
]
ifconfig = "/usr/local/bin/ifconfig"
`,
			assert: func(t *testing.T, cfg *Config) {
				assert.Equal(t, zerolog.DebugLevel, *cfg.General.LogLevel)
				assert.True(t, *cfg.General.Silent)
				assert.Equal(t, ":9100", *cfg.General.MetricsAddr)

				w := cfg.Watchdog
				assert.Equal(t, "en1", *w.Interface)
				assert.Equal(t, 5*time.Minute, *w.TestInterval)
				assert.Equal(t, 10*time.Second, *w.RecheckBeforeChange)
				assert.Equal(t, 20*time.Second, *w.RecheckAfterChange)
				assert.Equal(t, 5*time.Second, *w.RecheckStep)
				assert.Equal(t, 45*time.Second, *w.RecheckMax)
				assert.Equal(t, 2*time.Second, *w.ProbeTimeout)
				assert.Equal(t, []string{"https://example.com/", "https://example.org/"}, w.Targets)
				assert.Equal(t, "/usr/local/bin/ifconfig", *w.Ifconfig)
			},
		},
		{
			name: "partial file",
			content: `
[watchdog]
interface = "wlan0"
`,
			assert: func(t *testing.T, cfg *Config) {
				assert.Nil(t, cfg.General)
				assert.Equal(t, "wlan0", *cfg.Watchdog.Interface)
				assert.Nil(t, cfg.Watchdog.TestInterval)
			},
		},
		{
			name:    "invalid field",
			content: "[watchdog]\ntest-interval = \"-5m\"\n",
			wantErr: true,
		},
		{
			name:    "malformed toml",
			content: "[watchdog\n",
			wantErr: true,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), "macswitch.toml", tc.content)

			cfg, err := fromTomlFile(p)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			tc.assert(t, cfg)
		})
	}
}
