package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvzc/macswitch/internal/ptr"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, zerolog.InfoLevel, *cfg.General.LogLevel)
	assert.False(t, *cfg.General.Silent)
	assert.Equal(t, "", *cfg.General.MetricsAddr)

	w := cfg.Watchdog
	assert.Equal(t, "en0", *w.Interface)
	assert.Equal(t, 10*time.Minute, *w.TestInterval)
	assert.Equal(t, 30*time.Second, *w.RecheckBeforeChange)
	assert.Equal(t, 30*time.Second, *w.RecheckAfterChange)
	assert.Equal(t, 10*time.Second, *w.RecheckStep)
	assert.Equal(t, time.Minute, *w.RecheckMax)
	assert.Equal(t, 6*time.Second, *w.ProbeTimeout)
	assert.Nil(t, w.Targets)
	assert.Equal(t, "/sbin/ifconfig", *w.Ifconfig)

	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tcs := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(cfg *Config) {},
		},
		{
			name: "max below after-change",
			mutate: func(cfg *Config) {
				cfg.Watchdog.RecheckMax = ptr.FromValue(10 * time.Second)
			},
			wantErr: "recheck-max",
		},
		{
			name: "max equal to after-change",
			mutate: func(cfg *Config) {
				cfg.Watchdog.RecheckMax = ptr.FromValue(30 * time.Second)
			},
		},
		{
			name: "zero step",
			mutate: func(cfg *Config) {
				cfg.Watchdog.RecheckStep = ptr.FromValue(time.Duration(0))
			},
		},
		{
			name: "zero probe timeout",
			mutate: func(cfg *Config) {
				cfg.Watchdog.ProbeTimeout = ptr.FromValue(time.Duration(0))
			},
			wantErr: "probe-timeout",
		},
		{
			name: "missing interval",
			mutate: func(cfg *Config) {
				cfg.Watchdog.TestInterval = nil
			},
			wantErr: "test-interval must be set",
		},
		{
			name: "empty interface",
			mutate: func(cfg *Config) {
				cfg.Watchdog.Interface = ptr.FromValue("")
			},
			wantErr: "interface",
		},
		{
			name: "bad target",
			mutate: func(cfg *Config) {
				cfg.Watchdog.Targets = []string{"https://ok.example/", "gopher://x"}
			},
			wantErr: "targets[1]",
		},
		{
			name: "bad metrics addr",
			mutate: func(cfg *Config) {
				cfg.General.MetricsAddr = ptr.FromValue("localhost")
			},
			wantErr: "metrics-addr",
		},
		{
			name: "missing section",
			mutate: func(cfg *Config) {
				cfg.Watchdog = nil
			},
			wantErr: "incomplete",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfig_Validate_ReportsAll(t *testing.T) {
	cfg := NewConfig()
	cfg.Watchdog.Interface = ptr.FromValue("")
	cfg.Watchdog.TestInterval = ptr.FromValue(-time.Second)

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interface")
	assert.Contains(t, err.Error(), "test-interval")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "macswitch.toml", `
[watchdog]
interface = "en1"
test-interval = "1m"
`)

	overrides := &Config{
		Watchdog: &WatchdogOptions{TestInterval: ptr.FromValue(2 * time.Minute)},
	}

	cfg, err := load(p, overrides)
	require.NoError(t, err)
	assert.Equal(t, "en1", *cfg.Watchdog.Interface)
	assert.Equal(t, 2*time.Minute, *cfg.Watchdog.TestInterval)
	assert.Equal(t, 30*time.Second, *cfg.Watchdog.RecheckAfterChange)

	cfg, err = load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "en0", *cfg.Watchdog.Interface)

	bad := writeFile(t, dir, "bad.toml", "[watchdog]\nrecheck-max = \"5s\"\n")
	_, err = load(bad, nil)
	assert.Error(t, err)
}
