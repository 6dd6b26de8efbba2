package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/xvzc/macswitch/internal/ptr"
)

const (
	DefaultInterface           = "en0"
	DefaultIfconfig            = "/sbin/ifconfig"
	DefaultTestInterval        = 10 * time.Minute
	DefaultRecheckBeforeChange = 30 * time.Second
	DefaultRecheckAfterChange  = 30 * time.Second
	DefaultRecheckStep         = 10 * time.Second
	DefaultRecheckMax          = time.Minute
	DefaultProbeTimeout        = 6 * time.Second
)

var _ merger[*Config] = (*Config)(nil)

type Config struct {
	General  *GeneralOptions  `toml:"general"`
	Watchdog *WatchdogOptions `toml:"watchdog"`
}

func (c *Config) UnmarshalTOML(data any) (err error) {
	m, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("non-table type config")
	}

	c.General = findStructFrom[GeneralOptions](m, "general", &err)
	c.Watchdog = findStructFrom[WatchdogOptions](m, "watchdog", &err)

	return err
}

func NewConfig() *Config {
	return &Config{
		General: &GeneralOptions{
			LogLevel:    ptr.FromValue(zerolog.InfoLevel),
			Silent:      ptr.FromValue(false),
			MetricsAddr: ptr.FromValue(""),
		},
		Watchdog: &WatchdogOptions{
			Interface:           ptr.FromValue(DefaultInterface),
			TestInterval:        ptr.FromValue(DefaultTestInterval),
			RecheckBeforeChange: ptr.FromValue(DefaultRecheckBeforeChange),
			RecheckAfterChange:  ptr.FromValue(DefaultRecheckAfterChange),
			RecheckStep:         ptr.FromValue(DefaultRecheckStep),
			RecheckMax:          ptr.FromValue(DefaultRecheckMax),
			ProbeTimeout:        ptr.FromValue(DefaultProbeTimeout),
			Targets:             nil,
			Ifconfig:            ptr.FromValue(DefaultIfconfig),
		},
	}
}

func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	return &Config{
		General:  c.General.Clone(),
		Watchdog: c.Watchdog.Clone(),
	}
}

func (origin *Config) Merge(overrides *Config) *Config {
	if overrides == nil {
		return origin.Clone()
	}

	if origin == nil {
		return overrides.Clone()
	}

	return &Config{
		General:  origin.General.Merge(overrides.General),
		Watchdog: origin.Watchdog.Merge(overrides.Watchdog),
	}
}

// Validate checks the rules that span more than one field. Single fields are
// already checked while parsing flags and TOML.
func (c *Config) Validate() error {
	var errs []error

	if c.General == nil || c.Watchdog == nil {
		return errors.New("incomplete configuration")
	}

	w := c.Watchdog
	if w.Interface == nil || *w.Interface == "" {
		errs = append(errs, errors.New("watchdog.interface must be set"))
	}

	if w.Ifconfig == nil || *w.Ifconfig == "" {
		errs = append(errs, errors.New("watchdog.ifconfig must be set"))
	}

	durations := []struct {
		name  string
		value *time.Duration
		check func(time.Duration) error
	}{
		{"test-interval", w.TestInterval, checkPositiveDuration},
		{"recheck-before-change", w.RecheckBeforeChange, checkPositiveDuration},
		{"recheck-after-change", w.RecheckAfterChange, checkPositiveDuration},
		{"recheck-step", w.RecheckStep, checkNonNegativeDuration},
		{"recheck-max", w.RecheckMax, checkPositiveDuration},
		{"probe-timeout", w.ProbeTimeout, checkPositiveDuration},
	}
	for _, d := range durations {
		if d.value == nil {
			errs = append(errs, fmt.Errorf("watchdog.%s must be set", d.name))
			continue
		}
		if err := d.check(*d.value); err != nil {
			errs = append(errs, fmt.Errorf("watchdog.%s: %w", d.name, err))
		}
	}

	if w.RecheckMax != nil && w.RecheckAfterChange != nil &&
		*w.RecheckMax < *w.RecheckAfterChange {
		errs = append(errs, fmt.Errorf(
			"watchdog.recheck-max (%s) must not be below watchdog.recheck-after-change (%s)",
			*w.RecheckMax, *w.RecheckAfterChange,
		))
	}

	for i, t := range w.Targets {
		if err := checkTargetURL(t); err != nil {
			errs = append(errs, fmt.Errorf("watchdog.targets[%d]: %w", i, err))
		}
	}

	if c.General.MetricsAddr != nil {
		if err := checkMetricsAddr(*c.General.MetricsAddr); err != nil {
			errs = append(errs, fmt.Errorf("general.metrics-addr: %w", err))
		}
	}

	return errors.Join(errs...)
}

// load builds the effective configuration: defaults, then the file at path
// (if any), then overrides.
func load(path string, overrides *Config) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		tomlCfg, err := fromTomlFile(path)
		if err != nil {
			return nil, fmt.Errorf("error parsing toml config: %w", err)
		}
		cfg = cfg.Merge(tomlCfg)
	}

	cfg = cfg.Merge(overrides)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
