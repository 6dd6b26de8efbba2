package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xvzc/macswitch/internal/ptr"
)

type merger[T any] interface {
	Clone() T
	Merge(overrides T) T
}

// ┌─────────────────┐
// │ GENERAL OPTIONS │
// └─────────────────┘
var _ merger[*GeneralOptions] = (*GeneralOptions)(nil)

var availableLogLevels = []string{"trace", "debug", "info", "warn", "error"}

type GeneralOptions struct {
	LogLevel    *zerolog.Level `toml:"log-level"`
	Silent      *bool          `toml:"silent"`
	MetricsAddr *string        `toml:"metrics-addr"`
}

func (o *GeneralOptions) UnmarshalTOML(data any) (err error) {
	m, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("non-table type general config")
	}

	o.Silent = findFrom(m, "silent", parseBoolFn(), &err)
	o.MetricsAddr = findFrom(m, "metrics-addr", parseStringFn(checkMetricsAddr), &err)
	if p := findFrom(m, "log-level", parseStringFn(checkLogLevel), &err); isOk(p, err) {
		o.LogLevel = ptr.FromValue(MustParseLogLevel(*p))
	}

	return err
}

func (o *GeneralOptions) Clone() *GeneralOptions {
	if o == nil {
		return nil
	}

	return &GeneralOptions{
		LogLevel:    ptr.Clone(o.LogLevel),
		Silent:      ptr.Clone(o.Silent),
		MetricsAddr: ptr.Clone(o.MetricsAddr),
	}
}

func (origin *GeneralOptions) Merge(overrides *GeneralOptions) *GeneralOptions {
	if overrides == nil {
		return origin.Clone()
	}

	if origin == nil {
		return overrides.Clone()
	}

	return &GeneralOptions{
		LogLevel:    ptr.CloneOr(overrides.LogLevel, origin.LogLevel),
		Silent:      ptr.CloneOr(overrides.Silent, origin.Silent),
		MetricsAddr: ptr.CloneOr(overrides.MetricsAddr, origin.MetricsAddr),
	}
}

// ┌──────────────────┐
// │ WATCHDOG OPTIONS │
// └──────────────────┘
var _ merger[*WatchdogOptions] = (*WatchdogOptions)(nil)

type WatchdogOptions struct {
	Interface           *string        `toml:"interface"`
	TestInterval        *time.Duration `toml:"test-interval"`
	RecheckBeforeChange *time.Duration `toml:"recheck-before-change"`
	RecheckAfterChange  *time.Duration `toml:"recheck-after-change"`
	RecheckStep         *time.Duration `toml:"recheck-step"`
	RecheckMax          *time.Duration `toml:"recheck-max"`
	ProbeTimeout        *time.Duration `toml:"probe-timeout"`
	Targets             []string       `toml:"targets"`
	Ifconfig            *string        `toml:"ifconfig"`
}

func (o *WatchdogOptions) UnmarshalTOML(data any) (err error) {
	m, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("non-table type watchdog config")
	}

	o.Interface = findFrom(m, "interface", parseStringFn(checkInterfaceName), &err)
	o.Ifconfig = findFrom(m, "ifconfig", parseStringFn(checkNonEmpty), &err)

	o.TestInterval = findFrom(m, "test-interval", parseDurationFn(checkPositiveDuration), &err)
	o.RecheckBeforeChange = findFrom(
		m, "recheck-before-change", parseDurationFn(checkPositiveDuration), &err,
	)
	o.RecheckAfterChange = findFrom(
		m, "recheck-after-change", parseDurationFn(checkPositiveDuration), &err,
	)
	o.RecheckStep = findFrom(m, "recheck-step", parseDurationFn(checkNonNegativeDuration), &err)
	o.RecheckMax = findFrom(m, "recheck-max", parseDurationFn(checkPositiveDuration), &err)
	o.ProbeTimeout = findFrom(m, "probe-timeout", parseDurationFn(checkPositiveDuration), &err)

	o.Targets = findSliceFrom(m, "targets", parseStringFn(checkTargetURL), &err)

	return err
}

func (o *WatchdogOptions) Clone() *WatchdogOptions {
	if o == nil {
		return nil
	}

	var targets []string
	if o.Targets != nil {
		targets = append([]string{}, o.Targets...)
	}

	return &WatchdogOptions{
		Interface:           ptr.Clone(o.Interface),
		TestInterval:        ptr.Clone(o.TestInterval),
		RecheckBeforeChange: ptr.Clone(o.RecheckBeforeChange),
		RecheckAfterChange:  ptr.Clone(o.RecheckAfterChange),
		RecheckStep:         ptr.Clone(o.RecheckStep),
		RecheckMax:          ptr.Clone(o.RecheckMax),
		ProbeTimeout:        ptr.Clone(o.ProbeTimeout),
		Targets:             targets,
		Ifconfig:            ptr.Clone(o.Ifconfig),
	}
}

func (origin *WatchdogOptions) Merge(overrides *WatchdogOptions) *WatchdogOptions {
	if overrides == nil {
		return origin.Clone()
	}

	if origin == nil {
		return overrides.Clone()
	}

	return &WatchdogOptions{
		Interface:           ptr.CloneOr(overrides.Interface, origin.Interface),
		TestInterval:        ptr.CloneOr(overrides.TestInterval, origin.TestInterval),
		RecheckBeforeChange: ptr.CloneOr(overrides.RecheckBeforeChange, origin.RecheckBeforeChange),
		RecheckAfterChange:  ptr.CloneOr(overrides.RecheckAfterChange, origin.RecheckAfterChange),
		RecheckStep:         ptr.CloneOr(overrides.RecheckStep, origin.RecheckStep),
		RecheckMax:          ptr.CloneOr(overrides.RecheckMax, origin.RecheckMax),
		ProbeTimeout:        ptr.CloneOr(overrides.ProbeTimeout, origin.ProbeTimeout),
		Targets:             ptr.CloneSliceOr(overrides.Targets, origin.Targets),
		Ifconfig:            ptr.CloneOr(overrides.Ifconfig, origin.Ifconfig),
	}
}

func MustParseLogLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		panic(err)
	}

	return level
}
