package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"
	"time"
)

func checkLogLevel(v string) error {
	if !slices.Contains(availableLogLevels, strings.ToLower(v)) {
		return fmt.Errorf("invalid log level %q; one of %v", v, availableLogLevels)
	}

	return nil
}

func checkNonEmpty(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("value must not be empty")
	}

	return nil
}

func checkInterfaceName(v string) error {
	if err := checkNonEmpty(v); err != nil {
		return err
	}

	if strings.ContainsAny(v, " \t/") {
		return fmt.Errorf("invalid interface name %q", v)
	}

	return nil
}

func checkPositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %s", d)
	}

	return nil
}

func checkNonNegativeDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("duration must not be negative, got %s", d)
	}

	return nil
}

func checkTargetURL(v string) error {
	u, err := url.Parse(v)
	if err != nil {
		return err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("target %q must use http or https", v)
	}

	if u.Host == "" {
		return fmt.Errorf("target %q has no host", v)
	}

	return nil
}

// checkMetricsAddr accepts an empty string, which disables the endpoint.
func checkMetricsAddr(v string) error {
	if v == "" {
		return nil
	}

	return checkHostPort(v)
}

func checkHostPort(v string) error {
	_, port, err := net.SplitHostPort(v)
	if err != nil {
		return err
	}

	if port == "" {
		return fmt.Errorf("missing port in %q", v)
	}

	return nil
}
