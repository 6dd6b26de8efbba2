package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultTimeout = 6 * time.Second

	// maxBodyBytes bounds how much of a response is read to decide emptiness.
	maxBodyBytes = 1 << 20
)

var (
	errEmptyBody  = errors.New("empty response body")
	errNoTargets  = errors.New("no probe targets")
	errStatusCode = errors.New("unexpected status code")
)

// Prober answers whether outbound HTTP currently works. It never returns an
// error: every failure collapses to false and is logged.
type Prober struct {
	client *http.Client
	pick   func(n int) int
	logger zerolog.Logger
}

func NewProber(timeout time.Duration, logger zerolog.Logger) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Prober{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: timeout,
				}).DialContext,
				TLSHandshakeTimeout: timeout,
				// Every probe dials through the interface's current address.
				DisableKeepAlives: true,
			},
		},
		pick:   rand.Intn,
		logger: logger,
	}
}

// Timeout reports the overall deadline applied to each probe.
func (p *Prober) Timeout() time.Duration {
	return p.client.Timeout
}

// Probe fetches one uniformly chosen target and reports reachability.
func (p *Prober) Probe(ctx context.Context, targets []string) bool {
	logger := p.logger.With().Ctx(ctx).Logger()

	if len(targets) == 0 {
		logger.Warn().Err(errNoTargets).Msg("probe skipped")
		return false
	}

	target := targets[p.pick(len(targets))]

	start := time.Now()
	err := p.fetch(ctx, target)
	elapsed := time.Since(start)

	if err != nil {
		logger.Warn().
			Str("target", target).
			Dur("elapsed", elapsed).
			Err(err).
			Msg("probe failed")
		return false
	}

	logger.Info().
		Str("target", target).
		Dur("elapsed", elapsed).
		Msg("probe succeeded")

	return true
}

func (p *Prober) fetch(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", errStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return errEmptyBody
	}

	return nil
}
