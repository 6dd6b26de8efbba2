package watchdog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/xvzc/macswitch/internal/command"
	"github.com/xvzc/macswitch/internal/hwaddr"
	"github.com/xvzc/macswitch/internal/session"
)

type State int

const (
	Steady State = iota
	GraceWait
	Rotating
)

var stateNames = []string{"steady", "grace-wait", "rotating"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}

	return stateNames[s]
}

type Prober interface {
	Probe(ctx context.Context, targets []string) bool
}

type Runner interface {
	Run(ctx context.Context, name string, args string) (command.Result, error)
}

// Recorder receives controller events for metrics.
type Recorder interface {
	ObserveProbe(state State, reachable bool)
	ObserveRotation(exitCode int, err error)
	ObserveState(state State)
	ObserveBackOff(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveProbe(State, bool) {}

func (nopRecorder) ObserveRotation(int, error) {}

func (nopRecorder) ObserveState(State) {}

func (nopRecorder) ObserveBackOff(time.Duration) {}

// Controller owns the working hardware address and drives the
// steady -> grace-wait -> rotating cycle. It is single-threaded: probes and
// tool invocations never overlap.
type Controller struct {
	iface    string
	addr     net.HardwareAddr
	settings func() Settings
	prober   Prober
	runner   Runner
	clock    clock.Clock
	logger   zerolog.Logger

	// Recorder and OnTransition are optional and must be set before Run.
	Recorder     Recorder
	OnTransition func(from, to State)

	state State
	// episodeStart is the address the current rotation burst started from.
	episodeStart net.HardwareAddr
	rotations    int
	ignoredIface string
}

func NewController(
	iface string,
	addr net.HardwareAddr,
	settings func() Settings,
	prober Prober,
	runner Runner,
	clk clock.Clock,
	logger zerolog.Logger,
) (*Controller, error) {
	if len(addr) != hwaddr.Len {
		return nil, fmt.Errorf(
			"interface %s has a %d-byte hardware address; %d bytes required",
			iface, len(addr), hwaddr.Len,
		)
	}

	if clk == nil {
		clk = clock.New()
	}

	return &Controller{
		iface:    iface,
		addr:     hwaddr.Clone(addr),
		settings: settings,
		prober:   prober,
		runner:   runner,
		clock:    clk,
		logger:   logger,
		Recorder: nopRecorder{},
	}, nil
}

// Addr returns a copy of the working address. It must not be called while Run
// is executing.
func (c *Controller) Addr() net.HardwareAddr {
	return hwaddr.Clone(c.addr)
}

// Run blocks until ctx is cancelled and returns ctx.Err().
func (c *Controller) Run(ctx context.Context) error {
	ctx = session.WithInterface(ctx, c.iface)
	logger := c.logger.With().Ctx(ctx).Logger()

	snap := c.snapshot(ctx)
	logger.Info().
		Str("addr", hwaddr.Format(c.addr)).
		Dur("test_interval", snap.TestInterval).
		Int("targets", len(snap.targets())).
		Msg("watchdog started")

	next := Steady
	reachable := c.probe(ctx, snap)
	if err := ctx.Err(); err != nil {
		return err
	}
	if !reachable {
		next = GraceWait
	}

	episodeCtx := ctx
	if next == GraceWait {
		episodeCtx = session.WithNewEpisode(ctx)
	}
	c.state = next
	c.Recorder.ObserveState(next)

	var bo backoff.BackOff
	for {
		var err error

		switch c.state {
		case Steady:
			snap = c.snapshot(ctx)
			next, err = c.steady(ctx, snap)
		case GraceWait:
			next, err = c.graceWait(episodeCtx, snap)
		case Rotating:
			next, err = c.rotate(episodeCtx, snap, bo)
		}

		if err != nil {
			return err
		}

		switch {
		case c.state == Steady && next == GraceWait:
			episodeCtx = session.WithNewEpisode(ctx)
		case c.state == GraceWait && next == Rotating:
			bo = backoff.WithContext(
				NewLinearBackOff(snap.RecheckAfterChange, snap.RecheckStep, snap.RecheckMax),
				episodeCtx,
			)
			c.episodeStart = hwaddr.Clone(c.addr)
			c.rotations = 0
		}

		c.transition(episodeCtx, next)

		if next == Steady {
			episodeCtx = ctx
		}
	}
}

func (c *Controller) steady(ctx context.Context, snap Settings) (State, error) {
	if err := c.sleep(ctx, snap.TestInterval); err != nil {
		return Steady, err
	}

	reachable := c.probe(ctx, snap)
	if err := ctx.Err(); err != nil {
		return Steady, err
	}

	if reachable {
		return Steady, nil
	}

	return GraceWait, nil
}

func (c *Controller) graceWait(ctx context.Context, snap Settings) (State, error) {
	c.logger.Info().
		Ctx(ctx).
		Dur("delay", snap.RecheckBeforeChange).
		Msg("connectivity lost; waiting before recheck")

	if err := c.sleep(ctx, snap.RecheckBeforeChange); err != nil {
		return GraceWait, err
	}

	reachable := c.probe(ctx, snap)
	if err := ctx.Err(); err != nil {
		return GraceWait, err
	}

	if reachable {
		return Steady, nil
	}

	return Rotating, nil
}

// rotate performs one rotation step: change the address, wait, probe.
func (c *Controller) rotate(ctx context.Context, snap Settings, bo backoff.BackOff) (State, error) {
	if err := ctx.Err(); err != nil {
		return Rotating, err
	}

	logger := c.logger.With().Ctx(ctx).Logger()

	prev := hwaddr.Format(c.addr)
	hwaddr.DecrementLast(c.addr)
	c.rotations++
	target := hwaddr.Format(c.addr)

	if bytes.Equal(c.addr, c.episodeStart) {
		logger.Warn().
			Str("addr", target).
			Int("rotations", c.rotations).
			Msg("address space exhausted; cycled back to the starting address")
	}

	res, err := c.runner.Run(ctx, snap.Tool, ToolArgs(c.iface, c.addr))
	c.Recorder.ObserveRotation(res.ExitCode, err)

	switch {
	case errors.Is(err, command.ErrStart):
		logger.Warn().
			Str("from", prev).
			Str("to", target).
			Err(err).
			Msg("address change failed to start; continuing")
	case err != nil:
		// Cancelled while the tool was running; the tool itself completed.
		logger.Warn().
			Str("from", prev).
			Str("to", target).
			Int("exit_code", res.ExitCode).
			Msg("address changed during shutdown")
		return Rotating, err
	default:
		ev := logger.Info()
		if res.ExitCode != 0 {
			ev = logger.Warn()
		}
		ev.Str("from", prev).
			Str("to", target).
			Int("exit_code", res.ExitCode).
			Str("output", strings.TrimSpace(res.Output)).
			Msg("address changed")
	}

	delay := bo.NextBackOff()
	if delay == backoff.Stop {
		return Rotating, ctx.Err()
	}
	c.Recorder.ObserveBackOff(delay)

	if err := c.sleep(ctx, delay); err != nil {
		return Rotating, err
	}

	reachable := c.probe(ctx, snap)
	if err := ctx.Err(); err != nil {
		return Rotating, err
	}

	if !reachable {
		return Rotating, nil
	}

	logger.Info().
		Str("addr", target).
		Int("rotations", c.rotations).
		Msg("connectivity restored")

	return Steady, nil
}

func (c *Controller) probe(ctx context.Context, snap Settings) bool {
	reachable := c.prober.Probe(ctx, snap.targets())
	c.Recorder.ObserveProbe(c.state, reachable)

	return reachable
}

func (c *Controller) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(d):
		return nil
	}
}

func (c *Controller) transition(ctx context.Context, next State) {
	if next == c.state {
		return
	}

	from := c.state
	c.state = next

	c.logger.Debug().
		Ctx(ctx).
		Str("from", from.String()).
		Str("to", next.String()).
		Msg("state changed")

	c.Recorder.ObserveState(next)
	if c.OnTransition != nil {
		c.OnTransition(from, next)
	}
}

// snapshot reads fresh settings. The watched interface is fixed for the life of
// the controller; a changed name is reported once and ignored.
func (c *Controller) snapshot(ctx context.Context) Settings {
	s := c.settings()

	if s.Interface != "" && s.Interface != c.iface && s.Interface != c.ignoredIface {
		c.ignoredIface = s.Interface
		c.logger.Warn().
			Ctx(ctx).
			Str("configured", s.Interface).
			Msg("interface changes require a restart; keeping the current interface")
	}
	s.Interface = c.iface

	return s
}
