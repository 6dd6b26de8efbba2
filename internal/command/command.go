// Package command runs the external interface-configuration tool.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/rs/zerolog"
)

// ErrStart is returned when the process could not be created at all.
var ErrStart = errors.New("command could not be started")

type Result struct {
	ExitCode int
	// Output is stdout and stderr joined by a line break.
	Output string
}

type Runner struct {
	logger zerolog.Logger
}

func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run starts name with args split into words (no shell is involved) and waits
// for it to exit. A non-zero exit status is reported in Result, not as an error.
//
// A started process is never killed. If ctx is cancelled while waiting, Run
// still waits for the exit and returns the result together with ctx.Err().
func (r *Runner) Run(ctx context.Context, name string, args string) (Result, error) {
	logger := r.logger.With().Ctx(ctx).Logger()
	logger.Info().Str("cmd", name).Str("args", args).Msg("running command")

	argv, err := splitArgs(args)
	if err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("%w: %w", ErrStart, err)
	}

	stdout, stderr := bytes.Buffer{}, bytes.Buffer{}

	cmd := exec.Command(name, argv...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("%w: %w", ErrStart, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var waitErr, ctxErr error
	select {
	case waitErr = <-done:
	case <-ctx.Done():
		ctxErr = ctx.Err()
		logger.Info().Str("cmd", name).Msg("cancelled; waiting for command to exit")
		waitErr = <-done
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		logger.Warn().Err(waitErr).Msg("command wait failed")
	}

	res := Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Output:   stdout.String() + "\n" + stderr.String(),
	}

	ev := logger.Info()
	if res.ExitCode != 0 {
		ev = logger.Warn()
	}
	ev.Str("cmd", name).
		Int("exit_code", res.ExitCode).
		Str("output", strings.TrimSpace(res.Output)).
		Msg("command finished")

	return res, ctxErr
}

func splitArgs(args string) ([]string, error) {
	p := shellwords.NewParser()
	p.ParseEnv = false
	p.ParseBacktick = false

	argv, err := p.Parse(args)
	if err != nil {
		return nil, fmt.Errorf("parse arguments %q: %w", args, err)
	}

	return argv, nil
}
