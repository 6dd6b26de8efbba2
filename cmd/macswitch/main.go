package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/rs/zerolog"
	"github.com/xvzc/macswitch/internal/command"
	"github.com/xvzc/macswitch/internal/config"
	"github.com/xvzc/macswitch/internal/hwaddr"
	"github.com/xvzc/macswitch/internal/logging"
	"github.com/xvzc/macswitch/internal/metrics"
	"github.com/xvzc/macswitch/internal/probe"
	"github.com/xvzc/macswitch/internal/system"
	"github.com/xvzc/macswitch/internal/watchdog"
	"github.com/xvzc/macswitch/version"
	"golang.org/x/sync/errgroup"
)

func main() {
	cmd := config.CreateCommand(runApp, version.Version, version.Commit, version.Build)
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger := logging.WithScope(logging.NewLogger(os.Stderr, zerolog.InfoLevel), "MAIN")
		logging.ErrorUnwrapped(&logger, "failed to start", err)
		os.Exit(1)
	}
}

func runApp(
	ctx context.Context,
	configPath string,
	overrides *config.Config,
	cfg *config.Config,
) error {
	if !*cfg.General.Silent {
		printBanner(configPath, cfg)
	}

	baseLogger := logging.SetGlobalLogger(*cfg.General.LogLevel)
	logger := logging.WithScope(baseLogger, "MAIN")

	if configPath != "" {
		logger.Info().Str("path", configPath).Msg("config file loaded")
	}

	store := config.NewStore(configPath, overrides, cfg, logging.WithScope(baseLogger, "CONFIG"))

	iface, err := system.FindInterface(*cfg.Watchdog.Interface)
	if err != nil {
		return err
	}
	logger.Info().
		Str("name", iface.Name).
		Int("index", iface.Index).
		Str("addr", hwaddr.Format(iface.HardwareAddr)).
		Msg("interface found")

	if ip, err := iface.IPv4(); err != nil {
		logger.Warn().Str("name", iface.Name).Err(err).Msg("interface has no IPv4 address yet")
	} else {
		logger.Info().Str("name", iface.Name).Str("ipv4", ip.String()).Msg("interface address")
	}

	if gw, err := system.FindGatewayIPAddr(); err != nil {
		logger.Warn().Err(err).Msg("failed to discover default gateway")
	} else {
		logger.Info().Str("gateway", gw.String()).Msg("default gateway")
	}

	runner := command.NewRunner(logging.WithScope(baseLogger, "COMMAND"))
	checkTool(ctx, runner, *cfg.Watchdog.Ifconfig, iface.Name, logger)

	reg := prometheus.NewRegistry()

	ctl, err := watchdog.NewController(
		iface.Name,
		iface.HardwareAddr,
		func() watchdog.Settings { return settingsFromConfig(store.Snapshot()) },
		probe.NewProber(*cfg.Watchdog.ProbeTimeout, logging.WithScope(baseLogger, "PROBE")),
		runner,
		clock.New(),
		logging.WithScope(baseLogger, "WATCHDOG"),
	)
	if err != nil {
		return err
	}
	ctl.Recorder = metrics.NewRecorder(reg)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go watchReload(ctx, store, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ctl.Run(gctx)
	})

	if addr := *cfg.General.MetricsAddr; addr != "" {
		g.Go(func() error {
			return metrics.Serve(gctx, addr, reg, logging.WithScope(baseLogger, "METRICS"))
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		logger.Info().Str("addr", hwaddr.Format(ctl.Addr())).Msg("shutting down")
		return nil
	}

	return err
}

// settingsFromConfig converts a validated configuration into the snapshot the
// controller works from.
func settingsFromConfig(cfg *config.Config) watchdog.Settings {
	w := cfg.Watchdog

	return watchdog.Settings{
		Interface:           *w.Interface,
		Tool:                *w.Ifconfig,
		TestInterval:        *w.TestInterval,
		RecheckBeforeChange: *w.RecheckBeforeChange,
		RecheckAfterChange:  *w.RecheckAfterChange,
		RecheckStep:         *w.RecheckStep,
		RecheckMax:          *w.RecheckMax,
		Targets:             w.Targets,
	}
}

// checkTool runs "<tool> <iface> ether" once so the log shows whether the
// tool is usable before the first outage.
func checkTool(
	ctx context.Context,
	runner watchdog.Runner,
	tool string,
	iface string,
	logger zerolog.Logger,
) {
	res, err := runner.Run(ctx, tool, watchdog.ToolArgs(iface, nil))
	if err != nil {
		logger.Warn().Str("tool", tool).Err(err).Msg("interface tool is not usable")
		return
	}

	ev := logger.Info()
	if res.ExitCode != 0 {
		ev = logger.Warn()
	}
	ev.Str("tool", tool).
		Int("exit_code", res.ExitCode).
		Str("output", strings.TrimSpace(res.Output)).
		Msg("interface tool checked")
}

func watchReload(ctx context.Context, store *config.Store, logger zerolog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Info().Msg("reload requested; applies at the next steady check")
			store.ForceReload()
		}
	}
}

func printBanner(configPath string, cfg *config.Config) {
	cyan := putils.LettersFromStringWithStyle("Mac", pterm.NewStyle(pterm.FgCyan))
	purple := putils.LettersFromStringWithStyle("Switch", pterm.NewStyle(pterm.FgLightMagenta))
	_ = pterm.DefaultBigText.WithLetters(cyan, purple).Render()

	w := cfg.Watchdog
	targets := fmt.Sprintf("%d", len(w.Targets))
	if len(w.Targets) == 0 {
		targets = fmt.Sprintf("%d (built-in)", len(watchdog.DefaultTargets))
	}

	if configPath == "" {
		configPath = "-"
	}

	_ = pterm.DefaultBulletList.WithItems([]pterm.BulletListItem{
		{Level: 0, Text: "INTERFACE     : " + *w.Interface},
		{Level: 0, Text: "TEST_INTERVAL : " + w.TestInterval.String()},
		{Level: 0, Text: "RECHECK       : " + fmt.Sprintf(
			"%s / %s +%s <=%s",
			*w.RecheckBeforeChange, *w.RecheckAfterChange, *w.RecheckStep, *w.RecheckMax,
		)},
		{Level: 0, Text: "TARGETS       : " + targets},
		{Level: 0, Text: "CONFIG        : " + configPath},
	}).Render()

	pterm.DefaultBasicText.Println("Press 'CTRL + c' to quit")
}
