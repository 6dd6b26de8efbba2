package config

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"github.com/xvzc/macswitch/internal/ptr"
)

const configFilename = "macswitch.toml"

// RunFunc receives the resolved config file path ("" when none was loaded),
// the options given on the command line, and the effective configuration.
type RunFunc func(ctx context.Context, configPath string, overrides *Config, cfg *Config) error

func CreateCommand(
	runFunc RunFunc,
	version string,
	commit string,
	build string,
) *cli.Command {
	cli.RootCommandHelpTemplate = createHelpTemplate()

	cmd := &cli.Command{
		Name:        "macswitch",
		Description: "Rotate the hardware address of an interface when connectivity is lost",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name: "clean",
				Usage: `
				if set, all configuration files will be ignored`,
				OnlyOnce: true,
			},

			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage: `
				Custom location of the config file to load. Options given through the command
				line flags will override the options set in this file.`,
				OnlyOnce: true,
				Sources:  cli.EnvVars("MACSWITCH_CONFIG"),
			},

			&cli.StringFlag{
				Name: "ifconfig",
				Usage: `
				Path of the tool used to change the hardware address (default: "/sbin/ifconfig")`,
				OnlyOnce:  true,
				Validator: checkNonEmpty,
			},

			&cli.StringFlag{
				Name:    "interface",
				Aliases: []string{"i"},
				Usage: `
				Network interface to watch (default: "en0")`,
				OnlyOnce:  true,
				Validator: checkInterfaceName,
			},

			&cli.StringFlag{
				Name: "log-level",
				Usage: `
				Set log level (default: 'info')`,
				OnlyOnce:  true,
				Validator: checkLogLevel,
			},

			&cli.StringFlag{
				Name: "metrics-addr",
				Usage: `
				Serve prometheus metrics on this host:port. Disabled when empty (default: "")`,
				OnlyOnce:  true,
				Validator: checkMetricsAddr,
			},

			&cli.DurationFlag{
				Name: "probe-timeout",
				Usage: `
				Timeout of a single connectivity probe (default: 6s)`,
				OnlyOnce:  true,
				Validator: checkPositiveDuration,
			},

			&cli.DurationFlag{
				Name: "recheck-after-change",
				Usage: `
				Delay between the first address change and the following probe (default: 30s)`,
				OnlyOnce:  true,
				Validator: checkPositiveDuration,
			},

			&cli.DurationFlag{
				Name: "recheck-before-change",
				Usage: `
				Delay between a failed probe and the confirming probe (default: 30s)`,
				OnlyOnce:  true,
				Validator: checkPositiveDuration,
			},

			&cli.DurationFlag{
				Name: "recheck-max",
				Usage: `
				Upper bound of the delay after an address change (default: 1m)`,
				OnlyOnce:  true,
				Validator: checkPositiveDuration,
			},

			&cli.DurationFlag{
				Name: "recheck-step",
				Usage: `
				Amount the delay grows by after each consecutive address change (default: 10s)`,
				OnlyOnce:  true,
				Validator: checkNonNegativeDuration,
			},

			&cli.BoolFlag{
				Name: "silent",
				Usage: `
				Do not show the banner at start up (default: false)`,
				OnlyOnce: true,
			},

			&cli.StringSliceFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage: `
				URL probed for connectivity. Can be given multiple times.
				A built-in list of popular sites is used when none is configured.`,
				Validator: func(targets []string) error {
					for _, t := range targets {
						if err := checkTargetURL(t); err != nil {
							return err
						}
					}
					return nil
				},
			},

			&cli.DurationFlag{
				Name: "test-interval",
				Usage: `
				Period between probes while connectivity is healthy (default: 10m)`,
				OnlyOnce:  true,
				Validator: checkPositiveDuration,
			},

			&cli.BoolFlag{
				Name: "version",
				Usage: `
				Print version; this may contain some other relevant information`,
				Aliases:  []string{"v"},
				OnlyOnce: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("version") {
				_, _ = fmt.Fprintf(cmd.Root().Writer, "macswitch %s %s (%s)\n", version, commit, build)
				return nil
			}

			var configPath string
			if !cmd.Bool("clean") {
				lookupPaths := []string{
					path.Join(string(os.PathSeparator), "etc", configFilename),
					path.Join(os.Getenv("XDG_CONFIG_HOME"), "macswitch", configFilename),
					path.Join(os.Getenv("HOME"), ".config", "macswitch", configFilename),
				}

				p, err := searchTomlFile(cmd.String("config"), lookupPaths)
				if err != nil {
					return err
				}
				configPath = p
			}

			overrides, err := parseConfigFromArgs(cmd)
			if err != nil {
				return fmt.Errorf("error parsing config from args: %w", err)
			}

			cfg, err := load(configPath, overrides)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			return runFunc(ctx, configPath, overrides, cfg)
		},
	}

	cli.HelpFlag = &cli.BoolFlag{
		Name:    "help",
		Aliases: []string{"h"},
		Usage: `
        show help`,
	}

	return cmd
}

func createHelpTemplate() string {
	return fmt.Sprintf(`DESCRIPTION:
  %s
USAGE:
  %s {{if .Flags}}%s{{end}}
GLOBAL OPTIONS:
  {{range .VisibleFlags}}%s{{if .Aliases}}{{range .Aliases}}%s{{end}}{{end}} %s %s
	{{end}}
	`,
		"{{.Name}} - {{.Description}}",
		"{{.Name}}",
		"[global options]",
		"--{{.Name}}",
		", -{{.}}",
		"{{.TypeName}}",
		"{{.Usage}}",
	)
}

// parseConfigFromArgs collects only the options that were given explicitly,
// so they can be layered over the config file on every reload.
func parseConfigFromArgs(cmd *cli.Command) (*Config, error) {
	general := &GeneralOptions{}
	watchdog := &WatchdogOptions{}

	if cmd.IsSet("log-level") {
		level, err := zerolog.ParseLevel(strings.ToLower(cmd.String("log-level")))
		if err != nil {
			return nil, err
		}
		general.LogLevel = ptr.FromValue(level)
	}
	if cmd.IsSet("silent") {
		general.Silent = ptr.FromValue(cmd.Bool("silent"))
	}
	if cmd.IsSet("metrics-addr") {
		general.MetricsAddr = ptr.FromValue(cmd.String("metrics-addr"))
	}

	if cmd.IsSet("interface") {
		watchdog.Interface = ptr.FromValue(cmd.String("interface"))
	}
	if cmd.IsSet("ifconfig") {
		watchdog.Ifconfig = ptr.FromValue(cmd.String("ifconfig"))
	}
	if cmd.IsSet("test-interval") {
		watchdog.TestInterval = ptr.FromValue(cmd.Duration("test-interval"))
	}
	if cmd.IsSet("recheck-before-change") {
		watchdog.RecheckBeforeChange = ptr.FromValue(cmd.Duration("recheck-before-change"))
	}
	if cmd.IsSet("recheck-after-change") {
		watchdog.RecheckAfterChange = ptr.FromValue(cmd.Duration("recheck-after-change"))
	}
	if cmd.IsSet("recheck-step") {
		watchdog.RecheckStep = ptr.FromValue(cmd.Duration("recheck-step"))
	}
	if cmd.IsSet("recheck-max") {
		watchdog.RecheckMax = ptr.FromValue(cmd.Duration("recheck-max"))
	}
	if cmd.IsSet("probe-timeout") {
		watchdog.ProbeTimeout = ptr.FromValue(cmd.Duration("probe-timeout"))
	}
	if cmd.IsSet("target") {
		watchdog.Targets = cmd.StringSlice("target")
	}

	return &Config{General: general, Watchdog: watchdog}, nil
}
