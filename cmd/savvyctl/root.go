package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kbukum/savvy/config"
	"github.com/kbukum/savvy/logger"
	"github.com/kbukum/savvy/observability"
	"github.com/kbukum/savvy/termination"
	"github.com/kbukum/savvy/version"
)

const serviceName = "savvyctl"

// app holds the state shared by all subcommands once the config is loaded.
type app struct {
	cfg     *CLIConfig
	log     *logger.Logger
	out     io.Writer
	errOut  io.Writer
	closers []func(context.Context) error
}

type rootOptions struct {
	configFile string
	envFile    string
	logLevel   string
	logFormat  string
	noColor    bool
}

// exitError carries a process exit status out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	a := &app{out: out, errOut: errOut}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	a.close(context.WithoutCancel(ctx))
	return exitCode(err, errOut)
}

func exitCode(err error, errOut io.Writer) int {
	if err == nil {
		return 0
	}
	if sig, ok := termination.AsSignal(err); ok {
		return sig.Code
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   serviceName,
		Short: "REST requests and hardened command execution",
		Long: `savvyctl drives the savvy REST client and command runner from the shell.

Configuration is read from config.yml, an optional .env file and SAVVY_*
environment variables, in increasing order of precedence.`,
		Version:       version.Get().Short(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context(), opts)
		},
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)
	addRootFlags(cmd.PersistentFlags(), &opts)

	cmd.AddCommand(
		newRequestCmd(a),
		newExecCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return cmd
}

func addRootFlags(fs *pflag.FlagSet, o *rootOptions) {
	fs.StringVarP(&o.configFile, "config", "c", "", "config file (default: search cmd/savvyctl, config and the working directory)")
	fs.StringVar(&o.envFile, "env-file", "", ".env file to load before reading SAVVY_* variables")
	fs.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&o.logFormat, "log-format", "", "log format (console, json)")
	fs.BoolVar(&o.noColor, "no-color", false, "disable colored console logs")
}

func (a *app) setup(ctx context.Context, opts rootOptions) error {
	loaderOpts := []config.LoaderOption{
		config.WithLogger(logger.NewWithWriter(&logger.Config{Level: "warn", Format: logger.FormatConsole, NoColor: opts.noColor}, serviceName, a.errOut)),
	}
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.envFile))
	}

	var cfg CLIConfig
	if err := config.LoadConfig(serviceName, &cfg, loaderOpts...); err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}
	if opts.noColor {
		cfg.Logging.NoColor = true
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = &cfg
	a.log = cfg.NewLogger(a.errOut)
	a.log.WithFields(version.Get().Fields()).Debug("Configuration loaded",
		logger.Fields("environment", cfg.Environment, "tracing", cfg.Tracing.Enabled))

	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, cfg.tracerConfig(a.log))
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		a.closers = append(a.closers, tp.Shutdown)

		mp, err := observability.InitMeter(ctx, cfg.meterConfig(a.log))
		if err != nil {
			return fmt.Errorf("init meter: %w", err)
		}
		a.closers = append(a.closers, mp.Shutdown)
	}
	return nil
}

// close flushes telemetry providers in reverse order of creation.
func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && a.log != nil {
			a.log.Warn("shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}
	a.closers = nil
}
