package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/tui"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// serverAddress overrides the daemon address for client commands.
	serverAddress string

	// rootCmd represents the base command, the interactive clock.
	rootCmd = &cobra.Command{
		Use:   "alarm-clock",
		Short: "Digital clock with alarms, a countdown timer and a stopwatch.",
		Long: `Runs the interactive terminal clock.

The clock shows the current time in 12-hour or 24-hour format and rings
alarms at their scheduled second. A ringing alarm can be stopped or snoozed
until its snooze limit is reached. The timer and stopwatch views are one key
away, or can be opened directly with the timer and stopwatch commands.

Use "alarm-clock serve" to run the clock headless and the alarm, format and
time commands to control it remotely.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(tui.Options{Mode: tui.ModeClock})
		},
	}
)

// Execute runs the alarm-clock CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverAddress, "server", "s", "", "daemon address, overrides server_addr from the configuration")
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// runTUI starts the terminal UI with logs redirected to the log file.
func runTUI(opts tui.Options) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	closer, err := redirectLogs(cfg)
	if err != nil {
		return err
	}

	defer func() {
		_ = closer.Close()
	}()

	return tui.Run(ctx, cfg, opts)
}

// redirectLogs sends logs to the configured file while the UI owns the terminal.
func redirectLogs(cfg *config.Config) (io.Closer, error) {
	level, _ := logger.ParseLogLevel(cfg.LogLevel)

	fileLogger, closer, err := logger.OpenFile(cfg.LogFile, level)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger.SetLogger(fileLogger)

	return closer, nil
}

// applyLogLevel sets the console log level from the configuration.
func applyLogLevel() error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(level)

	return nil
}
