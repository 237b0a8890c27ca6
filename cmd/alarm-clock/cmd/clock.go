package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/domain/clock"
	"github.com/oshokin/alarm-clock/internal/service/client"
	"github.com/oshokin/alarm-clock/internal/tui"
)

var (
	// timeCmd prints the daemon's clock.
	timeCmd = &cobra.Command{
		Use:   "time",
		Short: "Print the daemon's current time.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Commands) error {
				return c.Time(ctx)
			})
		},
	}

	// formatCmd switches the daemon's display format.
	formatCmd = &cobra.Command{
		Use:   "format 12|24",
		Short: "Switch the daemon between 12-hour and 24-hour display.",
		Long: `Switches the display format of the running daemon.

Accepts 12, 24, 12-Hour or 24-Hour. Anything else selects 24-hour.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			choice := formatChoice(args[0])

			return withClient(cmd, func(ctx context.Context, c *client.Commands) error {
				return c.SetFormat(ctx, choice)
			})
		},
	}

	// timerCmd opens the countdown view.
	timerCmd = &cobra.Command{
		Use:   "timer [MM:SS]",
		Short: "Open the countdown timer, optionally starting it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opts := tui.Options{Mode: tui.ModeTimer}
			if len(args) > 0 {
				opts.TimerPreset = args[0]
			}

			return runTUI(opts)
		},
	}

	// stopwatchCmd opens the stopwatch view.
	stopwatchCmd = &cobra.Command{
		Use:   "stopwatch",
		Short: "Open the stopwatch.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(tui.Options{Mode: tui.ModeStopwatch})
		},
	}
)

// formatChoice maps the short forms to the format names.
func formatChoice(arg string) string {
	switch arg {
	case "12":
		return clock.Choice12Hour
	case "24":
		return clock.Choice24Hour
	default:
		return arg
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(timeCmd, formatCmd, timerCmd, stopwatchCmd)
}
