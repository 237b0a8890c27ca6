package cmd

import (
	"context"

	"github.com/spf13/cobra"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/clock"
	"github.com/oshokin/alarm-clock/internal/service/client"
)

var (
	// alarmTune is the --tune flag of add and edit.
	alarmTune string
	// alarmSnoozeInterval is the --snooze flag of add and edit.
	alarmSnoozeInterval string
	// alarmMaxSnoozes is the --max-snoozes flag of add and edit.
	alarmMaxSnoozes string

	// alarmCmd groups the alarm management commands.
	alarmCmd = &cobra.Command{
		Use:   "alarm",
		Short: "Manage alarms on the running daemon.",
	}

	alarmListCmd = &cobra.Command{
		Use:   "list",
		Short: "List alarms with their state and remaining snoozes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Commands) error {
				return c.List(ctx)
			})
		},
	}

	alarmAddCmd = &cobra.Command{
		Use:   "add HH:MM[:SS]",
		Short: "Add an alarm.",
		Long: `Adds an alarm that rings every day at the given time.

Empty --snooze and --max-snoozes default to 1. An empty --tune uses
default_tune from the configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.AlarmRequest{
				Time:           args[0],
				Tune:           alarmTune,
				SnoozeInterval: alarmSnoozeInterval,
				MaxSnoozes:     alarmMaxSnoozes,
			}

			return withClient(cmd, func(ctx context.Context, c *client.Commands) error {
				return c.Add(ctx, req)
			})
		},
	}

	alarmEditCmd = &cobra.Command{
		Use:   "edit ID HH:MM[:SS]",
		Short: "Replace an alarm's time, tune and snooze settings.",
		Long: `Replaces every editable field of an alarm.

Editing silences a ringing alarm, cancels a pending snooze and resets the
snooze count.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.AlarmRequest{
				ID:             args[0],
				Time:           args[1],
				Tune:           alarmTune,
				SnoozeInterval: alarmSnoozeInterval,
				MaxSnoozes:     alarmMaxSnoozes,
			}

			return withClient(cmd, func(ctx context.Context, c *client.Commands) error {
				return c.Edit(ctx, req)
			})
		},
	}

	alarmDeleteCmd = &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an alarm in any state.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Commands) error {
				return c.Delete(ctx, args[0])
			})
		},
	}

	alarmStopCmd = &cobra.Command{
		Use:   "stop ID",
		Short: "Stop a ringing alarm.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Commands) error {
				return c.Stop(ctx, args[0])
			})
		},
	}

	alarmSnoozeCmd = &cobra.Command{
		Use:   "snooze ID",
		Short: "Snooze a ringing alarm.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Commands) error {
				return c.Snooze(ctx, args[0])
			})
		},
	}
)

// withClient connects to the daemon and runs fn.
func withClient(cmd *cobra.Command, fn func(context.Context, *client.Commands) error) error {
	ctx, stop := signalContext()
	defer stop()

	options := &client.Options{
		ConfigPath:    configPath,
		ServerAddress: serverAddress,
		Out:           cmd.OutOrStdout(),
	}

	return client.Run(ctx, options, fn)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	for _, c := range []*cobra.Command{alarmAddCmd, alarmEditCmd} {
		c.Flags().StringVarP(&alarmTune, "tune", "t", "", "sound file played while ringing")
		c.Flags().StringVar(&alarmSnoozeInterval, "snooze", "", "snooze length in minutes")
		c.Flags().StringVar(&alarmMaxSnoozes, "max-snoozes", "", "how many times the alarm may be snoozed")
	}

	alarmCmd.AddCommand(alarmListCmd, alarmAddCmd, alarmEditCmd, alarmDeleteCmd, alarmStopCmd, alarmSnoozeCmd)
	rootCmd.AddCommand(alarmCmd)
}
