package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/service/server"
)

var (
	// alarmsFile overrides alarms_file for the daemon.
	alarmsFile string
	// replaceDaemon terminates a running daemon first.
	replaceDaemon bool

	// serveCmd runs the clock headless behind the gRPC API.
	serveCmd = &cobra.Command{
		Use:   "serve [listen-address]",
		Short: "Run the clock as a headless daemon.",
		Long: `Runs the clock without a terminal UI and serves the ClockService gRPC API.

The daemon listens on server_addr from the configuration unless a listen
address is given (e.g., :9090, 0.0.0.0:50061). Alarms ring on the daemon's
audio player; use the alarm commands to add, stop or snooze them.
Only one daemon runs at a time; --replace terminates the previous one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			if err := applyLogLevel(); err != nil {
				return err
			}

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				AlarmsFile:    alarmsFile,
				Replace:       replaceDaemon,
			}

			return server.Run(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	serveCmd.Flags().StringVar(&alarmsFile, "alarms-file", "", "path to persist alarm definitions")
	serveCmd.Flags().BoolVar(&replaceDaemon, "replace", false, "terminate a daemon that is already running")

	rootCmd.AddCommand(serveCmd)
}
