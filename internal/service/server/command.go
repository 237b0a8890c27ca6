package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/clock"
	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/schedule"
	"github.com/oshokin/alarm-clock/internal/service/shell"
	"github.com/oshokin/alarm-clock/internal/version"
)

// Options controls the daemon process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// AlarmsFile overrides the alarms file from settings.
	AlarmsFile string
	// Replace terminates a daemon that is already running instead of failing.
	Replace bool
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the clock loop and the gRPC server and blocks until ctx is
// canceled or the server stops.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-clock-daemon")
	logger.InfoKV(ctx, "Starting clock daemon", version.Fields()...)

	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if opts.AlarmsFile != "" {
		settings.AlarmsFile = opts.AlarmsFile
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	lock := newInstanceLock(settings.PIDFile)
	if err = lock.Acquire(ctx, opts.Replace); err != nil {
		return err
	}

	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil {
			logger.WarnKV(ctx, "Unable to release PID file", "error", releaseErr)
		}
	}()

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	return serve(ctx, lis, settings)
}

// serve runs the loop, the shell and the gRPC server on lis until ctx ends.
func serve(ctx context.Context, lis net.Listener, settings *config.Config) error {
	loop := schedule.NewLoop()

	// The loop outlives the gRPC server so in-flight calls can finish.
	loopCtx, stopLoop := context.WithCancel(context.WithoutCancel(ctx))
	defer stopLoop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return loop.Run(loopCtx)
	})

	sh, err := shell.New(ctx, shell.OptionsFromConfig(ctx, settings, loop))
	if err != nil {
		stopLoop()
		_ = lis.Close()

		return errors.Join(fmt.Errorf("initialise shell: %w", err), group.Wait())
	}

	if err = sh.Start(ctx); err != nil {
		stopLoop()
		_ = lis.Close()

		return errors.Join(fmt.Errorf("start shell: %w", err), group.Wait())
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(ctx)))
	api.RegisterClockServiceServer(grpcServer, api.NewServer(sh))

	logger.InfoKV(
		ctx,
		"Clock daemon listening",
		"listen_address", lis.Addr().String(),
		"alarms_file", settings.AlarmsFile,
		"display_format", settings.DisplayFormat,
	)

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()

		if closeErr := sh.Close(loopCtx); closeErr != nil {
			logger.WarnKV(ctx, "Shell close failed", "error", closeErr)
		}

		stopLoop()

		return nil
	})

	group.Go(func() error {
		if serveErr := grpcServer.Serve(lis); serveErr != nil && !errors.Is(serveErr, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", serveErr)
		}

		return nil
	})

	err = group.Wait()

	logger.Info(ctx, "Clock daemon stopped")

	return err
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise the configured address
// is used as is, so a loopback default stays on loopback.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	if _, _, err := net.SplitHostPort(configAddr); err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return configAddr, nil
}
