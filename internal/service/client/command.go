package client

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/clock"
	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/common"
)

// Options configures how commands reach the daemon.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Out receives command output.
	Out io.Writer
}

// API is the subset of the daemon client the commands use.
type API interface {
	CurrentTime(ctx context.Context) (common.TimeReading, error)
	SetDisplayFormat(ctx context.Context, choice string) (common.TimeReading, error)
	ListAlarms(ctx context.Context) ([]*domain.Alarm, error)
	AddAlarm(ctx context.Context, req api.AlarmRequest) (*domain.Alarm, error)
	EditAlarm(ctx context.Context, req api.AlarmRequest) (*domain.Alarm, error)
	DeleteAlarm(ctx context.Context, id string) error
	StopAlarm(ctx context.Context, id string) error
	SnoozeAlarm(ctx context.Context, id string) (*domain.Alarm, bool, error)
}

// Commands prints the result of daemon calls.
type Commands struct {
	api API
	out io.Writer
}

// NewCommands binds commands to a client and an output.
func NewCommands(client API, out io.Writer) *Commands {
	return &Commands{api: client, out: out}
}

// Run connects to the daemon and invokes fn with bound commands.
func Run(ctx context.Context, opts *Options, fn func(context.Context, *Commands) error) error {
	ctx = logger.WithName(ctx, "alarm-clock-client")

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	dialOptions := []common.Option{common.WithCallTimeout(cfg.Timeout)}

	// Calls still work without an actor; the daemon logs it as unknown.
	actor, err := common.DetectActor()
	if err != nil {
		logger.WarnKV(ctx, "Unable to detect actor", "error", err)
	} else {
		dialOptions = append(dialOptions, common.WithActor(actor))
	}

	client, err := common.Dial(ctx, serverAddress, dialOptions...)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Connected to clock daemon", "server_address", serverAddress)

	return fn(ctx, NewCommands(client, opts.Out))
}

// Time prints the daemon's current time.
func (c *Commands) Time(ctx context.Context) error {
	reading, err := c.api.CurrentTime(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.out, "%s (%s)\n", reading.Display, reading.Format)

	return err
}

// SetFormat switches the display format and prints the new reading.
func (c *Commands) SetFormat(ctx context.Context, choice string) error {
	reading, err := c.api.SetDisplayFormat(ctx, choice)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.out, "Display format: %s, now %s\n", reading.Format, reading.Display)

	return err
}

// List prints every alarm as a table.
func (c *Commands) List(ctx context.Context) error {
	alarms, err := c.api.ListAlarms(ctx)
	if err != nil {
		return err
	}

	if len(alarms) == 0 {
		_, err = fmt.Fprintln(c.out, "No alarms")

		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTIME\tSTATE\tSNOOZE\tLEFT\tTUNE")

	for _, a := range alarms {
		_, _ = fmt.Fprintf(
			w,
			"%s\t%s\t%s\t%dm\t%d/%d\t%s\n",
			a.ID,
			a.ScheduledTime,
			a.State,
			a.SnoozeInterval,
			a.SnoozesRemaining(),
			a.MaxSnoozes,
			tuneLabel(a.Tune),
		)
	}

	return w.Flush()
}

// Add creates an alarm and prints it.
func (c *Commands) Add(ctx context.Context, req api.AlarmRequest) error {
	a, err := c.api.AddAlarm(ctx, req)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.out, "Alarm %s set for %s\n", a.ID, a.ScheduledTime)

	return err
}

// Edit replaces an alarm's fields and prints it.
func (c *Commands) Edit(ctx context.Context, req api.AlarmRequest) error {
	a, err := c.api.EditAlarm(ctx, req)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.out, "Alarm %s now set for %s\n", a.ID, a.ScheduledTime)

	return err
}

// Delete removes an alarm.
func (c *Commands) Delete(ctx context.Context, id string) error {
	if err := c.api.DeleteAlarm(ctx, id); err != nil {
		return err
	}

	_, err := fmt.Fprintf(c.out, "Alarm %s deleted\n", id)

	return err
}

// Stop stops a ringing alarm.
func (c *Commands) Stop(ctx context.Context, id string) error {
	if err := c.api.StopAlarm(ctx, id); err != nil {
		return err
	}

	_, err := fmt.Fprintf(c.out, "Alarm %s stopped\n", id)

	return err
}

// Snooze snoozes a ringing alarm and reports what is left.
func (c *Commands) Snooze(ctx context.Context, id string) error {
	a, granted, err := c.api.SnoozeAlarm(ctx, id)
	if err != nil {
		return err
	}

	if !granted {
		_, err = fmt.Fprintf(c.out, "No more snoozes remaining, alarm %s removed\n", id)

		return err
	}

	_, err = fmt.Fprintf(
		c.out,
		"Alarm %s snoozed until %s, %d snooze(s) remaining\n",
		a.ID,
		a.ScheduledTime,
		a.SnoozesRemaining(),
	)

	return err
}

func tuneLabel(tune string) string {
	if tune == "" {
		return "-"
	}

	return tune
}
