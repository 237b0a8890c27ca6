//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/clock"
	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Client wraps the ClockService stub with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the clock daemon.
	conn *grpc.ClientConn
	// api is the ClockService client stub.
	api *api.ClockServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// actor is attached to every call when set.
	actor *Actor
}

// TimeReading is the daemon's view of the clock.
type TimeReading struct {
	// Display is the formatted current time.
	Display string
	// Format is "12-Hour" or "24-Hour".
	Format string
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor sends the actor with every call.
func WithActor(actor *Actor) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errIDRequired is returned when an alarm ID is not provided but is required for the operation.
	errIDRequired = errors.New("alarm id must be provided")
)

// Dial establishes a gRPC connection to the clock daemon.
// Note: this uses insecure transport credentials; the daemon listens on
// loopback by default.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial clock daemon: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewClockServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// CurrentTime reads the formatted current time.
func (c *Client) CurrentTime(ctx context.Context) (TimeReading, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetTime(callCtx, new(emptypb.Empty))
	if err != nil {
		return TimeReading{}, fmt.Errorf("get time: %w", err)
	}

	return TimeReading{
		Display: resp.GetFields()[api.FieldDisplay].GetStringValue(),
		Format:  resp.GetFields()[api.FieldFormat].GetStringValue(),
	}, nil
}

// SetDisplayFormat switches the daemon's display format.
func (c *Client) SetDisplayFormat(ctx context.Context, choice string) (TimeReading, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.SetDisplayFormat(callCtx, wrapperspb.String(choice))
	if err != nil {
		return TimeReading{}, fmt.Errorf("set display format: %w", err)
	}

	return TimeReading{
		Display: resp.GetFields()[api.FieldDisplay].GetStringValue(),
		Format:  resp.GetFields()[api.FieldFormat].GetStringValue(),
	}, nil
}

// ListAlarms returns every alarm known to the daemon.
func (c *Client) ListAlarms(ctx context.Context) ([]*domain.Alarm, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ListAlarms(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}

	return api.AlarmsFromStruct(resp)
}

// AddAlarm creates an alarm from raw operator input.
func (c *Client) AddAlarm(ctx context.Context, req api.AlarmRequest) (*domain.Alarm, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.AddAlarm(callCtx, req.ToStruct())
	if err != nil {
		return nil, fmt.Errorf("add alarm: %w", err)
	}

	return api.AlarmFromStruct(resp)
}

// EditAlarm replaces the editable fields of the alarm req.ID.
func (c *Client) EditAlarm(ctx context.Context, req api.AlarmRequest) (*domain.Alarm, error) {
	if req.ID == "" {
		return nil, errIDRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.EditAlarm(callCtx, req.ToStruct())
	if err != nil {
		return nil, fmt.Errorf("edit alarm: %w", err)
	}

	return api.AlarmFromStruct(resp)
}

// DeleteAlarm removes an alarm.
func (c *Client) DeleteAlarm(ctx context.Context, id string) error {
	if id == "" {
		return errIDRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.api.DeleteAlarm(callCtx, wrapperspb.String(id)); err != nil {
		return fmt.Errorf("delete alarm: %w", err)
	}

	return nil
}

// StopAlarm stops a ringing alarm.
func (c *Client) StopAlarm(ctx context.Context, id string) error {
	if id == "" {
		return errIDRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.api.StopAlarm(callCtx, wrapperspb.String(id)); err != nil {
		return fmt.Errorf("stop alarm: %w", err)
	}

	return nil
}

// SnoozeAlarm snoozes a ringing alarm. granted is false when no snoozes were
// left and the daemon removed the alarm.
func (c *Client) SnoozeAlarm(ctx context.Context, id string) (*domain.Alarm, bool, error) {
	if id == "" {
		return nil, false, errIDRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.SnoozeAlarm(callCtx, wrapperspb.String(id))
	if err != nil {
		return nil, false, fmt.Errorf("snooze alarm: %w", err)
	}

	a, err := api.AlarmFromStruct(resp.GetFields()[api.FieldAlarm].GetStructValue())
	if err != nil {
		return nil, false, err
	}

	return a, resp.GetFields()[api.FieldGranted].GetBoolValue(), nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The actor, if
// any, is attached as metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = WithOutgoingActor(ctx, c.actor)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
