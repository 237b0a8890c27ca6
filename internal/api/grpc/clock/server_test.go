package clock

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	clockdomain "github.com/oshokin/alarm-clock/internal/domain/clock"
	"github.com/oshokin/alarm-clock/internal/schedule"
	"github.com/oshokin/alarm-clock/internal/service/shell"
)

var errTestBackend = errors.New("test backend error")

// fakeService implements Service for unit testing the transport.
type fakeService struct {
	// err is returned from every alarm operation when set.
	err error
	// format is the active display format.
	format clockdomain.DisplayFormat
	// alarms holds the alarms returned by Alarms.
	alarms []*domain.Alarm
	// lastSpec records the spec passed to AddAlarm or EditAlarm.
	lastSpec domain.Spec
	// lastID records the ID passed to the last call taking one.
	lastID string
	// granted is reported by SnoozeAlarm.
	granted bool
}

func (f *fakeService) CurrentTime(context.Context) (string, error) {
	if f.format == clockdomain.Format12Hour {
		return "07:00:00 AM", nil
	}

	return "07:00:00", nil
}

func (f *fakeService) DisplayFormat(context.Context) (clockdomain.DisplayFormat, error) {
	return f.format, nil
}

func (f *fakeService) SetDisplayFormat(_ context.Context, choice string) (clockdomain.DisplayFormat, error) {
	f.format = clockdomain.ParseDisplayFormat(choice)

	return f.format, nil
}

func (f *fakeService) Alarms(context.Context) ([]*domain.Alarm, error) {
	return f.alarms, f.err
}

func (f *fakeService) AddAlarm(_ context.Context, spec domain.Spec) (*domain.Alarm, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.lastSpec = spec

	return domain.New(fmt.Sprintf("alarm-%d", len(f.alarms)+1), spec)
}

func (f *fakeService) EditAlarm(_ context.Context, id string, spec domain.Spec) (*domain.Alarm, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.lastID = id
	f.lastSpec = spec

	return domain.New(id, spec)
}

func (f *fakeService) DeleteAlarm(_ context.Context, id string) error {
	f.lastID = id

	return f.err
}

func (f *fakeService) StopAlarm(_ context.Context, id string) error {
	f.lastID = id

	return f.err
}

func (f *fakeService) SnoozeAlarm(_ context.Context, id string) (shell.SnoozeResult, error) {
	if f.err != nil {
		return shell.SnoozeResult{}, f.err
	}

	f.lastID = id

	a, err := domain.New(id, domain.Spec{Time: domain.MustParseTimeOfDay("07:00"), SnoozeInterval: 1, MaxSnoozes: 1})
	if err != nil {
		return shell.SnoozeResult{}, err
	}

	return shell.SnoozeResult{Alarm: a, Granted: f.granted}, nil
}

// TestServer_GetTimeAndFormat ensures the display follows the selected format.
func TestServer_GetTimeAndFormat(t *testing.T) {
	t.Parallel()

	s := NewServer(new(fakeService))

	resp, err := s.GetTime(context.Background(), new(emptypb.Empty))
	require.NoError(t, err)
	require.Equal(t, "07:00:00", resp.GetFields()[FieldDisplay].GetStringValue())
	require.Equal(t, "24-Hour", resp.GetFields()[FieldFormat].GetStringValue())

	resp, err = s.SetDisplayFormat(context.Background(), wrapperspb.String("12-Hour"))
	require.NoError(t, err)
	require.Equal(t, "07:00:00 AM", resp.GetFields()[FieldDisplay].GetStringValue())
	require.Equal(t, "12-Hour", resp.GetFields()[FieldFormat].GetStringValue())

	_, err = s.SetDisplayFormat(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

// TestServer_AddAlarm_Validation ensures malformed operator input maps to InvalidArgument.
func TestServer_AddAlarm_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		request AlarmRequest
	}{
		{name: "bad time", request: AlarmRequest{Time: "25:00"}},
		{name: "missing time", request: AlarmRequest{}},
		{name: "non numeric interval", request: AlarmRequest{Time: "07:00", SnoozeInterval: "soon"}},
		{name: "negative max snoozes", request: AlarmRequest{Time: "07:00", MaxSnoozes: "-1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := NewServer(new(fakeService))

			_, err := s.AddAlarm(context.Background(), tc.request.ToStruct())
			require.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}

	_, err := NewServer(new(fakeService)).AddAlarm(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

// TestServer_AddAlarm_NumericFields ensures numbers are accepted as well as strings.
func TestServer_AddAlarm_NumericFields(t *testing.T) {
	t.Parallel()

	svc := new(fakeService)
	s := NewServer(svc)

	req := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldTime:           structpb.NewStringValue("06:30"),
			FieldTune:           structpb.NewStringValue("bells.wav"),
			FieldSnoozeInterval: structpb.NewNumberValue(5),
			FieldMaxSnoozes:     structpb.NewNumberValue(3),
		},
	}

	resp, err := s.AddAlarm(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 5, svc.lastSpec.SnoozeInterval)
	require.Equal(t, 3, svc.lastSpec.MaxSnoozes)

	a, err := AlarmFromStruct(resp)
	require.NoError(t, err)
	require.Equal(t, "alarm-1", a.ID)
	require.Equal(t, "06:30:00", a.ScheduledTime.String())
	require.Equal(t, "bells.wav", a.Tune)
	require.Equal(t, domain.StateIdle, a.State)
}

// TestServer_EditAlarm_RequiresID ensures edits without a target are rejected.
func TestServer_EditAlarm_RequiresID(t *testing.T) {
	t.Parallel()

	svc := new(fakeService)
	s := NewServer(svc)

	_, err := s.EditAlarm(context.Background(), AlarmRequest{Time: "07:00"}.ToStruct())
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.EditAlarm(context.Background(), AlarmRequest{ID: "a1", Time: "08:15"}.ToStruct())
	require.NoError(t, err)
	require.Equal(t, "a1", svc.lastID)
	require.Equal(t, "08:15:00", svc.lastSpec.Time.String())
}

// TestServer_ErrorMapping ensures backend errors map to the right status codes.
func TestServer_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{name: "not found", err: fmt.Errorf("stop: %w", shell.ErrAlarmNotFound), code: codes.NotFound},
		{name: "not ringing", err: domain.ErrNotRinging, code: codes.FailedPrecondition},
		{name: "not idle", err: domain.ErrNotIdle, code: codes.FailedPrecondition},
		{name: "removed", err: domain.ErrRemoved, code: codes.FailedPrecondition},
		{name: "stopped", err: schedule.ErrStopped, code: codes.Unavailable},
		{name: "canceled", err: context.Canceled, code: codes.Canceled},
		{name: "unknown", err: errTestBackend, code: codes.Internal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := NewServer(&fakeService{err: tc.err})

			_, err := s.StopAlarm(context.Background(), wrapperspb.String("a1"))
			require.Equal(t, tc.code, status.Code(err))

			_, err = s.SnoozeAlarm(context.Background(), wrapperspb.String("a1"))
			require.Equal(t, tc.code, status.Code(err))

			_, err = s.DeleteAlarm(context.Background(), wrapperspb.String("a1"))
			require.Equal(t, tc.code, status.Code(err))

			_, err = s.ListAlarms(context.Background(), new(emptypb.Empty))
			require.Equal(t, tc.code, status.Code(err))
		})
	}
}

// TestServer_IDRequired ensures empty identifiers are rejected before reaching the service.
func TestServer_IDRequired(t *testing.T) {
	t.Parallel()

	svc := new(fakeService)
	s := NewServer(svc)

	_, err := s.StopAlarm(context.Background(), wrapperspb.String(""))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.SnoozeAlarm(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.DeleteAlarm(context.Background(), new(wrapperspb.StringValue))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	require.Empty(t, svc.lastID)
}

// TestServer_SnoozeAlarm reports whether the snooze was granted.
func TestServer_SnoozeAlarm(t *testing.T) {
	t.Parallel()

	s := NewServer(&fakeService{granted: true})

	resp, err := s.SnoozeAlarm(context.Background(), wrapperspb.String("a1"))
	require.NoError(t, err)
	require.True(t, resp.GetFields()[FieldGranted].GetBoolValue())

	a, err := AlarmFromStruct(resp.GetFields()[FieldAlarm].GetStructValue())
	require.NoError(t, err)
	require.Equal(t, "a1", a.ID)
}
