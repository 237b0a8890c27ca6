package clock

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	clockdomain "github.com/oshokin/alarm-clock/internal/domain/clock"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/schedule"
	"github.com/oshokin/alarm-clock/internal/service/shell"
)

// Service abstracts the clock operations the transport layer depends on.
// *shell.Shell satisfies it.
type Service interface {
	CurrentTime(ctx context.Context) (string, error)
	DisplayFormat(ctx context.Context) (clockdomain.DisplayFormat, error)
	SetDisplayFormat(ctx context.Context, choice string) (clockdomain.DisplayFormat, error)
	Alarms(ctx context.Context) ([]*domain.Alarm, error)
	AddAlarm(ctx context.Context, spec domain.Spec) (*domain.Alarm, error)
	EditAlarm(ctx context.Context, id string, spec domain.Spec) (*domain.Alarm, error)
	DeleteAlarm(ctx context.Context, id string) error
	StopAlarm(ctx context.Context, id string) error
	SnoozeAlarm(ctx context.Context, id string) (shell.SnoozeResult, error)
}

// Server implements the ClockService gRPC API.
type Server struct {
	// service provides the clock and alarm operations.
	service Service
}

var _ ClockServiceServer = (*Server)(nil)

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// GetTime returns the formatted current time and the active format.
func (s *Server) GetTime(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	display, err := s.service.CurrentTime(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	format, err := s.service.DisplayFormat(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return timeStruct(display, format), nil
}

// SetDisplayFormat switches the format; anything but "12-Hour" selects 24-hour.
func (s *Server) SetDisplayFormat(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "format is required")
	}

	format, err := s.service.SetDisplayFormat(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	display, err := s.service.CurrentTime(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return timeStruct(display, format), nil
}

// ListAlarms returns every alarm in creation order.
func (s *Server) ListAlarms(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	alarms, err := s.service.Alarms(ctx)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return alarmsToStruct(alarms), nil
}

// AddAlarm validates the request and creates an alarm.
func (s *Server) AddAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	spec, err := specFromStruct(req)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	a, err := s.service.AddAlarm(ctx, spec)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return AlarmToStruct(a), nil
}

// EditAlarm validates the request and replaces the alarm's editable fields.
func (s *Server) EditAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id := req.GetFields()[FieldID].GetStringValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	spec, err := specFromStruct(req)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	a, err := s.service.EditAlarm(ctx, id, spec)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return AlarmToStruct(a), nil
}

// DeleteAlarm removes an alarm, silencing it first if needed.
func (s *Server) DeleteAlarm(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	if err := s.service.DeleteAlarm(ctx, req.GetValue()); err != nil {
		return nil, toStatus(ctx, err)
	}

	return new(emptypb.Empty), nil
}

// StopAlarm stops a ringing alarm.
func (s *Server) StopAlarm(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	if err := s.service.StopAlarm(ctx, req.GetValue()); err != nil {
		return nil, toStatus(ctx, err)
	}

	return new(emptypb.Empty), nil
}

// SnoozeAlarm snoozes a ringing alarm. The response reports whether the snooze
// was granted; when it was not, the alarm has been removed.
func (s *Server) SnoozeAlarm(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	result, err := s.service.SnoozeAlarm(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldAlarm:   structpb.NewStructValue(AlarmToStruct(result.Alarm)),
			FieldGranted: structpb.NewBoolValue(result.Granted),
		},
	}, nil
}

func timeStruct(display string, format clockdomain.DisplayFormat) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldDisplay: structpb.NewStringValue(display),
			FieldFormat:  structpb.NewStringValue(format.String()),
		},
	}
}

// toStatus maps domain and shell errors to gRPC status codes.
func toStatus(ctx context.Context, err error) error {
	switch {
	case domain.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, shell.ErrAlarmNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrNotRinging),
		errors.Is(err, domain.ErrNotIdle),
		errors.Is(err, domain.ErrRemoved):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, schedule.ErrStopped):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		logger.ErrorKV(ctx, "Clock service call failed", "error", err)

		return status.Error(codes.Internal, "clock service unavailable")
	}
}
