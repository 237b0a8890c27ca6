package clock

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "alarmclock.v1.ClockService"

// Method names of the clock service.
const (
	MethodGetTime          = "GetTime"
	MethodSetDisplayFormat = "SetDisplayFormat"
	MethodListAlarms       = "ListAlarms"
	MethodAddAlarm         = "AddAlarm"
	MethodEditAlarm        = "EditAlarm"
	MethodDeleteAlarm      = "DeleteAlarm"
	MethodStopAlarm        = "StopAlarm"
	MethodSnoozeAlarm      = "SnoozeAlarm"
)

// ClockServiceServer is the server API of the clock service.
type ClockServiceServer interface {
	GetTime(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	SetDisplayFormat(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	ListAlarms(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	AddAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	EditAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteAlarm(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error)
	StopAlarm(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error)
	SnoozeAlarm(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

// ServiceDesc describes the clock service for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Service descriptors are package-level by gRPC convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ClockServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: MethodGetTime,
			Handler:    unaryHandler(MethodGetTime, newEmpty, ClockServiceServer.GetTime),
		},
		{
			MethodName: MethodSetDisplayFormat,
			Handler:    unaryHandler(MethodSetDisplayFormat, newString, ClockServiceServer.SetDisplayFormat),
		},
		{
			MethodName: MethodListAlarms,
			Handler:    unaryHandler(MethodListAlarms, newEmpty, ClockServiceServer.ListAlarms),
		},
		{
			MethodName: MethodAddAlarm,
			Handler:    unaryHandler(MethodAddAlarm, newStruct, ClockServiceServer.AddAlarm),
		},
		{
			MethodName: MethodEditAlarm,
			Handler:    unaryHandler(MethodEditAlarm, newStruct, ClockServiceServer.EditAlarm),
		},
		{
			MethodName: MethodDeleteAlarm,
			Handler:    unaryHandler(MethodDeleteAlarm, newString, ClockServiceServer.DeleteAlarm),
		},
		{
			MethodName: MethodStopAlarm,
			Handler:    unaryHandler(MethodStopAlarm, newString, ClockServiceServer.StopAlarm),
		},
		{
			MethodName: MethodSnoozeAlarm,
			Handler:    unaryHandler(MethodSnoozeAlarm, newString, ClockServiceServer.SnoozeAlarm),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alarmclock/v1/clock.proto",
}

// RegisterClockServiceServer registers srv on s.
func RegisterClockServiceServer(s grpc.ServiceRegistrar, srv ClockServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func newEmpty() *emptypb.Empty { return new(emptypb.Empty) }

func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }

func newStruct() *structpb.Struct { return new(structpb.Struct) }

// FullMethod returns the /service/method path of a method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req, Resp proto.Message](
	method string,
	newRequest func() Req,
	call func(ClockServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newRequest()
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(ClockServiceServer)

		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(Req)

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}

// ClockServiceClient is the client stub of the clock service.
type ClockServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewClockServiceClient creates a client stub on cc.
func NewClockServiceClient(cc grpc.ClientConnInterface) *ClockServiceClient {
	return &ClockServiceClient{cc: cc}
}

// GetTime returns the formatted current time and format.
func (c *ClockServiceClient) GetTime(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodGetTime, in, new(structpb.Struct), opts...)
}

// SetDisplayFormat switches the clock format.
func (c *ClockServiceClient) SetDisplayFormat(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodSetDisplayFormat, in, new(structpb.Struct), opts...)
}

// ListAlarms returns every alarm.
func (c *ClockServiceClient) ListAlarms(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodListAlarms, in, new(structpb.Struct), opts...)
}

// AddAlarm creates an alarm.
func (c *ClockServiceClient) AddAlarm(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodAddAlarm, in, new(structpb.Struct), opts...)
}

// EditAlarm replaces the editable fields of an alarm.
func (c *ClockServiceClient) EditAlarm(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodEditAlarm, in, new(structpb.Struct), opts...)
}

// DeleteAlarm removes an alarm.
func (c *ClockServiceClient) DeleteAlarm(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, MethodDeleteAlarm, in, new(emptypb.Empty), opts...)
}

// StopAlarm stops a ringing alarm.
func (c *ClockServiceClient) StopAlarm(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, MethodStopAlarm, in, new(emptypb.Empty), opts...)
}

// SnoozeAlarm snoozes a ringing alarm.
func (c *ClockServiceClient) SnoozeAlarm(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodSnoozeAlarm, in, new(structpb.Struct), opts...)
}

func invoke[Resp proto.Message](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	in proto.Message,
	out Resp,
	opts ...grpc.CallOption,
) (Resp, error) {
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		var zero Resp

		return zero, err
	}

	return out, nil
}
