package server

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/common"
)

// loggingInterceptor logs every call with the actor that issued it.
func loggingInterceptor(base context.Context) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()
		resp, err := handler(ctx, req)

		callCtx := logger.WithFields(
			base,
			"method", info.FullMethod,
			"actor", common.IncomingActor(ctx),
			"code", status.Code(err).String(),
			"elapsed", time.Since(started),
		)

		if err != nil {
			logger.WarnKV(callCtx, "Call failed", "error", err)
		} else {
			logger.DebugKV(callCtx, "Call served")
		}

		return resp, err
	}
}
