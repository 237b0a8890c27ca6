package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// TestFromContext_FallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestWithKV_AttachesFields verifies context loggers carry names and fields.
func TestWithKV_AttachesFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "shell")
	ctx = WithKV(ctx, "alarm_id", "a1")

	InfoKV(ctx, "Alarm ringing", "time", "07:30:00")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "shell", entries[0].LoggerName)
	require.Equal(t, "a1", entries[0].ContextMap()["alarm_id"])
	require.Equal(t, "07:30:00", entries[0].ContextMap()["time"])
}
