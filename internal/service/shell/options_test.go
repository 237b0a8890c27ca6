package shell

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/config"
	repo "github.com/oshokin/alarm-clock/internal/repository/alarms"
	"github.com/oshokin/alarm-clock/internal/schedule"
)

// TestOptionsFromConfig checks that settings reach the shell options.
func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	sched := schedule.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	cfg := config.Default()
	cfg.DisplayFormat = "12"
	cfg.DefaultTune = "default.wav"
	cfg.TimerTune = "timer.wav"
	cfg.PlayerCommand = "true"

	opts := OptionsFromConfig(context.Background(), cfg, sched)
	require.Same(t, sched, opts.Scheduler)
	require.Equal(t, "12", opts.DisplayFormat)
	require.Equal(t, "default.wav", opts.DefaultTune)
	require.Equal(t, "timer.wav", opts.TimerTune)
	require.Equal(t, config.DefaultTickInterval, opts.TickInterval)
	require.NotNil(t, opts.Player)
	require.Nil(t, opts.Repository)

	cfg.AlarmsFile = filepath.Join(t.TempDir(), "alarms.json")

	opts = OptionsFromConfig(context.Background(), cfg, sched)
	require.IsType(t, new(repo.FileRepository), opts.Repository)

	s, err := New(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, s)
}
