package shell

import (
	"context"

	"github.com/oshokin/alarm-clock/internal/audio"
	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	repo "github.com/oshokin/alarm-clock/internal/repository/alarms"
	"github.com/oshokin/alarm-clock/internal/schedule"
)

// OptionsFromConfig builds shell options from settings.
// A missing audio player is logged and replaced with silence.
func OptionsFromConfig(ctx context.Context, cfg *config.Config, sched schedule.Scheduler) Options {
	opts := Options{
		Scheduler:     sched,
		TickInterval:  cfg.TickInterval,
		DisplayFormat: cfg.DisplayFormat,
		DefaultTune:   cfg.DefaultTune,
		TimerTune:     cfg.TimerTune,
	}

	player, err := audio.NewCommandPlayer(cfg.PlayerCommand)
	if err != nil {
		logger.WarnKV(ctx, "Audio disabled", "error", err)
	} else {
		opts.Player = player
	}

	if cfg.AlarmsFile != "" {
		opts.Repository = repo.NewFileRepository(cfg.AlarmsFile)
	}

	return opts
}
