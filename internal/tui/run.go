package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/schedule"
	"github.com/oshokin/alarm-clock/internal/service/shell"
)

// Run starts a local event loop and shell and blocks in the terminal UI
// until the operator quits or ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, opts Options, programOptions ...tea.ProgramOption) error {
	loop := schedule.NewLoop()

	loopCtx, stopLoop := context.WithCancel(context.WithoutCancel(ctx))
	defer stopLoop()

	loopDone := make(chan error, 1)

	go func() {
		loopDone <- loop.Run(loopCtx)
	}()

	err := runProgram(ctx, loopCtx, cfg, opts, loop, programOptions)

	stopLoop()

	return errors.Join(err, <-loopDone)
}

func runProgram(
	ctx, loopCtx context.Context,
	cfg *config.Config,
	opts Options,
	loop *schedule.Loop,
	programOptions []tea.ProgramOption,
) error {
	sh, err := shell.New(ctx, shell.OptionsFromConfig(ctx, cfg, loop))
	if err != nil {
		return fmt.Errorf("initialise shell: %w", err)
	}

	defer func() {
		if closeErr := sh.Close(loopCtx); closeErr != nil {
			logger.WarnKV(ctx, "Shell close failed", "error", closeErr)
		}
	}()

	if opts.DefaultTune == "" {
		opts.DefaultTune = cfg.DefaultTune
	}

	model := NewModel(ctx, sh, NewStyles(cfg.Theme), opts)
	defer model.Close(loopCtx)

	programOptions = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, programOptions...)
	program := tea.NewProgram(model, programOptions...)
	model.SetSender(program.Send)

	unsubscribe := sh.Subscribe(model.Observer())
	defer unsubscribe()

	if err = sh.Start(ctx); err != nil {
		return fmt.Errorf("start shell: %w", err)
	}

	logger.Info(ctx, "Terminal UI started")

	if _, err = program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}

		return fmt.Errorf("run terminal UI: %w", err)
	}

	return nil
}
