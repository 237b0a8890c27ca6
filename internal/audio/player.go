package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/oshokin/alarm-clock/internal/logger"
)

var (
	// ErrNoTune is returned when the tune reference is empty.
	ErrNoTune = errors.New("no tune configured")
	// ErrNoPlayer is returned when no player command is available for this OS.
	ErrNoPlayer = errors.New("no audio player command available")
)

// loopRestartDelay separates two iterations of a looping tune.
const loopRestartDelay = 200 * time.Millisecond

// Playback is an active tune.
type Playback interface {
	// Stop ends playback. It is safe to call more than once.
	Stop()
}

// Player starts tunes.
type Player interface {
	// Play starts the tune at ref, restarting it until stopped when loop is set.
	Play(ctx context.Context, ref string, loop bool) (Playback, error)
}

// Nop is a Player that never makes a sound.
type Nop struct{}

// Play implements Player.
func (Nop) Play(context.Context, string, bool) (Playback, error) {
	return nopPlayback{}, nil
}

type nopPlayback struct{}

func (nopPlayback) Stop() {}

// CommandPlayer plays files with an external command.
type CommandPlayer struct {
	// command is the player binary followed by fixed arguments; the file is appended.
	command []string
}

// NewCommandPlayer creates a player from a command line such as "paplay" or
// "mpg123 -q". An empty command selects a per-OS default.
func NewCommandPlayer(command string) (*CommandPlayer, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = defaultCommand()
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%s: %w", runtime.GOOS, ErrNoPlayer)
	}

	return &CommandPlayer{command: fields}, nil
}

// defaultCommand returns the stock player for the current OS.
func defaultCommand() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"afplay"}
	case "linux":
		return []string{"paplay"}
	case "windows":
		return []string{
			"powershell.exe", "-NoProfile", "-Command",
			"(New-Object Media.SoundPlayer $args[0]).PlaySync()",
		}
	default:
		return nil
	}
}

// Play implements Player. The file is checked up front so a missing tune
// is reported synchronously. Failures of the player process itself are
// logged through the logger in ctx.
func (p *CommandPlayer) Play(ctx context.Context, ref string, loop bool) (Playback, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, ErrNoTune
	}

	path := filepath.Clean(ref)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("load tune: %w", err)
	}

	if _, err := exec.LookPath(p.command[0]); err != nil {
		return nil, fmt.Errorf("find player %q: %w", p.command[0], err)
	}

	ctx, cancel := context.WithCancel(ctx)
	playback := &commandPlayback{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go playback.run(ctx, p.command, path, loop)

	return playback, nil
}

// commandPlayback runs the player process, possibly in a loop.
type commandPlayback struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (c *commandPlayback) run(ctx context.Context, command []string, path string, loop bool) {
	defer close(c.done)

	args := append(append([]string{}, command[1:]...), path)

	for {
		//nolint:gosec // The command comes from the operator's settings file.
		cmd := exec.CommandContext(ctx, command[0], args...)

		err := cmd.Run()
		if ctx.Err() != nil {
			return
		}

		// A player that cannot play the file would otherwise restart forever.
		if err != nil {
			logger.WarnKV(ctx, "Tune playback failed", "tune", path, "player", command[0], "error", err)

			return
		}

		if !loop {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(loopRestartDelay):
		}
	}
}

// Stop implements Playback and waits for the player process to exit.
func (c *commandPlayback) Stop() {
	c.once.Do(c.cancel)
	<-c.done
}
