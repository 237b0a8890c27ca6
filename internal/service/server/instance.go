package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// ErrAlreadyRunning is returned when another daemon owns the PID file.
var ErrAlreadyRunning = errors.New("another alarm-clock daemon is already running")

// processLookup finds a process by PID; nil process means not found.
type processLookup func(pid int) (ps.Process, error)

// instanceLock is a PID file guarding against two daemons.
type instanceLock struct {
	// path is the PID file location.
	path string
	// lookup queries the process table.
	lookup processLookup
	// self is this process ID.
	self int
	// selfExecutable is the executable name of this process.
	selfExecutable string
}

func newInstanceLock(path string) *instanceLock {
	executable, err := os.Executable()
	if err != nil {
		executable = os.Args[0]
	}

	return &instanceLock{
		path:           path,
		lookup:         ps.FindProcess,
		self:           os.Getpid(),
		selfExecutable: filepath.Base(executable),
	}
}

// Acquire writes the current PID. If the file names a live process with our
// executable name, Acquire fails unless replace is set, in which case that
// process is killed first. Stale files are overwritten.
func (l *instanceLock) Acquire(ctx context.Context, replace bool) error {
	other, err := l.runningOwner()
	if err != nil {
		return err
	}

	if other != nil {
		if !replace {
			return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, other.Pid())
		}

		logger.InfoKV(ctx, "Terminating previous daemon", "pid", other.Pid())

		if err = terminate(other.Pid()); err != nil {
			return fmt.Errorf("terminate pid %d: %w", other.Pid(), err)
		}
	}

	pid := []byte(strconv.Itoa(l.self))
	if err = os.WriteFile(filepath.Clean(l.path), pid, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}

	return nil
}

// Release removes the PID file if it still names this process.
func (l *instanceLock) Release() error {
	pid, err := l.readPID()
	if err != nil || pid != l.self {
		return nil //nolint:nilerr // Nothing of ours to remove.
	}

	if err = os.Remove(filepath.Clean(l.path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove pid file: %w", err)
	}

	return nil
}

// runningOwner returns the live process named in the PID file, if any.
func (l *instanceLock) runningOwner() (ps.Process, error) {
	pid, err := l.readPID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil //nolint:nilnil // No PID file means no owner.
		}

		return nil, err
	}

	if pid == l.self || pid <= 0 {
		return nil, nil //nolint:nilnil // Our own or invalid PID.
	}

	process, err := l.lookup(pid)
	if err != nil {
		return nil, fmt.Errorf("find process %d: %w", pid, err)
	}

	if process == nil || !sameExecutable(process.Executable(), l.selfExecutable) {
		return nil, nil //nolint:nilnil // Stale PID file.
	}

	return process, nil
}

func (l *instanceLock) readPID() (int, error) {
	contents, err := os.ReadFile(filepath.Clean(l.path))
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err != nil {
		// Garbage in the file is treated like a stale entry.
		return 0, nil //nolint:nilerr // Overwritten by Acquire.
	}

	return pid, nil
}

// sameExecutable compares process names; ps truncates long names on some
// platforms, so a prefix match is accepted.
func sameExecutable(running, self string) bool {
	running = strings.TrimSuffix(running, ".exe")
	self = strings.TrimSuffix(self, ".exe")

	if running == "" || self == "" {
		return false
	}

	return strings.HasPrefix(self, running) || strings.HasPrefix(running, self)
}

func terminate(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}

	return process.Kill()
}
