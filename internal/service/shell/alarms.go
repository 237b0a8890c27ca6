package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/alarm-clock/internal/audio"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/schedule"
)

// ErrAlarmNotFound is returned for unknown alarm IDs.
var ErrAlarmNotFound = errors.New("alarm not found")

// entry pairs an alarm with the side effects the shell manages for it.
type entry struct {
	alarm *domain.Alarm
	// playback is the tune while ringing, nil otherwise.
	playback audio.Playback
	// snooze is the pending re-ring, nil unless snoozing.
	snooze schedule.Handle
}

func (e *entry) silence() {
	if e.playback != nil {
		e.playback.Stop()
		e.playback = nil
	}
}

func (e *entry) cancelSnooze() {
	if e.snooze != nil {
		e.snooze.Cancel()
		e.snooze = nil
	}
}

// SnoozeResult reports the outcome of a snooze request.
type SnoozeResult struct {
	// Alarm is a snapshot after the transition.
	Alarm *domain.Alarm
	// Granted is false when no snoozes were left and the alarm was removed.
	Granted bool
}

// Alarms returns snapshots of the collection in insertion order.
func (s *Shell) Alarms(ctx context.Context) ([]*domain.Alarm, error) {
	var result []*domain.Alarm

	err := s.sched.Do(ctx, func() {
		result = make([]*domain.Alarm, 0, len(s.alarms))
		for _, e := range s.alarms {
			result = append(result, e.alarm.Clone())
		}
	})

	return result, err
}

// Alarm returns a snapshot of one alarm.
func (s *Shell) Alarm(ctx context.Context, id string) (*domain.Alarm, error) {
	var result *domain.Alarm

	err := s.do(ctx, func() error {
		e, err := s.find(id)
		if err != nil {
			return err
		}

		result = e.alarm.Clone()

		return nil
	})

	return result, err
}

// AddAlarm appends a new idle alarm. An empty tune falls back to the default tune.
func (s *Shell) AddAlarm(ctx context.Context, spec domain.Spec) (*domain.Alarm, error) {
	var result *domain.Alarm

	err := s.do(ctx, func() error {
		if spec.Tune == "" {
			spec.Tune = s.defaultTune
		}

		a, err := domain.New(s.newID(), spec)
		if err != nil {
			return err
		}

		if err = s.persist(append(s.definitions(nil, nil), a)); err != nil {
			return err
		}

		s.alarms = append(s.alarms, &entry{alarm: a})
		result = a.Clone()

		logger.InfoKV(s.ctx, "Alarm added", "alarm_id", a.ID, "time", a.ScheduledTime.String())
		s.emit(Event{Kind: EventAlarmAdded, Alarm: a.Clone()})

		return nil
	})

	return result, err
}

// EditAlarm replaces the editable fields of an alarm. A ringing or
// snoozing alarm is silenced, its pending re-ring cancelled and it
// becomes idle with a fresh snooze budget.
func (s *Shell) EditAlarm(ctx context.Context, id string, spec domain.Spec) (*domain.Alarm, error) {
	var result *domain.Alarm

	err := s.do(ctx, func() error {
		e, err := s.find(id)
		if err != nil {
			return err
		}

		if spec.Tune == "" {
			spec.Tune = s.defaultTune
		}

		edited := e.alarm.Clone()
		if err = edited.Edit(spec); err != nil {
			return err
		}

		if err = s.persist(s.definitions(e, edited)); err != nil {
			return err
		}

		e.cancelSnooze()
		e.silence()
		e.alarm = edited
		result = edited.Clone()

		logger.InfoKV(s.ctx, "Alarm edited", "alarm_id", id, "time", edited.ScheduledTime.String())
		s.emit(Event{Kind: EventAlarmUpdated, Alarm: edited.Clone()})

		return nil
	})

	return result, err
}

// DeleteAlarm removes an alarm in any state. A pending snooze re-ring is
// cancelled first and will never fire.
func (s *Shell) DeleteAlarm(ctx context.Context, id string) error {
	return s.do(ctx, func() error {
		e, err := s.find(id)
		if err != nil {
			return err
		}

		if err = s.persist(s.definitions(e, nil)); err != nil {
			return err
		}

		e.alarm.Remove()
		s.drop(e)

		logger.InfoKV(s.ctx, "Alarm deleted", "alarm_id", id)

		return nil
	})
}

// StopAlarm stops a ringing alarm and removes it.
func (s *Shell) StopAlarm(ctx context.Context, id string) error {
	return s.do(ctx, func() error {
		e, err := s.find(id)
		if err != nil {
			return err
		}

		if err = e.alarm.Stop(); err != nil {
			return fmt.Errorf("stop alarm %s: %w", id, err)
		}

		s.drop(e)

		logger.InfoKV(s.ctx, "Alarm stopped", "alarm_id", id)
		s.persistQuietly()

		return nil
	})
}

// SnoozeAlarm snoozes a ringing alarm. With snoozes left the alarm is
// rescheduled and a deferred re-ring is armed; otherwise the operator gets
// a snoozes-exhausted notice and the alarm is removed.
func (s *Shell) SnoozeAlarm(ctx context.Context, id string) (SnoozeResult, error) {
	var result SnoozeResult

	err := s.do(ctx, func() error {
		e, err := s.find(id)
		if err != nil {
			return err
		}

		granted, err := e.alarm.Snooze()
		if err != nil {
			return fmt.Errorf("snooze alarm %s: %w", id, err)
		}

		e.silence()

		result = SnoozeResult{
			Alarm:   e.alarm.Clone(),
			Granted: granted,
		}

		if !granted {
			logger.InfoKV(s.ctx, "No more snoozes remaining", "alarm_id", id)
			s.emit(Event{Kind: EventSnoozesExhausted, Alarm: e.alarm.Clone()})
			s.drop(e)
			s.persistQuietly()

			return nil
		}

		interval := time.Duration(e.alarm.SnoozeInterval) * time.Minute
		e.snooze = s.sched.AfterFunc(interval, func() { s.wake(e) })

		logger.InfoKV(
			s.ctx,
			"Alarm snoozed",
			"alarm_id", id,
			"minutes", e.alarm.SnoozeInterval,
			"new_time", e.alarm.ScheduledTime.String(),
			"snoozes_remaining", e.alarm.SnoozesRemaining(),
		)
		s.emit(Event{Kind: EventAlarmSnoozed, Alarm: e.alarm.Clone()})

		return nil
	})

	return result, err
}

// ring starts an idle alarm that matched the tick.
func (s *Shell) ring(e *entry) {
	if err := e.alarm.Ring(); err != nil {
		logger.WarnKV(s.ctx, "Alarm cannot ring", "alarm_id", e.alarm.ID, "error", err)

		return
	}

	s.startTune(e)
}

// wake is the deferred snooze re-ring.
func (s *Shell) wake(e *entry) {
	e.snooze = nil

	// Stopped, deleted or edited alarms are no longer snoozing.
	if !e.alarm.Wake() {
		return
	}

	s.startTune(e)
}

func (s *Shell) startTune(e *entry) {
	e.silence()
	e.playback = s.play(e.alarm.Tune, true)

	logger.InfoKV(s.ctx, "Alarm ringing", "alarm_id", e.alarm.ID, "time", e.alarm.ScheduledTime.String())
	s.emit(Event{Kind: EventAlarmRinging, Alarm: e.alarm.Clone()})
}

// drop removes e from the collection and releases its side effects.
func (s *Shell) drop(e *entry) {
	e.cancelSnooze()
	e.silence()

	for i, candidate := range s.alarms {
		if candidate == e {
			s.alarms = append(s.alarms[:i], s.alarms[i+1:]...)

			break
		}
	}

	s.emit(Event{Kind: EventAlarmRemoved, Alarm: e.alarm.Clone()})
}

func (s *Shell) find(id string) (*entry, error) {
	for _, e := range s.alarms {
		if e.alarm.ID == id {
			return e, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrAlarmNotFound, id)
}

// definitions lists the collection for saving. The alarm of except is
// replaced by replacement, or left out when replacement is nil.
func (s *Shell) definitions(except *entry, replacement *domain.Alarm) []*domain.Alarm {
	result := make([]*domain.Alarm, 0, len(s.alarms)+1)

	for _, e := range s.alarms {
		switch {
		case e != except:
			result = append(result, e.alarm)
		case replacement != nil:
			result = append(result, replacement)
		}
	}

	return result
}

// persist saves alarm definitions before the collection changes, so a
// failed save leaves the collection as it was. It runs on the scheduler thread.
func (s *Shell) persist(alarms []*domain.Alarm) error {
	if s.repo == nil {
		return nil
	}

	if err := s.repo.Save(s.ctx, alarms); err != nil {
		logger.ErrorKV(s.ctx, "Failed to persist alarms", "error", err)

		return fmt.Errorf("persist alarms: %w", err)
	}

	return nil
}

// persistQuietly saves the current collection after transitions the
// operator cannot retry, such as stopping a ringing alarm.
func (s *Shell) persistQuietly() {
	//nolint:errcheck // persist already logged the failure.
	_ = s.persist(s.definitions(nil, nil))
}

// do runs fn on the scheduler thread and returns its error.
func (s *Shell) do(ctx context.Context, fn func() error) error {
	var err error

	if doErr := s.sched.Do(ctx, func() { err = fn() }); doErr != nil {
		return doErr
	}

	return err
}
