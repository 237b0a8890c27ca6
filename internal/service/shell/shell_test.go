package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/audio"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	repo "github.com/oshokin/alarm-clock/internal/repository/alarms"
	"github.com/oshokin/alarm-clock/internal/schedule"
)

var (
	errTestPlay = errors.New("test play error")
	errTestLoad = errors.New("test load error")
	errTestSave = errors.New("test save error")
)

// fakePlayer records playbacks for assertions.
type fakePlayer struct {
	mu sync.Mutex
	// err is returned from Play when set.
	err error
	// started lists every tune that was started.
	started []string
	// active counts playbacks not yet stopped.
	active int
}

func (p *fakePlayer) Play(_ context.Context, ref string, _ bool) (audio.Playback, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return nil, p.err
	}

	p.started = append(p.started, ref)
	p.active++

	return &fakePlayback{player: p}, nil
}

func (p *fakePlayer) activeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.active
}

type fakePlayback struct {
	player  *fakePlayer
	stopped bool
}

func (f *fakePlayback) Stop() {
	f.player.mu.Lock()
	defer f.player.mu.Unlock()

	if !f.stopped {
		f.stopped = true
		f.player.active--
	}
}

// memoryRepository is a minimal in-memory Repository implementation for tests.
type memoryRepository struct {
	// alarms is returned from Load.
	alarms []*domain.Alarm
	// loadErr is returned from Load.
	loadErr error
	// saveErr is returned from Save.
	saveErr error
	// saved stores the IDs passed to the last Save.
	saved []string
	// saves counts Save calls.
	saves int
}

func (m *memoryRepository) Load(context.Context) ([]*domain.Alarm, error) {
	return m.alarms, m.loadErr
}

func (m *memoryRepository) Save(_ context.Context, alarms []*domain.Alarm) error {
	m.saves++
	m.saved = m.saved[:0]

	for _, a := range alarms {
		m.saved = append(m.saved, a.ID)
	}

	return m.saveErr
}

// recorder collects events.
type recorder struct {
	events []Event
}

func (r *recorder) Notify(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []EventKind {
	kinds := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}

	return kinds
}

func (r *recorder) count(kind EventKind) int {
	n := 0

	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}

	return n
}

func (r *recorder) reset() {
	r.events = nil
}

type fixture struct {
	shell    *Shell
	sched    *schedule.Manual
	player   *fakePlayer
	events   *recorder
	sequence int
}

// newFixture starts a shell at the given local time of day with a manual scheduler.
func newFixture(t *testing.T, at string, opts Options) *fixture {
	t.Helper()

	tod := domain.MustParseTimeOfDay(at)
	start := time.Date(2026, time.October, 19, tod.Hour, tod.Minute, tod.Second, 0, time.Local)

	f := &fixture{
		sched:  schedule.NewManual(start),
		player: new(fakePlayer),
		events: new(recorder),
	}

	opts.Scheduler = f.sched
	opts.Player = f.player
	opts.NewID = func() string {
		f.sequence++

		return fmt.Sprintf("alarm-%d", f.sequence)
	}

	s, err := New(context.Background(), opts)
	require.NoError(t, err)

	s.Subscribe(f.events)
	require.NoError(t, s.Start(context.Background()))

	f.shell = s

	return f
}

func (f *fixture) add(t *testing.T, at string, interval, maxSnoozes int) *domain.Alarm {
	t.Helper()

	a, err := f.shell.AddAlarm(context.Background(), domain.Spec{
		Time:           domain.MustParseTimeOfDay(at),
		Tune:           "bell.wav",
		SnoozeInterval: interval,
		MaxSnoozes:     maxSnoozes,
	})
	require.NoError(t, err)

	return a
}

func (f *fixture) state(t *testing.T, id string) *domain.Alarm {
	t.Helper()

	a, err := f.shell.Alarm(context.Background(), id)
	require.NoError(t, err)

	return a
}

// TestShell_RequiresScheduler rejects a missing scheduler.
func TestShell_RequiresScheduler(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Options{})
	require.ErrorIs(t, err, ErrNoScheduler)
}

// TestShell_TickDisplaysBeforeMatching verifies the tick order and exact-second matching.
func TestShell_TickDisplaysBeforeMatching(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "07:29:58", Options{})
	a := f.add(t, "07:30:00", 5, 1)
	f.events.reset()

	f.sched.Advance(time.Second)
	require.Equal(t, domain.StateIdle, f.state(t, a.ID).State)

	f.sched.Advance(time.Second)
	require.Equal(t, []EventKind{EventTick, EventTick, EventAlarmRinging}, f.events.kinds())
	require.Equal(t, "07:30:00", f.events.events[1].Display)
	require.Equal(t, domain.StateRinging, f.state(t, a.ID).State)
	require.Equal(t, []string{"bell.wav"}, f.player.started)
	require.Equal(t, 1, f.player.activeCount())

	// The alarm does not ring again while it is already ringing.
	f.sched.Advance(time.Minute)
	require.Equal(t, 1, f.events.count(EventAlarmRinging))
}

// TestShell_StopRemovesAlarm stops the tune and drops the alarm.
func TestShell_StopRemovesAlarm(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "06:59:59", Options{})
	a := f.add(t, "07:00:00", 5, 1)

	require.ErrorIs(t, f.shell.StopAlarm(context.Background(), a.ID), domain.ErrNotRinging)

	f.sched.Advance(time.Second)
	require.NoError(t, f.shell.StopAlarm(context.Background(), a.ID))
	require.Zero(t, f.player.activeCount())

	alarms, err := f.shell.Alarms(context.Background())
	require.NoError(t, err)
	require.Empty(t, alarms)
	require.Equal(t, 1, f.events.count(EventAlarmRemoved))

	require.ErrorIs(t, f.shell.StopAlarm(context.Background(), a.ID), ErrAlarmNotFound)
}

// TestShell_SnoozeRescheduleAndReRing walks snooze, deferred re-ring and exhaustion.
func TestShell_SnoozeRescheduleAndReRing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "23:49:59", Options{})
	a := f.add(t, "23:50:00", 15, 1)

	f.sched.Advance(time.Second)
	require.Equal(t, domain.StateRinging, f.state(t, a.ID).State)

	result, err := f.shell.SnoozeAlarm(context.Background(), a.ID)
	require.NoError(t, err)
	require.True(t, result.Granted)
	require.Equal(t, "00:05:00", result.Alarm.ScheduledTime.String())
	require.True(t, result.Alarm.IsSnoozing)
	require.Equal(t, 1, result.Alarm.SnoozeCount)
	require.Zero(t, f.player.activeCount())

	// Nothing happens before the snooze interval elapses.
	f.sched.Advance(15*time.Minute - time.Second)
	require.Equal(t, domain.StateSnoozing, f.state(t, a.ID).State)

	f.sched.Advance(time.Second)

	woken := f.state(t, a.ID)
	require.Equal(t, domain.StateRinging, woken.State)
	require.False(t, woken.IsSnoozing)
	require.Equal(t, 2, f.events.count(EventAlarmRinging))
	require.Equal(t, 1, f.player.activeCount())

	// No snoozes left: notice, silence, removal.
	result, err = f.shell.SnoozeAlarm(context.Background(), a.ID)
	require.NoError(t, err)
	require.False(t, result.Granted)
	require.Equal(t, 1, result.Alarm.SnoozeCount)
	require.Equal(t, 1, f.events.count(EventSnoozesExhausted))
	require.Zero(t, f.player.activeCount())

	_, err = f.shell.Alarm(context.Background(), a.ID)
	require.ErrorIs(t, err, ErrAlarmNotFound)
}

// TestShell_DeleteWhileSnoozingCancelsReRing is the cancel-then-wait property.
func TestShell_DeleteWhileSnoozingCancelsReRing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "10:44:59", Options{})
	a := f.add(t, "10:45:00", 20, 3)

	f.sched.Advance(time.Second)

	result, err := f.shell.SnoozeAlarm(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, "11:05:00", result.Alarm.ScheduledTime.String())

	require.NoError(t, f.shell.DeleteAlarm(context.Background(), a.ID))
	f.events.reset()

	f.sched.Advance(2 * time.Hour)
	require.Zero(t, f.events.count(EventAlarmRinging))
	require.Zero(t, f.player.activeCount())
}

// TestShell_EditWhileSnoozingCancelsReRing rearms the alarm as idle.
func TestShell_EditWhileSnoozingCancelsReRing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "05:59:59", Options{DefaultTune: "default.wav"})
	a := f.add(t, "06:00:00", 5, 3)

	f.sched.Advance(time.Second)

	_, err := f.shell.SnoozeAlarm(context.Background(), a.ID)
	require.NoError(t, err)

	edited, err := f.shell.EditAlarm(context.Background(), a.ID, domain.Spec{
		Time:           domain.MustParseTimeOfDay("06:30:00"),
		SnoozeInterval: 10,
		MaxSnoozes:     2,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StateIdle, edited.State)
	require.Equal(t, "default.wav", edited.Tune)
	require.Zero(t, edited.SnoozeCount)

	// The cancelled 5-minute re-ring never fires; the new time does.
	f.events.reset()
	f.sched.Advance(29 * time.Minute)
	require.Zero(t, f.events.count(EventAlarmRinging))

	f.sched.Advance(time.Minute)
	require.Equal(t, 1, f.events.count(EventAlarmRinging))

	_, err = f.shell.EditAlarm(context.Background(), a.ID, domain.Spec{Time: edited.ScheduledTime})
	require.True(t, domain.IsValidation(err))
}

// TestShell_SnoozeCountBounded hammers snooze and checks the invariant throughout.
func TestShell_SnoozeCountBounded(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "08:00:00", Options{})
	a := f.add(t, "08:00:01", 1, 4)

	f.sched.Advance(time.Second)

	for {
		result, err := f.shell.SnoozeAlarm(context.Background(), a.ID)
		require.NoError(t, err)
		require.LessOrEqual(t, result.Alarm.SnoozeCount, result.Alarm.MaxSnoozes)

		if !result.Granted {
			break
		}

		f.sched.Advance(time.Minute)
	}

	require.Equal(t, 5, f.events.count(EventAlarmRinging))
}

// TestShell_AudioFailureIsNonFatal rings even when the tune cannot play.
func TestShell_AudioFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "12:00:00", Options{})
	f.player.err = errTestPlay

	a := f.add(t, "12:00:01", 1, 1)
	f.sched.Advance(time.Second)

	require.Equal(t, domain.StateRinging, f.state(t, a.ID).State)

	_, err := f.shell.SnoozeAlarm(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StateSnoozing, f.state(t, a.ID).State)
}

// TestShell_SetDisplayFormat switches format and emits an immediate tick.
func TestShell_SetDisplayFormat(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "18:15:00", Options{})
	f.events.reset()

	format, err := f.shell.SetDisplayFormat(context.Background(), "12-Hour")
	require.NoError(t, err)
	require.Equal(t, "12-Hour", format.String())
	require.Equal(t, []EventKind{EventTick}, f.events.kinds())
	require.Equal(t, "06:15:00 PM", f.events.events[0].Display)

	display, err := f.shell.CurrentTime(context.Background())
	require.NoError(t, err)
	require.Equal(t, "06:15:00 PM", display)

	format, err = f.shell.SetDisplayFormat(context.Background(), "whatever")
	require.NoError(t, err)
	require.Equal(t, "24-Hour", format.String())

	format, err = f.shell.DisplayFormat(context.Background())
	require.NoError(t, err)
	require.Equal(t, "24-Hour", format.String())
}

// TestShell_Persistence loads on start and saves on every change.
func TestShell_Persistence(t *testing.T) {
	t.Parallel()

	stored, err := domain.New("", domain.Spec{
		Time:           domain.MustParseTimeOfDay("09:00:00"),
		SnoozeInterval: 5,
		MaxSnoozes:     1,
	})
	require.NoError(t, err)

	memory := &memoryRepository{alarms: []*domain.Alarm{stored}}
	f := newFixture(t, "08:59:59", Options{Repository: memory})

	alarms, err := f.shell.Alarms(context.Background())
	require.NoError(t, err)
	require.Len(t, alarms, 1)
	require.Equal(t, "alarm-1", alarms[0].ID)

	added := f.add(t, "10:00:00", 5, 1)
	require.Equal(t, []string{"alarm-1", added.ID}, memory.saved)

	f.sched.Advance(time.Second)
	require.NoError(t, f.shell.StopAlarm(context.Background(), "alarm-1"))
	require.Equal(t, []string{added.ID}, memory.saved)

	memory.saveErr = errTestSave
	err = f.shell.DeleteAlarm(context.Background(), added.ID)
	require.ErrorIs(t, err, errTestSave)

	// The alarm is still there, so the operator can retry.
	memory.saveErr = nil
	require.NoError(t, f.shell.DeleteAlarm(context.Background(), added.ID))
	require.Empty(t, memory.saved)
}

// TestShell_FailedSaveKeepsCollection leaves alarms and observers untouched
// when the repository rejects a change.
func TestShell_FailedSaveKeepsCollection(t *testing.T) {
	t.Parallel()

	memory := new(memoryRepository)
	f := newFixture(t, "08:59:59", Options{Repository: memory})
	ctx := context.Background()

	ringing := f.add(t, "09:00:00", 5, 1)
	f.sched.Advance(time.Second)
	require.Equal(t, domain.StateRinging, f.state(t, ringing.ID).State)

	f.events.reset()
	memory.saveErr = errTestSave

	_, err := f.shell.AddAlarm(ctx, domain.Spec{
		Time:           domain.MustParseTimeOfDay("10:00:00"),
		SnoozeInterval: 1,
		MaxSnoozes:     1,
	})
	require.ErrorIs(t, err, errTestSave)

	_, err = f.shell.EditAlarm(ctx, ringing.ID, domain.Spec{
		Time:           domain.MustParseTimeOfDay("11:00:00"),
		SnoozeInterval: 1,
		MaxSnoozes:     1,
	})
	require.ErrorIs(t, err, errTestSave)

	require.ErrorIs(t, f.shell.DeleteAlarm(ctx, ringing.ID), errTestSave)

	alarms, err := f.shell.Alarms(ctx)
	require.NoError(t, err)
	require.Len(t, alarms, 1)
	require.Equal(t, ringing.ID, alarms[0].ID)
	require.Equal(t, domain.StateRinging, alarms[0].State)
	require.Equal(t, "09:00:00", alarms[0].ScheduledTime.String())
	require.Empty(t, f.events.events)

	// Still ringing, so it can be snoozed as usual.
	result, err := f.shell.SnoozeAlarm(ctx, ringing.ID)
	require.NoError(t, err)
	require.True(t, result.Granted)
}

// TestShell_LoadErrors treats a missing file as empty and fails otherwise.
func TestShell_LoadErrors(t *testing.T) {
	t.Parallel()

	sched := schedule.NewManual(time.Now())

	s, err := New(context.Background(), Options{
		Scheduler:  sched,
		Repository: &memoryRepository{loadErr: repo.ErrNotFound},
	})
	require.NoError(t, err)

	alarms, err := s.Alarms(context.Background())
	require.NoError(t, err)
	require.Empty(t, alarms)

	_, err = New(context.Background(), Options{
		Scheduler:  sched,
		Repository: &memoryRepository{loadErr: errTestLoad},
	})
	require.ErrorIs(t, err, errTestLoad)
}

// TestShell_CloseSilencesEverything cancels the tick and pending snoozes.
func TestShell_CloseSilencesEverything(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "06:59:59", Options{})
	first := f.add(t, "07:00:00", 5, 2)
	f.add(t, "07:00:00", 5, 2)

	f.sched.Advance(time.Second)
	require.Equal(t, 2, f.player.activeCount())

	_, err := f.shell.SnoozeAlarm(context.Background(), first.ID)
	require.NoError(t, err)

	require.NoError(t, f.shell.Close(context.Background()))
	require.Zero(t, f.player.activeCount())

	f.events.reset()
	f.sched.Advance(time.Hour)
	require.Empty(t, f.events.events)
	require.Zero(t, f.sched.Pending())
}

// TestShell_Unsubscribe stops delivery.
func TestShell_Unsubscribe(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "06:00:00", Options{})

	var got int

	unsubscribe := f.shell.Subscribe(ObserverFunc(func(Event) { got++ }))
	f.sched.Advance(time.Second)
	require.Equal(t, 1, got)

	unsubscribe()
	f.sched.Advance(time.Second)
	require.Equal(t, 1, got)
}
