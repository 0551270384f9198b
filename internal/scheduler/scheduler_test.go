package scheduler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/autocore/internal/clock"
	"github.com/aatumaykin/autocore/internal/cron"
	"github.com/aatumaykin/autocore/internal/logger"
)

type fakeSource struct {
	epoch  int64
	millis uint32
}

func (f *fakeSource) Epoch() int64   { return f.epoch }
func (f *fakeSource) Millis() uint32 { return f.millis }

type reminderStub struct {
	hhmm    string
	message string
}

func (r *reminderStub) DailyReminder() (string, string) { return r.hhmm, r.message }

type heartbeatStub struct {
	doc string
}

func (h *heartbeatStub) Document() string { return h.doc }

type jobsStub struct {
	jobs []cron.Job
}

func (j *jobsStub) Jobs() []cron.Job { return j.jobs }

type harness struct {
	src        *fakeSource
	sched      *Scheduler
	dispatched []string
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "UTC"
	}
	h := &harness{src: &fakeSource{}}
	resolver := clock.NewResolver(h.src, nil, logger.Discard())
	h.sched = New(cfg, h.src, resolver, func(command string) {
		h.dispatched = append(h.dispatched, command)
	}, logger.Discard(), nil)
	h.sched.Init()
	return h
}

// tickAt sets wall-clock time and advances uptime far enough that the
// coarse reminder and cron checks are due again.
func (h *harness) tickAt(at time.Time) {
	h.src.epoch = at.Unix()
	h.src.millis += 15001
	h.sched.Tick()
}

// advance moves only the uptime counter and ticks.
func (h *harness) advance(d time.Duration) {
	h.src.millis += uint32(d.Milliseconds())
	h.src.epoch += int64(d.Seconds())
	h.sched.Tick()
}

func (h *harness) reset() {
	h.dispatched = nil
}

func TestStatusTimer(t *testing.T) {
	h := newHarness(t, Config{
		StatusEnabled:  true,
		StatusInterval: time.Minute,
		ReminderGrace:  10,
	})
	h.src.epoch = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC).Unix()

	h.advance(30 * time.Second)
	assert.Empty(t, h.dispatched)

	h.advance(31 * time.Second)
	assert.Equal(t, []string{CommandStatus}, h.dispatched)

	// Rescheduled from the fire, not from the original deadline.
	h.reset()
	h.advance(30 * time.Second)
	assert.Empty(t, h.dispatched)
	h.advance(31 * time.Second)
	assert.Equal(t, []string{CommandStatus}, h.dispatched)
}

func TestStatusDisabled(t *testing.T) {
	h := newHarness(t, Config{ReminderGrace: 10})
	h.src.epoch = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC).Unix()

	h.advance(time.Hour)
	assert.Empty(t, h.dispatched)
}

func TestHeartbeatTimer(t *testing.T) {
	hb := &heartbeatStub{}
	h := newHarness(t, Config{
		HeartbeatEnabled:  true,
		HeartbeatInterval: time.Minute,
		ReminderGrace:     10,
	})
	h.sched.SetHeartbeatSource(hb)
	h.src.epoch = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC).Unix()

	// Empty document: nothing dispatched, but the timer rearms instead
	// of re-reading the document on the next tick.
	h.advance(61 * time.Second)
	assert.Empty(t, h.dispatched)

	hb.doc = "check the garden sensors"
	h.advance(2 * time.Second)
	assert.Empty(t, h.dispatched)

	h.advance(60 * time.Second)
	assert.Equal(t, []string{CommandHeartbeat}, h.dispatched)
}

func TestReminderFiresAtTarget(t *testing.T) {
	h := newHarness(t, Config{ReminderGrace: 10})
	h.sched.SetReminderSource(&reminderStub{hhmm: "09:00", message: "wake up"})
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	h.tickAt(day.Add(8*time.Hour + 59*time.Minute))
	assert.Empty(t, h.dispatched, "must not fire before the target")

	h.tickAt(day.Add(9 * time.Hour))
	assert.Equal(t, []string{CommandReminder}, h.dispatched)
}

func TestReminderFiresWithinGrace(t *testing.T) {
	h := newHarness(t, Config{ReminderGrace: 10})
	h.sched.SetReminderSource(&reminderStub{hhmm: "09:00", message: "wake up"})
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	// First check of the day happens 7 minutes late (device was asleep).
	h.tickAt(day.Add(9*time.Hour + 7*time.Minute))
	assert.Equal(t, []string{CommandReminder}, h.dispatched)
}

func TestReminderSuppressedPastGrace(t *testing.T) {
	h := newHarness(t, Config{ReminderGrace: 10})
	h.sched.SetReminderSource(&reminderStub{hhmm: "09:00", message: "wake up"})
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	h.tickAt(day.Add(9*time.Hour + 11*time.Minute))
	assert.Empty(t, h.dispatched, "a reminder 11 minutes late is stale, not delivered")
}

func TestReminderFiresOncePerDay(t *testing.T) {
	h := newHarness(t, Config{ReminderGrace: 10})
	h.sched.SetReminderSource(&reminderStub{hhmm: "09:00", message: "wake up"})
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	h.tickAt(day.Add(9 * time.Hour))
	h.tickAt(day.Add(9*time.Hour + 3*time.Minute))
	h.tickAt(day.Add(9*time.Hour + 9*time.Minute))
	assert.Equal(t, []string{CommandReminder}, h.dispatched, "within-grace rechecks must dedupe")

	// The next day it fires again.
	h.reset()
	h.tickAt(day.AddDate(0, 0, 1).Add(9 * time.Hour))
	assert.Equal(t, []string{CommandReminder}, h.dispatched)
}

func TestReminderTargetChangeFiresAgainSameDay(t *testing.T) {
	stub := &reminderStub{hhmm: "09:00", message: "wake up"}
	h := newHarness(t, Config{ReminderGrace: 10})
	h.sched.SetReminderSource(stub)
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	h.tickAt(day.Add(9 * time.Hour))
	require.Equal(t, []string{CommandReminder}, h.dispatched)

	// Operator moves the slot later the same day: a new target minute is
	// a new reminder.
	stub.hhmm = "14:00"
	h.reset()
	h.tickAt(day.Add(14 * time.Hour))
	assert.Equal(t, []string{CommandReminder}, h.dispatched)
}

func TestReminderSuppressedWithoutConfig(t *testing.T) {
	tests := []struct {
		name string
		stub *reminderStub
	}{
		{"no source", nil},
		{"empty slot", &reminderStub{}},
		{"empty message", &reminderStub{hhmm: "09:00"}},
		{"invalid time", &reminderStub{hhmm: "25:00", message: "wake up"}},
	}

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Config{ReminderGrace: 10})
			if tt.stub != nil {
				h.sched.SetReminderSource(tt.stub)
			}
			h.tickAt(day.Add(9 * time.Hour))
			assert.Empty(t, h.dispatched)
		})
	}
}

func TestReminderRejectionLoggedOncePerReason(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "core.log")
	log, err := logger.New(logger.Config{Level: "debug", Format: "json", Output: logPath})
	require.NoError(t, err)

	src := &fakeSource{}
	resolver := clock.NewResolver(src, nil, logger.Discard())
	sched := New(Config{ReminderGrace: 10, DefaultTimezone: "UTC"},
		src, resolver, func(string) {}, log, nil)
	sched.SetReminderSource(&reminderStub{hhmm: "09:00", message: "wake up"})
	sched.Init()

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	tick := func(at time.Time) {
		src.epoch = at.Unix()
		src.millis += 15001
		sched.Tick()
	}

	// Three checks, all rejected for the same reason (before target).
	tick(day.Add(8 * time.Hour))
	tick(day.Add(8*time.Hour + 10*time.Minute))
	tick(day.Add(8*time.Hour + 20*time.Minute))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "reminder not due"),
		"repeats of the same rejection reason must not re-log")

	// Past the grace window the reason changes and is logged once more.
	tick(day.Add(9*time.Hour + 30*time.Minute))
	tick(day.Add(9*time.Hour + 40*time.Minute))

	data, err = os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "reminder not due"))
}

func TestReminderWaitsForClockSync(t *testing.T) {
	h := newHarness(t, Config{ReminderGrace: 10})
	h.sched.SetReminderSource(&reminderStub{hhmm: "09:00", message: "wake up"})

	// Uptime advances but the wall clock was never set.
	h.src.epoch = 12345
	h.src.millis += 15001
	h.sched.Tick()
	assert.Empty(t, h.dispatched)
}

func TestCronDispatchesOncePerMinute(t *testing.T) {
	job, err := cron.ParseLine("* * * * * | ping")
	require.NoError(t, err)

	h := newHarness(t, Config{ReminderGrace: 10})
	h.sched.SetJobSource(&jobsStub{jobs: []cron.Job{job}})
	base := time.Date(2024, 3, 10, 12, 0, 30, 0, time.UTC)

	h.tickAt(base)
	assert.Equal(t, []string{"ping"}, h.dispatched)

	// Same calendar minute: no re-dispatch.
	h.tickAt(base.Add(15 * time.Second))
	assert.Equal(t, []string{"ping"}, h.dispatched)

	// Next minute fires again.
	h.tickAt(base.Add(30 * time.Second))
	assert.Equal(t, []string{"ping", "ping"}, h.dispatched)
}

func TestCronMatchesSpecificSlot(t *testing.T) {
	job, err := cron.ParseLine("30 10 * * * | morning briefing")
	require.NoError(t, err)

	h := newHarness(t, Config{ReminderGrace: 10})
	h.sched.SetJobSource(&jobsStub{jobs: []cron.Job{job}})
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	h.tickAt(day.Add(10*time.Hour + 29*time.Minute))
	assert.Empty(t, h.dispatched)

	h.tickAt(day.Add(10*time.Hour + 30*time.Minute))
	assert.Equal(t, []string{"morning briefing"}, h.dispatched)

	h.tickAt(day.Add(10*time.Hour + 31*time.Minute))
	assert.Equal(t, []string{"morning briefing"}, h.dispatched)
}

func TestCronHonorsConfiguredTimezone(t *testing.T) {
	job, err := cron.ParseLine("0 15 * * * | afternoon check")
	require.NoError(t, err)

	h := newHarness(t, Config{ReminderGrace: 10, DefaultTimezone: "Asia/Kolkata"})
	h.sched.SetJobSource(&jobsStub{jobs: []cron.Job{job}})

	// 09:30 UTC is 15:00 at UTC+5:30.
	h.tickAt(time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC))
	assert.Equal(t, []string{"afternoon check"}, h.dispatched)
}

func TestMissedJobsReportedNotDispatched(t *testing.T) {
	dir := t.TempDir()
	store := cron.NewStore(dir, logger.Discard())
	require.NoError(t, store.Init())
	_, err := store.Add("* * * * * | ping")
	require.NoError(t, err)
	sweeper := cron.NewSweeper(dir, store, logger.Discard())
	sweeper.Init()

	var missed []cron.MissedJob
	h := newHarness(t, Config{ReminderGrace: 10})
	h.sched.SetJobSource(store)
	h.sched.SetSweeper(sweeper, func(jobs []cron.MissedJob) {
		missed = append(missed, jobs...)
	})

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	h.tickAt(base)
	require.Equal(t, []string{"ping"}, h.dispatched, "live minute dispatches normally")
	assert.Empty(t, missed)

	// Ten and a half minutes of outage: the skipped minutes are reported
	// through the callback, only the live minute is dispatched.
	h.tickAt(base.Add(10*time.Minute + 30*time.Second))
	assert.Equal(t, []string{"ping", "ping"}, h.dispatched)
	require.Len(t, missed, 9)
	assert.Equal(t, 1, missed[0].At.Minute)
	assert.Equal(t, 9, missed[8].At.Minute)
}

func TestTickWithoutDispatchFuncIsInert(t *testing.T) {
	src := &fakeSource{epoch: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC).Unix()}
	resolver := clock.NewResolver(src, nil, logger.Discard())
	sched := New(Config{StatusEnabled: true, StatusInterval: time.Second},
		src, resolver, nil, logger.Discard(), nil)
	sched.Init()

	src.millis += 5000
	sched.Tick() // must not panic
}
