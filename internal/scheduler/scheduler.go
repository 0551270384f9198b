// Package scheduler is the tick-driven orchestrator of the autonomy
// core. The surrounding loop calls Tick once per iteration; each tick
// checks four independent timers (status, heartbeat, daily reminder,
// cron sweep) and emits at most one dispatch per timer, each carrying a
// command string the caller routes to execution or transport.
//
// The scheduler owns all of its state explicitly and performs no I/O
// beyond the injected suppliers, so ticks are testable with a fake clock
// source and synthetic timestamps.
package scheduler

import (
	"time"

	"github.com/aatumaykin/autocore/internal/clock"
	"github.com/aatumaykin/autocore/internal/cron"
	"github.com/aatumaykin/autocore/internal/logger"
	"github.com/aatumaykin/autocore/internal/metrics"
)

// Command strings for the built-in timers. Cron dispatches carry the
// job's stored command text instead.
const (
	CommandStatus    = "status"
	CommandHeartbeat = "heartbeat_run"
	CommandReminder  = "reminder_run"
)

// Check cadences. Reminder and cron are checked on a coarse cadence to
// bound dispatch-callback cost; cron evaluation is additionally capped
// at once per calendar minute.
const (
	reminderCheckInterval = 15 * time.Second
	cronCheckInterval     = 15 * time.Second
	initialCheckDelay     = 5 * time.Second
)

// DispatchFunc receives one command string per emitted dispatch. The
// scheduler is agnostic to the outcome.
type DispatchFunc func(command string)

// MissedFunc receives jobs the missed-job sweep detected. The scheduler
// never re-dispatches them; catch-up is the caller's decision.
type MissedFunc func(missed []cron.MissedJob)

// HeartbeatSource supplies the heartbeat instruction document. Empty
// means "do nothing this cycle".
type HeartbeatSource interface {
	Document() string
}

// ReminderSource supplies the daily reminder slot. Empty fields suppress
// firing.
type ReminderSource interface {
	DailyReminder() (hhmm, message string)
}

// TimezoneSource supplies the operator timezone override, "" when unset.
type TimezoneSource interface {
	Timezone() string
}

// JobSource supplies the cached cron jobs in evaluation order.
type JobSource interface {
	Jobs() []cron.Job
}

// Config holds the timer configuration applied at initialization.
// Disabling a timer is a configuration decision, not a runtime one.
type Config struct {
	StatusEnabled     bool
	StatusInterval    time.Duration
	HeartbeatEnabled  bool
	HeartbeatInterval time.Duration
	ReminderGrace     int    // max lateness in minutes before a fire is suppressed
	DefaultTimezone   string // used when the persona has no override
}

// Scheduler holds the four timers and their dedupe state. One instance
// is owned by the tick loop; nothing here is safe for concurrent use.
type Scheduler struct {
	cfg       Config
	source    clock.Source
	resolver  *clock.Resolver
	heartbeat HeartbeatSource
	reminder  ReminderSource
	tz        TimezoneSource
	jobs      JobSource
	sweeper   *cron.Sweeper
	dispatch  DispatchFunc
	onMissed  MissedFunc
	log       *logger.Logger
	metrics   *metrics.Metrics

	// Next-fire deadlines on the rolling millisecond counter.
	nextStatus        uint32
	nextHeartbeat     uint32
	nextReminderCheck uint32
	nextCronCheck     uint32

	// Dedupe state.
	lastReminderYearDay int
	lastReminderTarget  int
	lastReminderReason  reminderReason
	lastCronMinute      int
}

// New wires a Scheduler. heartbeat, reminder, tz, jobs, sweeper, and
// onMissed may be nil; the corresponding checks then do nothing.
func New(cfg Config, source clock.Source, resolver *clock.Resolver, dispatch DispatchFunc, log *logger.Logger, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		cfg:                 cfg,
		source:              source,
		resolver:            resolver,
		dispatch:            dispatch,
		log:                 log,
		metrics:             m,
		lastReminderYearDay: -1,
		lastReminderTarget:  -1,
		lastReminderReason:  reasonNone,
		lastCronMinute:      -1,
	}
}

// SetHeartbeatSource injects the heartbeat document supplier.
func (s *Scheduler) SetHeartbeatSource(src HeartbeatSource) { s.heartbeat = src }

// SetReminderSource injects the reminder config supplier.
func (s *Scheduler) SetReminderSource(src ReminderSource) { s.reminder = src }

// SetTimezoneSource injects the timezone override supplier.
func (s *Scheduler) SetTimezoneSource(src TimezoneSource) { s.tz = src }

// SetJobSource injects the cron job supplier.
func (s *Scheduler) SetJobSource(src JobSource) { s.jobs = src }

// SetSweeper injects the missed-job sweeper and its report callback.
func (s *Scheduler) SetSweeper(sweeper *cron.Sweeper, onMissed MissedFunc) {
	s.sweeper = sweeper
	s.onMissed = onMissed
}

// Init arms the timers relative to the current uptime counter.
func (s *Scheduler) Init() {
	now := s.source.Millis()

	if s.cfg.StatusEnabled {
		s.nextStatus = now + uint32(s.cfg.StatusInterval.Milliseconds())
		s.log.Info("autonomous status enabled",
			logger.Field{Key: "interval", Value: s.cfg.StatusInterval.String()})
	} else {
		s.log.Info("autonomous status disabled")
	}

	if s.cfg.HeartbeatEnabled {
		s.nextHeartbeat = now + uint32(s.cfg.HeartbeatInterval.Milliseconds())
		s.log.Info("heartbeat enabled",
			logger.Field{Key: "interval", Value: s.cfg.HeartbeatInterval.String()})
	} else {
		s.log.Info("heartbeat disabled")
	}

	s.nextReminderCheck = now + uint32(initialCheckDelay.Milliseconds())
	s.nextCronCheck = now + uint32(initialCheckDelay.Milliseconds())
	s.log.Info("daily reminder enabled")
	s.log.Info("cron jobs enabled")
}

// Tick runs one scheduling pass. Timers are checked in a fixed order:
// status, heartbeat, reminder, cron. Each timer's due-check and
// reschedule happen atomically within the tick.
func (s *Scheduler) Tick() {
	if s.dispatch == nil {
		return
	}
	started := time.Now()
	now := s.source.Millis()

	if s.cfg.StatusEnabled && clock.Elapsed(now, s.nextStatus) {
		s.emit(CommandStatus)
		s.nextStatus = now + uint32(s.cfg.StatusInterval.Milliseconds())
	}

	if s.cfg.HeartbeatEnabled && clock.Elapsed(now, s.nextHeartbeat) {
		if s.heartbeat != nil && s.heartbeat.Document() != "" {
			s.emit(CommandHeartbeat)
		}
		// Reschedule even when nothing was dispatched so an empty
		// document is not re-read every tick.
		s.nextHeartbeat = now + uint32(s.cfg.HeartbeatInterval.Milliseconds())
	}

	if clock.Elapsed(now, s.nextReminderCheck) {
		s.nextReminderCheck = now + uint32(reminderCheckInterval.Milliseconds())
		s.checkReminder()
	}

	if clock.Elapsed(now, s.nextCronCheck) {
		s.nextCronCheck = now + uint32(cronCheckInterval.Milliseconds())
		s.checkCron()
	}

	s.metrics.RecordTick(time.Since(started))
}

// emit dispatches one command and counts it.
func (s *Scheduler) emit(command string) {
	s.log.Info("scheduler dispatch", logger.Field{Key: "command", Value: command})
	s.metrics.RecordDispatch(sourceLabel(command))
	s.dispatch(command)
}

// localTime resolves the effective timezone (persona override, then the
// configured default) and returns the local calendar snapshot, or false
// while wall-clock time is not synchronized.
func (s *Scheduler) localTime() (clock.LocalTime, bool) {
	tz := s.cfg.DefaultTimezone
	if s.tz != nil {
		if override := s.tz.Timezone(); override != "" {
			tz = override
		}
	}
	s.resolver.Configure(tz)
	return s.resolver.Now()
}

// checkCron evaluates cron jobs at most once per calendar minute and
// runs the missed-job sweep.
func (s *Scheduler) checkCron() {
	local, ok := s.localTime()
	if !ok {
		return
	}

	if s.sweeper != nil {
		missed := s.sweeper.Sweep(s.source.Epoch(), s.resolver.Offset())
		if len(missed) > 0 {
			s.metrics.RecordCronMissed(len(missed))
			if s.onMissed != nil {
				s.onMissed(missed)
			}
		}
	}

	if s.jobs == nil {
		return
	}

	current := local.MinuteOfDay()
	if current == s.lastCronMinute {
		return
	}
	s.lastCronMinute = current

	for _, job := range s.jobs.Jobs() {
		if job.Matches(local.Hour, local.Minute, local.Day, local.Month, local.Weekday) {
			s.log.Info("cron job triggered", logger.Field{Key: "command", Value: job.Command})
			s.metrics.RecordCronTrigger()
			s.metrics.RecordDispatch("cron")
			s.dispatch(job.Command)
		}
	}
}

func sourceLabel(command string) string {
	switch command {
	case CommandStatus:
		return "status"
	case CommandHeartbeat:
		return "heartbeat"
	case CommandReminder:
		return "reminder"
	}
	return "cron"
}
