package scheduler

import (
	"fmt"

	"github.com/aatumaykin/autocore/internal/clock"
	"github.com/aatumaykin/autocore/internal/logger"
)

// reminderReason codes the rejection branches of the reminder check.
// Each reason is logged once per transition, not on every tick, so the
// check stays diagnosable without flooding the log.
type reminderReason int

const (
	reasonNone reminderReason = iota - 1
	reasonEmpty
	reasonInvalidTime
	reasonNoSync
	reasonBeforeTarget
	reasonTooLate
	reasonAlreadySent
)

// checkReminder runs the daily reminder state machine. It fires at most
// once per (day-of-year, target-minute) pair, never before the target
// and never more than the grace window after it.
func (s *Scheduler) checkReminder() {
	if s.reminder == nil {
		return
	}

	hhmm, message := s.reminder.DailyReminder()
	if hhmm == "" || message == "" {
		s.reminderRejected(reasonEmpty, "empty")
		return
	}

	targetHour, targetMin, ok := clock.ParseHHMM(hhmm)
	if !ok {
		s.reminderRejected(reasonInvalidTime, "invalid hhmm="+hhmm)
		return
	}
	targetMinute := targetHour*60 + targetMin

	local, ok := s.localTime()
	if !ok {
		s.reminderRejected(reasonNoSync, "no time sync")
		return
	}
	nowMinute := local.MinuteOfDay()

	if nowMinute < targetMinute {
		s.reminderRejected(reasonBeforeTarget,
			fmt.Sprintf("before target now=%d:%02d target=%s", local.Hour, local.Minute, hhmm))
		return
	}

	lateBy := nowMinute - targetMinute
	if lateBy > s.cfg.ReminderGrace {
		s.reminderRejected(reasonTooLate,
			fmt.Sprintf("too late by %dm target=%s", lateBy, hhmm))
		return
	}

	if local.YearDay == s.lastReminderYearDay && targetMinute == s.lastReminderTarget {
		s.reminderRejected(reasonAlreadySent, "already sent today target="+hhmm)
		return
	}

	s.emit(CommandReminder)
	s.log.Info("reminder resolved",
		logger.Field{Key: "target", Value: hhmm},
		logger.Field{Key: "now", Value: fmt.Sprintf("%d:%02d", local.Hour, local.Minute)})
	s.lastReminderYearDay = local.YearDay
	s.lastReminderTarget = targetMinute
	s.lastReminderReason = reasonNone
}

// reminderRejected logs the rejection detail only when the reason code
// differs from the previous check.
func (s *Scheduler) reminderRejected(reason reminderReason, detail string) {
	if reason == s.lastReminderReason {
		return
	}
	s.lastReminderReason = reason
	s.log.Debug("reminder not due", logger.Field{Key: "reason", Value: detail})
}
