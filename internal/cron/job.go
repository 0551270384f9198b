// Package cron implements the recurring-job engine: a line-oriented job
// grammar, a persistent human-editable job document with an in-memory
// cache, wildcard-aware trigger matching, and detection of jobs that
// should have fired while the device could not check.
package cron

import (
	"fmt"
	"strconv"
)

// Wildcard is the stored value of a job field that matches any value.
const Wildcard = -1

// Job is a single recurring job. Each schedule field is either Wildcard
// or an integer in its natural range: minute 0-59, hour 0-23, day 1-31,
// month 1-12, weekday 0-6 (0=Sunday).
type Job struct {
	Minute  int
	Hour    int
	Day     int
	Month   int
	Weekday int
	Command string
}

// Matches reports whether the job triggers at the given calendar minute.
// Every non-wildcard field must equal the corresponding current field;
// day and weekday are independent constraints that both apply.
func (j Job) Matches(hour, minute, day, month, weekday int) bool {
	if j.Minute != Wildcard && j.Minute != minute {
		return false
	}
	if j.Hour != Wildcard && j.Hour != hour {
		return false
	}
	if j.Day != Wildcard && j.Day != day {
		return false
	}
	if j.Month != Wildcard && j.Month != month {
		return false
	}
	if j.Weekday != Wildcard && j.Weekday != weekday {
		return false
	}
	return true
}

// String formats the job in its persisted line form:
// "minute hour day month weekday | command". ParseLine on the result
// yields an equal job.
func (j Job) String() string {
	return fmt.Sprintf("%s %s %s %s %s | %s",
		fieldString(j.Minute), fieldString(j.Hour), fieldString(j.Day),
		fieldString(j.Month), fieldString(j.Weekday), j.Command)
}

func fieldString(v int) string {
	if v == Wildcard {
		return "*"
	}
	return strconv.Itoa(v)
}
