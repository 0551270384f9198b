// Package clock converts a configured timezone identifier into a fixed UTC
// offset and tracks whether wall-clock time has been synchronized at all.
// Every time-based component in the core reads local time through it.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aatumaykin/autocore/internal/logger"
)

// SyncFloor is the sanity floor for the wall clock: an epoch below this
// value means the clock has never been set (boards boot near zero) and
// local time must be treated as unknown.
const SyncFloor int64 = 1700000000

// LocalTime is a calendar snapshot of synchronized local time.
type LocalTime struct {
	Year    int
	Month   int // 1-12
	Day     int // 1-31
	Hour    int // 0-23
	Minute  int // 0-59
	Second  int // 0-59
	Weekday int // 0-6, 0=Sunday
	YearDay int // 1-366
}

// MinuteOfDay returns Hour*60+Minute.
func (t LocalTime) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

// SyncFunc requests a network time sync for the given zone. The resolver
// calls it only when the resolved timezone/offset pair changes, never on
// every read.
type SyncFunc func(tz string, offsetSeconds int64)

// Resolver owns the timezone state: the normalized zone string, its fixed
// UTC offset, and whether a sync request has been issued for it.
type Resolver struct {
	source     Source
	sync       SyncFunc
	log        *logger.Logger
	configured bool
	tz         string
	offset     int64
}

// NewResolver creates a Resolver over the given clock source. sync may be
// nil when no network time mechanism exists (tests, already-synced hosts).
func NewResolver(source Source, sync SyncFunc, log *logger.Logger) *Resolver {
	return &Resolver{
		source: source,
		sync:   sync,
		log:    log,
	}
}

// Configure resolves tz and, when the (zone, offset) pair differs from the
// previously configured one or no sync has ever been requested, triggers
// the sync callback. Safe to call on every tick.
func (r *Resolver) Configure(tz string) {
	normalized := Normalize(tz)
	offset := Resolve(normalized)

	if r.configured && normalized == r.tz && offset == r.offset {
		return
	}

	r.tz = normalized
	r.offset = offset
	r.configured = true

	if r.sync != nil {
		r.sync(normalized, offset)
	}
	r.log.Info("time sync configured",
		logger.Field{Key: "tz", Value: normalized},
		logger.Field{Key: "offset_seconds", Value: offset})
}

// Offset returns the currently resolved UTC offset in seconds.
func (r *Resolver) Offset() int64 {
	return r.offset
}

// Zone returns the currently resolved normalized zone string.
func (r *Resolver) Zone() string {
	return r.tz
}

// Synced reports whether the wall clock has produced a plausible epoch.
func (r *Resolver) Synced() bool {
	return r.source.Epoch() >= SyncFloor
}

// Now returns the current local calendar time, or false while the wall
// clock has not been synchronized yet.
func (r *Resolver) Now() (LocalTime, bool) {
	epoch := r.source.Epoch()
	if epoch < SyncFloor {
		return LocalTime{}, false
	}
	return Calendar(epoch + r.offset), true
}

// DebugString returns a human-readable dump of the time state.
func (r *Resolver) DebugString() string {
	epoch := r.source.Epoch()
	synced := epoch >= SyncFloor

	var b strings.Builder
	b.WriteString("Time:\n")
	fmt.Fprintf(&b, "tz_active=%s\n", r.tz)
	fmt.Fprintf(&b, "tz_offset_sec=%d\n", r.offset)
	fmt.Fprintf(&b, "epoch=%d\n", epoch)
	if synced {
		b.WriteString("synced=yes")
		local := Calendar(epoch + r.offset)
		fmt.Fprintf(&b, "\nlocal=%04d-%02d-%02d %02d:%02d:%02d",
			local.Year, local.Month, local.Day, local.Hour, local.Minute, local.Second)
	} else {
		b.WriteString("synced=no")
	}
	return b.String()
}

// Calendar converts an already offset-shifted epoch into calendar fields.
func Calendar(epoch int64) LocalTime {
	t := time.Unix(epoch, 0).UTC()
	return LocalTime{
		Year:    t.Year(),
		Month:   int(t.Month()),
		Day:     t.Day(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
		Weekday: int(t.Weekday()),
		YearDay: t.YearDay(),
	}
}

// Normalize maps common zone identifiers to the POSIX TZ strings the
// resolver understands. Unknown identifiers pass through unchanged and
// empty input means UTC.
func Normalize(tz string) string {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return "UTC0"
	}

	switch strings.ToLower(tz) {
	case "asia/kolkata", "asia/calcutta", "india", "ist":
		return "IST-5:30"
	case "utc", "etc/utc", "gmt":
		return "UTC0"
	case "america/new_york":
		return "EST5EDT,M3.2.0/2,M11.1.0/2"
	case "america/chicago":
		return "CST6CDT,M3.2.0/2,M11.1.0/2"
	case "america/denver":
		return "MST7MDT,M3.2.0/2,M11.1.0/2"
	case "america/los_angeles":
		return "PST8PDT,M3.2.0/2,M11.1.0/2"
	}

	return tz
}

// Resolve converts a zone identifier into a fixed UTC offset in seconds.
// Supports the named table, numeric "UTC±HH[:MM]" forms, and POSIX-style
// "NAME±HH:MM" suffixes whose sign is inverted per POSIX convention.
// Anything unparseable resolves to 0 (UTC).
func Resolve(tz string) int64 {
	tz = strings.ToLower(strings.TrimSpace(tz))
	if tz == "" {
		return 0
	}

	switch tz {
	case "asia/kolkata", "asia/calcutta", "india", "ist", "ist-5:30":
		return 19800
	case "utc", "etc/utc", "gmt", "utc0":
		return 0
	case "est5edt,m3.2.0/2,m11.1.0/2":
		return -5 * 3600
	case "cst6cdt,m3.2.0/2,m11.1.0/2":
		return -6 * 3600
	case "mst7mdt,m3.2.0/2,m11.1.0/2":
		return -7 * 3600
	case "pst8pdt,m3.2.0/2,m11.1.0/2":
		return -8 * 3600
	}

	if strings.HasPrefix(tz, "utc") || strings.HasPrefix(tz, "gmt") {
		if off, ok := parseOffsetHHMM(tz[3:]); ok {
			return off
		}
	}

	// POSIX-style explicit fallback: "XXX-5:30" means UTC+5:30.
	pos := -1
	if p := strings.Index(tz, "+"); p > 0 {
		pos = p
	}
	if p := strings.Index(tz, "-"); p > 0 && (pos < 0 || p < pos) {
		pos = p
	}
	if pos > 0 {
		if off, ok := parseOffsetHHMM(tz[pos:]); ok {
			// POSIX TZ offsets carry the opposite sign.
			return -off
		}
	}

	return 0
}

// parseOffsetHHMM parses "[+|-]HH[:MM]" into seconds. Trailing garbage
// after either number rejects the whole value.
func parseOffsetHHMM(value string) (int64, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, false
	}

	sign := int64(1)
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	}

	hhStr, mmStr, hasMinutes := strings.Cut(s, ":")
	hh, err := strconv.Atoi(hhStr)
	if err != nil {
		return 0, false
	}
	mm := 0
	if hasMinutes {
		if mm, err = strconv.Atoi(mmStr); err != nil {
			return 0, false
		}
	}

	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, false
	}

	return sign * (int64(hh)*3600 + int64(mm)*60), true
}

// ParseHHMM parses a "HH:MM" reminder time into hour and minute. The
// whole value must be consumed; "09:00junk" is rejected.
func ParseHHMM(value string) (hour, minute int, ok bool) {
	hhStr, mmStr, found := strings.Cut(strings.TrimSpace(value), ":")
	if !found {
		return 0, 0, false
	}
	hh, err := strconv.Atoi(hhStr)
	if err != nil {
		return 0, 0, false
	}
	mm, err := strconv.Atoi(mmStr)
	if err != nil {
		return 0, 0, false
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, 0, false
	}
	return hh, mm, true
}
