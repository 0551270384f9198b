package cron

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aatumaykin/autocore/internal/clock"
	"github.com/aatumaykin/autocore/internal/logger"
)

const (
	// MaxMissedReplay bounds how many skipped calendar minutes a single
	// sweep will replay. Older minutes beyond the bound are dropped.
	MaxMissedReplay = 10

	// LastCheckFilename stores the epoch of the last completed sweep.
	LastCheckFilename = "cron_last_check"
)

// MissedJob is a job whose trigger window elapsed while the device could
// not evaluate it (asleep, disconnected, or rebooted across the window).
type MissedJob struct {
	Command string
	At      clock.LocalTime // the local minute the job targeted
}

// Sweeper detects missed jobs by comparing a persisted last-check epoch
// against the current synchronized time and replaying the trigger match
// for each skipped minute. It never re-dispatches missed commands itself;
// callers decide how to catch up.
type Sweeper struct {
	store     *Store
	filePath  string
	log       *logger.Logger
	lastCheck int64 // epoch seconds of the last completed sweep, 0 = unknown
}

// NewSweeper creates a Sweeper over the given store, persisting its
// last-check marker inside workspacePath.
func NewSweeper(workspacePath string, store *Store, log *logger.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		filePath: filepath.Join(workspacePath, LastCheckFilename),
		log:      log,
	}
}

// Init loads the persisted last-check epoch. A missing or unreadable
// marker is not an error; the first sweep then only records "now".
func (s *Sweeper) Init() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		s.log.Warn("ignoring unparseable cron last-check marker",
			logger.Field{Key: "file", Value: s.filePath})
		return
	}
	s.lastCheck = v
}

// LastCheck returns the epoch of the last completed sweep, 0 if unknown.
func (s *Sweeper) LastCheck() int64 {
	return s.lastCheck
}

// Sweep compares the last-check marker to nowEpoch (synchronized UTC
// seconds) and returns the jobs that would have matched during skipped
// minutes, localized with offsetSeconds. The marker always advances to
// nowEpoch so the window cannot grow unbounded. Replay covers at most
// MaxMissedReplay of the most recent skipped minutes and excludes the
// current minute, which the live scheduler still evaluates.
func (s *Sweeper) Sweep(nowEpoch, offsetSeconds int64) []MissedJob {
	last := s.lastCheck
	s.lastCheck = nowEpoch
	if err := s.persist(); err != nil {
		s.log.Warn("failed to persist cron last-check marker",
			logger.Field{Key: "error", Value: err.Error()})
	}

	if last == 0 || nowEpoch <= last {
		return nil
	}
	if nowEpoch-last <= 60 {
		return nil
	}

	lastMinute := last / 60
	nowMinute := nowEpoch / 60

	firstSkipped := lastMinute + 1
	if nowMinute-firstSkipped > MaxMissedReplay {
		firstSkipped = nowMinute - MaxMissedReplay
	}

	jobs := s.store.Jobs()
	var missed []MissedJob
	for m := firstSkipped; m < nowMinute; m++ {
		local := clock.Calendar(m*60 + offsetSeconds)
		for _, job := range jobs {
			if job.Matches(local.Hour, local.Minute, local.Day, local.Month, local.Weekday) {
				missed = append(missed, MissedJob{Command: job.Command, At: local})
			}
		}
	}

	if len(missed) > 0 {
		s.log.Warn("detected missed cron jobs",
			logger.Field{Key: "count", Value: len(missed)},
			logger.Field{Key: "gap_seconds", Value: nowEpoch - last})
	}
	return missed
}

func (s *Sweeper) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return err
	}
	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(fmt.Sprintf("%d\n", s.lastCheck)), 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}
