// Package persona persists the operator-tunable identity settings the
// autonomy core consumes: the timezone override and the daily reminder
// slot. The record is a single small TOML document that the operator may
// also edit by hand.
package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aatumaykin/autocore/internal/clock"
	"github.com/aatumaykin/autocore/internal/logger"
)

// Filename is the persisted persona record inside the workspace.
const Filename = "persona.toml"

// Record holds the persisted fields. Empty values mean "not set".
type Record struct {
	Timezone        string `toml:"timezone"`
	ReminderTime    string `toml:"reminder_time"` // "HH:MM" local
	ReminderMessage string `toml:"reminder_message"`
	Text            string `toml:"text"` // free-form persona description
}

// Store owns the persona record and its persistence.
type Store struct {
	filePath string
	log      *logger.Logger
	rec      Record
}

// NewStore creates a Store for the persona record in workspacePath.
func NewStore(workspacePath string, log *logger.Logger) *Store {
	return &Store{
		filePath: filepath.Join(workspacePath, Filename),
		log:      log,
	}
}

// Init loads the persisted record. A missing file is normal on first
// boot; an unreadable one is logged and treated as empty so a corrupt
// record never stops the core from starting.
func (s *Store) Init() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return
	}
	var rec Record
	if err := toml.Unmarshal(data, &rec); err != nil {
		s.log.Warn("ignoring unreadable persona record",
			logger.Field{Key: "file", Value: s.filePath},
			logger.Field{Key: "error", Value: err.Error()})
		return
	}
	s.rec = rec
}

// Timezone returns the stored timezone override, "" when unset.
func (s *Store) Timezone() string {
	return strings.TrimSpace(s.rec.Timezone)
}

// SetTimezone stores a timezone override. Empty clears the override.
func (s *Store) SetTimezone(tz string) error {
	s.rec.Timezone = strings.TrimSpace(tz)
	return s.save()
}

// Text returns the free-form persona description, "" when unset.
func (s *Store) Text() string {
	return strings.TrimSpace(s.rec.Text)
}

// SetText stores the persona description. Empty clears it.
func (s *Store) SetText(text string) error {
	s.rec.Text = strings.TrimSpace(text)
	return s.save()
}

// DailyReminder returns the configured reminder slot. Either value being
// empty suppresses reminder firing.
func (s *Store) DailyReminder() (hhmm, message string) {
	return strings.TrimSpace(s.rec.ReminderTime), strings.TrimSpace(s.rec.ReminderMessage)
}

// SetDailyReminder validates and stores the reminder slot.
func (s *Store) SetDailyReminder(hhmm, message string) error {
	hhmm = strings.TrimSpace(hhmm)
	message = strings.TrimSpace(message)
	if hhmm != "" {
		if _, _, ok := clock.ParseHHMM(hhmm); !ok {
			return fmt.Errorf("invalid reminder time %q (expected HH:MM)", hhmm)
		}
	}
	s.rec.ReminderTime = hhmm
	s.rec.ReminderMessage = message
	return s.save()
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create persona directory: %w", err)
	}
	data, err := toml.Marshal(s.rec)
	if err != nil {
		return fmt.Errorf("failed to encode persona record: %w", err)
	}
	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write persona record: %w", err)
	}
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		return fmt.Errorf("failed to replace persona record: %w", err)
	}
	return nil
}
