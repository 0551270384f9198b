package config

import (
	"fmt"
	"strings"
)

// Validate checks the whole configuration and returns every problem
// found, so the operator sees all of them at once.
func (c *Config) Validate() []error {
	var errs []error

	if c.Workspace.Path == "" {
		errs = append(errs, fmt.Errorf("workspace.path is required"))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
	}
	if c.Logging.Output == "" {
		errs = append(errs, fmt.Errorf("logging.output is required"))
	}

	if err := c.Scheduler.validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		errs = append(errs, fmt.Errorf("metrics.listen_addr is required when metrics.enabled=true"))
	}

	return errs
}

func (s *SchedulerConfig) validate() error {
	if s.TickIntervalMillis < 50 || s.TickIntervalMillis > 5000 {
		return fmt.Errorf("scheduler.tick_interval_ms must be between 50 and 5000 (got %d)", s.TickIntervalMillis)
	}
	if s.StatusEnabled && s.StatusIntervalSeconds < 60 {
		return fmt.Errorf("scheduler.status_interval_seconds must be >= 60 when status is enabled")
	}
	if s.HeartbeatEnabled && s.HeartbeatIntervalSeconds < 60 {
		return fmt.Errorf("scheduler.heartbeat_interval_seconds must be >= 60 when heartbeat is enabled")
	}
	if s.ReminderGraceMinutes < 1 || s.ReminderGraceMinutes > 120 {
		return fmt.Errorf("scheduler.reminder_grace_minutes must be between 1 and 120 (got %d)", s.ReminderGraceMinutes)
	}
	return nil
}
