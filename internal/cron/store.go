package cron

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aatumaykin/autocore/internal/logger"
)

const (
	// MaxJobs is the maximum number of jobs held at once.
	MaxJobs = 10

	// JobsFilename is the persisted job document inside the workspace.
	JobsFilename = "cron.md"
)

// ErrJobLimit is returned by Add when the job table is full.
var ErrJobLimit = errors.New("maximum cron jobs reached")

// fileHeader is written to a fresh or cleared job document. Lines
// starting with '#' are ignored on load, so the header doubles as
// operator documentation for hand edits.
const fileHeader = `# Cron Jobs
# Format: minute hour day month weekday | command
# Example: 0 9 * * * | Good morning message
# Wildcards: * means any value
# minute: 0-59, hour: 0-23, day: 1-31, month: 1-12, weekday: 0-6 (0=Sunday)

`

// Store persists jobs as one line per job in a human-readable document
// and keeps an in-memory cache that is the single source of truth for
// trigger evaluation. The document is authoritative only across reboots.
type Store struct {
	filePath string
	log      *logger.Logger
	jobs     []Job
}

// NewStore creates a Store for the job document inside workspacePath.
func NewStore(workspacePath string, log *logger.Logger) *Store {
	return &Store{
		filePath: filepath.Join(workspacePath, JobsFilename),
		log:      log,
	}
}

// Path returns the full path of the persisted job document.
func (s *Store) Path() string {
	return s.filePath
}

// Init loads the job document into the cache, creating a header-only
// document if none exists. Invalid lines are logged and skipped rather
// than failing the whole load; loading stops once the cache is full.
func (s *Store) Init() error {
	s.jobs = s.jobs[:0]

	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		if err := s.writeHeader(); err != nil {
			return fmt.Errorf("failed to create %s: %w", s.filePath, err)
		}
		return nil
	}

	file, err := os.Open(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.filePath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(s.jobs) >= MaxJobs {
			s.log.Warn("cron document has more jobs than the limit, ignoring the rest",
				logger.Field{Key: "limit", Value: MaxJobs},
				logger.Field{Key: "line", Value: lineNum})
			break
		}

		job, err := ParseLine(line)
		if err != nil {
			s.log.Warn("skipping invalid cron line",
				logger.Field{Key: "line", Value: lineNum},
				logger.Field{Key: "content", Value: line},
				logger.Field{Key: "error", Value: err.Error()})
			continue
		}
		s.jobs = append(s.jobs, job)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", s.filePath, err)
	}

	s.log.Info("cron jobs loaded", logger.Field{Key: "count", Value: len(s.jobs)})
	return nil
}

// Add validates a job line, appends it to the document and grows the
// cache. The document is only touched after validation succeeds; a full
// table refuses the job and leaves existing state untouched.
func (s *Store) Add(line string) (Job, error) {
	job, err := ParseLine(line)
	if err != nil {
		return Job{}, err
	}

	if len(s.jobs) >= MaxJobs {
		return Job{}, fmt.Errorf("%w (%d)", ErrJobLimit, MaxJobs)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return Job{}, fmt.Errorf("failed to create cron directory: %w", err)
	}
	file, err := os.OpenFile(s.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return Job{}, fmt.Errorf("failed to open %s: %w", s.filePath, err)
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, job.String()); err != nil {
		return Job{}, fmt.Errorf("failed to append to %s: %w", s.filePath, err)
	}

	s.jobs = append(s.jobs, job)
	s.log.Info("cron job added", logger.Field{Key: "job", Value: job.String()})
	return job, nil
}

// Jobs returns a copy of the cached jobs in document order.
func (s *Store) Jobs() []Job {
	out := make([]Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Count returns the number of cached jobs.
func (s *Store) Count() int {
	return len(s.jobs)
}

// Clear empties the cache and rewrites the document to header only.
func (s *Store) Clear() error {
	if err := s.writeHeader(); err != nil {
		return fmt.Errorf("failed to rewrite %s: %w", s.filePath, err)
	}
	s.jobs = s.jobs[:0]
	s.log.Info("cron jobs cleared")
	return nil
}

// Content returns the raw document text for operator display.
func (s *Store) Content() (string, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", s.filePath, err)
	}
	return string(data), nil
}

// writeHeader atomically replaces the document with the header.
func (s *Store) writeHeader() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return err
	}
	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(fileHeader), 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}
