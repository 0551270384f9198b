package provider

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aatumaykin/autocore/internal/clock"
	"github.com/aatumaykin/autocore/internal/logger"
	"github.com/aatumaykin/autocore/internal/metrics"
)

// DefaultRetryWindow is how long a failed provider stays excluded from
// selection before it is retried, in seconds.
const DefaultRetryWindow int64 = 300

// StateFilename persists failure records across reboots.
const StateFilename = "providers.json"

// record is the per-provider failure state. A zero FailedAt means healthy.
type record struct {
	FailedAt   int64 `json:"failed_at"`
	LastStatus int   `json:"last_status"`
}

// Tracker is a lazy self-healing circuit breaker over the fixed provider
// priority list. All transitions are evaluated on query; there is no
// background timer. The tracker exclusively owns the failure records.
type Tracker struct {
	source      clock.Source
	creds       CredentialSource
	log         *logger.Logger
	metrics     *metrics.Metrics
	retryWindow int64
	statePath   string
	records     map[ID]record
}

// NewTracker creates a Tracker persisting failure state inside
// workspacePath. retryWindowSeconds <= 0 selects DefaultRetryWindow;
// m may be nil.
func NewTracker(workspacePath string, source clock.Source, creds CredentialSource, retryWindowSeconds int64, log *logger.Logger, m *metrics.Metrics) *Tracker {
	if retryWindowSeconds <= 0 {
		retryWindowSeconds = DefaultRetryWindow
	}
	return &Tracker{
		source:      source,
		creds:       creds,
		log:         log,
		metrics:     m,
		retryWindow: retryWindowSeconds,
		statePath:   filepath.Join(workspacePath, StateFilename),
		records:     make(map[ID]record),
	}
}

// Init loads persisted failure records. A missing state file is normal on
// first boot; an unreadable one is logged and treated as empty.
func (t *Tracker) Init() {
	data, err := os.ReadFile(t.statePath)
	if err != nil {
		return
	}
	var stored map[ID]record
	if err := json.Unmarshal(data, &stored); err != nil {
		t.log.Warn("ignoring unreadable provider state",
			logger.Field{Key: "file", Value: t.statePath},
			logger.Field{Key: "error", Value: err.Error()})
		return
	}
	t.records = stored
	if t.records == nil {
		t.records = make(map[ID]record)
	}
}

// MarkFailed records a failed request against the provider. Subsequent
// IsFailed queries return true until the retry window elapses.
func (t *Tracker) MarkFailed(id ID, httpStatus int) {
	t.records[id] = record{
		FailedAt:   t.source.Epoch(),
		LastStatus: httpStatus,
	}
	t.persist()
	t.metrics.RecordProviderFailure(string(id))
	t.log.Warn("provider marked failed",
		logger.Field{Key: "provider", Value: string(id)},
		logger.Field{Key: "http_status", Value: httpStatus},
		logger.Field{Key: "retry_window_seconds", Value: t.retryWindow})
}

// IsFailed reports whether the provider is inside its failure cooldown.
// Once the retry window has elapsed the record is cleared as a side
// effect and the provider reads healthy again. A clock reading earlier
// than the recorded failure time means the counter moved backwards
// (wrap or resync); the stale record is cleared rather than reported
// failed forever.
func (t *Tracker) IsFailed(id ID) bool {
	rec, ok := t.records[id]
	if !ok || rec.FailedAt == 0 {
		return false
	}

	now := t.source.Epoch()
	if now < rec.FailedAt {
		t.clear(id, "clock moved backwards")
		return false
	}
	if now-rec.FailedAt >= t.retryWindow {
		t.clear(id, "retry window elapsed")
		return false
	}
	return true
}

// LastStatus returns the HTTP status recorded with the provider's current
// failure, or 0 when the provider is healthy.
func (t *Tracker) LastStatus(id ID) int {
	if !t.IsFailed(id) {
		return 0
	}
	return t.records[id].LastStatus
}

// Fallback scans the priority list in order and returns the first
// provider that is not excluded, has credentials configured, and is not
// currently failed. Returns false when no candidate remains. A selection
// that passed over at least one provider counts as a fallback.
func (t *Tracker) Fallback(exclude ID) (ID, bool) {
	skipped := false
	for _, id := range Priority {
		if id == exclude {
			skipped = true
			continue
		}
		if t.creds != nil && !t.creds.Configured(id) {
			skipped = true
			continue
		}
		if t.IsFailed(id) {
			skipped = true
			continue
		}
		if skipped {
			t.metrics.RecordProviderFallback()
		}
		return id, true
	}
	return "", false
}

// Reset clears the provider's failure state immediately.
func (t *Tracker) Reset(id ID) {
	if _, ok := t.records[id]; ok {
		t.clear(id, "operator reset")
	}
}

// ResetAll clears failure state for every provider.
func (t *Tracker) ResetAll() {
	if len(t.records) == 0 {
		return
	}
	t.records = make(map[ID]record)
	t.persist()
	t.log.Info("all provider failure state reset")
}

func (t *Tracker) clear(id ID, reason string) {
	delete(t.records, id)
	t.persist()
	t.log.Info("provider failure cleared",
		logger.Field{Key: "provider", Value: string(id)},
		logger.Field{Key: "reason", Value: reason})
}

// persist writes the failure records atomically. A write failure is a
// transient environment error: logged, never fatal.
func (t *Tracker) persist() {
	if err := os.MkdirAll(filepath.Dir(t.statePath), 0755); err != nil {
		t.log.Warn("failed to create provider state directory",
			logger.Field{Key: "error", Value: err.Error()})
		return
	}
	data, err := json.MarshalIndent(t.records, "", "  ")
	if err != nil {
		t.log.Warn("failed to marshal provider state",
			logger.Field{Key: "error", Value: err.Error()})
		return
	}
	tmpPath := t.statePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		t.log.Warn("failed to write provider state",
			logger.Field{Key: "error", Value: err.Error()})
		return
	}
	if err := os.Rename(tmpPath, t.statePath); err != nil {
		t.log.Warn("failed to replace provider state",
			logger.Field{Key: "error", Value: err.Error()})
	}
}
