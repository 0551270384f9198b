package status

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aatumaykin/autocore/internal/clock"
	"github.com/aatumaykin/autocore/internal/logger"
)

type fakeJobs struct{ count int }

func (f fakeJobs) Count() int { return f.count }

type fakeSource struct {
	epoch  int64
	millis uint32
}

func (f *fakeSource) Epoch() int64   { return f.epoch }
func (f *fakeSource) Millis() uint32 { return f.millis }

func TestReportIncludesCoreState(t *testing.T) {
	source := &fakeSource{epoch: clock.SyncFloor + 1000}
	resolver := clock.NewResolver(source, nil, logger.Discard())
	resolver.Configure("UTC")

	report := NewReporter(resolver, fakeJobs{count: 3}, logger.Discard()).Report()

	assert.True(t, strings.HasPrefix(report, "Status:"))
	assert.Contains(t, report, "cron_jobs=3")
	assert.Contains(t, report, "tz_active=UTC0")
	assert.Contains(t, report, "synced=yes")
}

func TestReportWithoutOptionalSources(t *testing.T) {
	report := NewReporter(nil, nil, logger.Discard()).Report()

	assert.True(t, strings.HasPrefix(report, "Status:"))
	assert.NotContains(t, report, "cron_jobs=")
}
