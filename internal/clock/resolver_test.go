package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/autocore/internal/logger"
)

type fakeSource struct {
	epoch  int64
	millis uint32
}

func (f *fakeSource) Epoch() int64   { return f.epoch }
func (f *fakeSource) Millis() uint32 { return f.millis }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty means UTC", "", "UTC0"},
		{"whitespace means UTC", "   ", "UTC0"},
		{"utc alias", "UTC", "UTC0"},
		{"etc utc alias", "Etc/UTC", "UTC0"},
		{"gmt alias", "gmt", "UTC0"},
		{"kolkata", "Asia/Kolkata", "IST-5:30"},
		{"calcutta", "asia/calcutta", "IST-5:30"},
		{"india shorthand", "India", "IST-5:30"},
		{"new york", "America/New_York", "EST5EDT,M3.2.0/2,M11.1.0/2"},
		{"chicago", "America/Chicago", "CST6CDT,M3.2.0/2,M11.1.0/2"},
		{"denver", "America/Denver", "MST7MDT,M3.2.0/2,M11.1.0/2"},
		{"los angeles", "America/Los_Angeles", "PST8PDT,M3.2.0/2,M11.1.0/2"},
		{"unknown passes through", "Europe/Berlin", "Europe/Berlin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"empty", "", 0},
		{"utc", "UTC", 0},
		{"utc0", "utc0", 0},
		{"india fixed offset", "Asia/Kolkata", 19800},
		{"ist posix form", "IST-5:30", 19800},
		{"utc plus hours", "UTC+5", 5 * 3600},
		{"utc plus hhmm", "UTC+5:30", 19800},
		{"utc minus hhmm", "utc-3:30", -(3*3600 + 30*60)},
		{"gmt plus", "GMT+2", 2 * 3600},
		{"posix suffix inverted sign", "XXX-5:30", 19800},
		{"posix suffix positive means west", "FOO+7", -7 * 3600},
		{"us eastern standard", "EST5EDT,M3.2.0/2,M11.1.0/2", -5 * 3600},
		{"us pacific standard", "PST8PDT,M3.2.0/2,M11.1.0/2", -8 * 3600},
		{"out of range hour", "UTC+25", 0},
		{"garbage", "not a zone", 0},
		{"trailing junk after hours", "utc+5junk", 0},
		{"trailing junk after minutes", "foo-5:30x", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.input))
		})
	}
}

func TestParseHHMM(t *testing.T) {
	tests := []struct {
		input  string
		hour   int
		minute int
		ok     bool
	}{
		{"09:00", 9, 0, true},
		{"23:59", 23, 59, true},
		{"0:05", 0, 5, true},
		{"24:00", 0, 0, false},
		{"12:60", 0, 0, false},
		{"12", 0, 0, false},
		{"", 0, 0, false},
		{"ab:cd", 0, 0, false},
		{"09:00junk", 0, 0, false},
		{"9:3x", 0, 0, false},
		{"09:00:00", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			h, m, ok := ParseHHMM(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.hour, h)
				assert.Equal(t, tt.minute, m)
			}
		})
	}
}

func TestResolverNowRequiresSync(t *testing.T) {
	source := &fakeSource{epoch: 12345} // board booted, clock never set
	r := NewResolver(source, nil, logger.Discard())
	r.Configure("UTC")

	_, ok := r.Now()
	assert.False(t, ok, "unsynchronized clock must not produce local time")
	assert.False(t, r.Synced())

	source.epoch = SyncFloor + 1000
	_, ok = r.Now()
	assert.True(t, ok)
	assert.True(t, r.Synced())
}

func TestResolverAppliesOffset(t *testing.T) {
	epoch := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).Unix()
	source := &fakeSource{epoch: epoch}
	r := NewResolver(source, nil, logger.Discard())
	r.Configure("Asia/Kolkata")

	local, ok := r.Now()
	require.True(t, ok)
	assert.Equal(t, 17, local.Hour) // 12:00 UTC + 5:30
	assert.Equal(t, 30, local.Minute)
	assert.Equal(t, 6, local.Weekday) // Saturday
}

func TestResolverCalendarFields(t *testing.T) {
	// 2024-01-07 is a Sunday.
	epoch := time.Date(2024, 1, 7, 9, 15, 30, 0, time.UTC).Unix()
	source := &fakeSource{epoch: epoch}
	r := NewResolver(source, nil, logger.Discard())
	r.Configure("UTC")

	local, ok := r.Now()
	require.True(t, ok)
	assert.Equal(t, 2024, local.Year)
	assert.Equal(t, 1, local.Month)
	assert.Equal(t, 7, local.Day)
	assert.Equal(t, 9, local.Hour)
	assert.Equal(t, 15, local.Minute)
	assert.Equal(t, 0, local.Weekday)
	assert.Equal(t, 7, local.YearDay)
	assert.Equal(t, 9*60+15, local.MinuteOfDay())
}

func TestResolverSyncTriggeredOnlyOnChange(t *testing.T) {
	syncs := 0
	source := &fakeSource{epoch: SyncFloor + 1}
	r := NewResolver(source, func(tz string, offset int64) { syncs++ }, logger.Discard())

	r.Configure("UTC")
	r.Configure("UTC")
	r.Configure("utc") // normalizes to the same zone
	assert.Equal(t, 1, syncs, "repeated identical configuration must not re-sync")

	r.Configure("Asia/Kolkata")
	assert.Equal(t, 2, syncs)

	r.Configure("Asia/Kolkata")
	assert.Equal(t, 2, syncs)
}

func TestElapsedWraparound(t *testing.T) {
	assert.True(t, Elapsed(100, 100))
	assert.True(t, Elapsed(200, 100))
	assert.False(t, Elapsed(100, 200))

	// Deadline set shortly before the counter wraps; "now" has wrapped.
	var deadline uint32 = 0xFFFFFF00
	var now uint32 = 0x00000010
	assert.True(t, Elapsed(now, deadline))

	// Deadline after the wrap, now still before it.
	assert.False(t, Elapsed(deadline, now+0x100))
}
