// Package status builds the device status report emitted for the
// scheduler's "status" dispatch: host uptime, CPU and memory pressure,
// plus a summary of the core's own time and job state.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aatumaykin/autocore/internal/clock"
	"github.com/aatumaykin/autocore/internal/logger"
)

// Reporter collects the status snapshot.
type Reporter struct {
	resolver *clock.Resolver
	jobs     interface{ Count() int }
	log      *logger.Logger
}

// NewReporter creates a Reporter. jobs may be nil.
func NewReporter(resolver *clock.Resolver, jobs interface{ Count() int }, log *logger.Logger) *Reporter {
	return &Reporter{
		resolver: resolver,
		jobs:     jobs,
		log:      log,
	}
}

// Report returns a human-readable status summary. Probes that fail are
// skipped rather than failing the whole report.
func (r *Reporter) Report() string {
	var b strings.Builder
	b.WriteString("Status:\n")

	if uptime, err := host.Uptime(); err == nil {
		fmt.Fprintf(&b, "uptime=%s\n", (time.Duration(uptime) * time.Second).String())
	} else {
		r.log.Debug("uptime probe failed", logger.Field{Key: "error", Value: err.Error()})
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Fprintf(&b, "mem_used_percent=%.1f\n", vm.UsedPercent)
	} else {
		r.log.Debug("memory probe failed", logger.Field{Key: "error", Value: err.Error()})
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		fmt.Fprintf(&b, "cpu_percent=%.1f\n", percents[0])
	} else if err != nil {
		r.log.Debug("cpu probe failed", logger.Field{Key: "error", Value: err.Error()})
	}

	if r.jobs != nil {
		fmt.Fprintf(&b, "cron_jobs=%d\n", r.jobs.Count())
	}

	if r.resolver != nil {
		b.WriteString(r.resolver.DebugString())
	}

	return strings.TrimRight(b.String(), "\n")
}
