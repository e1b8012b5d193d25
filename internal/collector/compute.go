package collector

import (
	"sort"
	"time"

	"porttime/internal/core"
)

// Metrics summarizes the cadence of a timer run.
type Metrics struct {
	Ticks        int             `json:"ticks"`
	Dropped      int64           `json:"dropped"`
	Missed       int             `json:"missed"`
	Resolution   time.Duration   `json:"resolution"`
	RunDuration  time.Duration   `json:"runDuration"`
	TicksPerSec  float64         `json:"ticksPerSec"`
	MeanInterval time.Duration   `json:"meanInterval"`
	Interval     DurationMetrics `json:"interval"`
	Lateness     DurationMetrics `json:"lateness"`
	Drift        time.Duration   `json:"drift"`
}

// ComputeMetrics computes cadence metrics from tick events. Pure function,
// no side effects. Events may arrive in any order; they are sorted by tick.
//
// A tick counts as missed when the gap to the previous observed tick index
// is more than one, which happens when events are dropped before reaching
// the collector.
func ComputeMetrics(events []core.TickEvent, resolution, runDuration time.Duration) *Metrics {
	m := &Metrics{
		Resolution:  resolution,
		RunDuration: runDuration,
	}

	if len(events) == 0 {
		return m
	}

	sorted := make([]core.TickEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Tick < sorted[j].Tick
	})

	m.Ticks = len(sorted)
	lateness := make([]time.Duration, 0, len(sorted))
	intervals := make([]time.Duration, 0, len(sorted))
	for i, e := range sorted {
		lateness = append(lateness, e.Lateness())
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if gap := e.Tick - prev.Tick; gap > 1 {
			m.Missed += int(gap - 1)
			continue
		}
		intervals = append(intervals, (e.Actual - prev.Actual).Duration())
	}

	first, last := sorted[0], sorted[len(sorted)-1]
	if last.Tick > first.Tick {
		m.MeanInterval = (last.Actual - first.Actual).Duration() / time.Duration(last.Tick-first.Tick)
	}
	if m.RunDuration > 0 {
		m.TicksPerSec = float64(m.Ticks) / m.RunDuration.Seconds()
	}

	m.Interval = ComputeDurationMetrics(intervals)
	m.Lateness = ComputeDurationMetrics(lateness)
	m.Drift = last.Lateness()

	return m
}
