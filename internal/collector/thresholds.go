package collector

import (
	"fmt"
	"time"
)

// Thresholds defines pass/fail criteria for a timer run.
type Thresholds struct {
	Lateness *DurationThresholds `yaml:"lateness"`
	Interval *IntervalThresholds `yaml:"interval"`
	Drift    time.Duration       `yaml:"drift"`
	Missed   *int                `yaml:"missed"`
}

// DurationThresholds defines upper limits on a distribution.
type DurationThresholds struct {
	Avg time.Duration `yaml:"avg"`
	P50 time.Duration `yaml:"p50"`
	P90 time.Duration `yaml:"p90"`
	P95 time.Duration `yaml:"p95"`
	P99 time.Duration `yaml:"p99"`
	Max time.Duration `yaml:"max"`
}

// IntervalThresholds bounds how far the mean interval between ticks may
// stray from the resolution.
type IntervalThresholds struct {
	MeanDeviation time.Duration `yaml:"meanDeviation"`
}

// ThresholdResult represents the outcome of a single threshold check.
type ThresholdResult struct {
	Name      string `json:"name"`
	Passed    bool   `json:"passed"`
	Threshold string `json:"threshold"`
	Actual    string `json:"actual"`
}

// ThresholdResults contains all threshold check results.
type ThresholdResults struct {
	Passed  bool              `json:"passed"`
	Results []ThresholdResult `json:"results"`
}

// Check evaluates all thresholds against computed metrics.
func (t *Thresholds) Check(m *Metrics) *ThresholdResults {
	if t == nil {
		return &ThresholdResults{Passed: true, Results: nil}
	}

	results := &ThresholdResults{
		Passed:  true,
		Results: make([]ThresholdResult, 0),
	}

	if t.Lateness != nil {
		results.checkDurationThresholds("lateness", t.Lateness, &m.Lateness)
	}

	if t.Interval != nil && t.Interval.MeanDeviation > 0 {
		deviation := m.MeanInterval - m.Resolution
		if deviation < 0 {
			deviation = -deviation
		}
		results.add("interval.meanDeviation", deviation <= t.Interval.MeanDeviation,
			FormatDuration(t.Interval.MeanDeviation), FormatDuration(deviation))
	}

	if t.Drift > 0 {
		results.add("drift", m.Drift <= t.Drift, FormatDuration(t.Drift), FormatDuration(m.Drift))
	}

	if t.Missed != nil {
		results.add("missed", m.Missed <= *t.Missed, fmt.Sprintf("%d", *t.Missed), fmt.Sprintf("%d", m.Missed))
	}

	return results
}

func (r *ThresholdResults) add(name string, passed bool, threshold, actual string) {
	if !passed {
		r.Passed = false
	}
	r.Results = append(r.Results, ThresholdResult{
		Name:      name,
		Passed:    passed,
		Threshold: threshold,
		Actual:    actual,
	})
}

func (r *ThresholdResults) checkDurationThresholds(prefix string, thresholds *DurationThresholds, actual *DurationMetrics) {
	checks := []struct {
		name      string
		threshold time.Duration
		actual    time.Duration
	}{
		{prefix + ".avg", thresholds.Avg, actual.Avg},
		{prefix + ".p50", thresholds.P50, actual.P50},
		{prefix + ".p90", thresholds.P90, actual.P90},
		{prefix + ".p95", thresholds.P95, actual.P95},
		{prefix + ".p99", thresholds.P99, actual.P99},
		{prefix + ".max", thresholds.Max, actual.Max},
	}

	for _, check := range checks {
		if check.threshold == 0 {
			continue
		}
		r.add(check.name, check.actual <= check.threshold,
			FormatDuration(check.threshold), FormatDuration(check.actual))
	}
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "-" + FormatDuration(-d)
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// Violations returns only the failed threshold results.
func (r *ThresholdResults) Violations() []ThresholdResult {
	violations := make([]ThresholdResult, 0)
	for _, result := range r.Results {
		if !result.Passed {
			violations = append(violations, result)
		}
	}
	return violations
}
