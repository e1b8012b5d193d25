package collector

import (
	"testing"
	"time"
)

func sampleMetrics() *Metrics {
	return &Metrics{
		Ticks:        500,
		Resolution:   10 * time.Millisecond,
		RunDuration:  5 * time.Second,
		MeanInterval: 10*time.Millisecond + 40*time.Microsecond,
		Drift:        2 * time.Millisecond,
		Missed:       1,
		Lateness: DurationMetrics{
			Min: 0,
			Avg: 800 * time.Microsecond,
			P50: time.Millisecond,
			P90: time.Millisecond,
			P95: 2 * time.Millisecond,
			P99: 3 * time.Millisecond,
			Max: 9 * time.Millisecond,
		},
	}
}

func TestThresholds_NilPasses(t *testing.T) {
	var th *Thresholds
	r := th.Check(sampleMetrics())
	if !r.Passed || len(r.Results) != 0 {
		t.Errorf("nil thresholds should pass with no results, got %+v", r)
	}
}

func TestThresholds_Check(t *testing.T) {
	zero, two := 0, 2

	tests := []struct {
		name       string
		thresholds Thresholds
		passed     bool
		results    int
	}{
		{
			name:       "lateness within limits",
			thresholds: Thresholds{Lateness: &DurationThresholds{P99: 5 * time.Millisecond, Max: 10 * time.Millisecond}},
			passed:     true,
			results:    2,
		},
		{
			name:       "lateness max exceeded",
			thresholds: Thresholds{Lateness: &DurationThresholds{Max: 5 * time.Millisecond}},
			passed:     false,
			results:    1,
		},
		{
			name:       "threshold equal to actual passes",
			thresholds: Thresholds{Lateness: &DurationThresholds{P99: 3 * time.Millisecond}},
			passed:     true,
			results:    1,
		},
		{
			name:       "drift exceeded",
			thresholds: Thresholds{Drift: time.Millisecond},
			passed:     false,
			results:    1,
		},
		{
			name:       "mean deviation within limit",
			thresholds: Thresholds{Interval: &IntervalThresholds{MeanDeviation: 100 * time.Microsecond}},
			passed:     true,
			results:    1,
		},
		{
			name:       "missed ticks",
			thresholds: Thresholds{Missed: &zero},
			passed:     false,
			results:    1,
		},
		{
			name:       "missed ticks allowed",
			thresholds: Thresholds{Missed: &two, Drift: 5 * time.Millisecond},
			passed:     true,
			results:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.thresholds.Check(sampleMetrics())
			if r.Passed != tt.passed {
				t.Errorf("Passed = %v, expected %v (%+v)", r.Passed, tt.passed, r.Results)
			}
			if len(r.Results) != tt.results {
				t.Errorf("expected %d results, got %d", tt.results, len(r.Results))
			}
			if tt.passed && len(r.Violations()) != 0 {
				t.Errorf("expected no violations, got %+v", r.Violations())
			}
		})
	}
}

func TestThresholds_NegativeMeanDeviation(t *testing.T) {
	m := sampleMetrics()
	m.MeanInterval = 9 * time.Millisecond

	th := Thresholds{Interval: &IntervalThresholds{MeanDeviation: 500 * time.Microsecond}}
	r := th.Check(m)
	if r.Passed {
		t.Error("a 1ms short mean interval should violate a 500µs deviation limit")
	}
	if r.Results[0].Actual != "1ms" {
		t.Errorf("expected actual 1ms, got %s", r.Results[0].Actual)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{500 * time.Microsecond, "500µs"},
		{12 * time.Millisecond, "12ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
		{-2 * time.Millisecond, "-2ms"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.expected {
			t.Errorf("FormatDuration(%v) = %q, expected %q", tt.d, got, tt.expected)
		}
	}
}
