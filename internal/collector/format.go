package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// FormatText writes metrics in human-readable format.
func FormatText(w io.Writer, m *Metrics, thresholds *ThresholdResults) {
	if m.Ticks == 0 {
		fmt.Fprintln(w, "No ticks collected")
		return
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "PortTime - Timer Cadence Results")
	fmt.Fprintln(w, "================================")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Duration:      %v\n", m.RunDuration.Round(time.Millisecond))
	fmt.Fprintf(w, "Resolution:    %s\n", FormatDuration(m.Resolution))
	fmt.Fprintf(w, "Ticks:         %s (%.1f/s)\n", formatNumber(m.Ticks), m.TicksPerSec)
	if m.Dropped > 0 || m.Missed > 0 {
		fmt.Fprintf(w, "Missed:        %d (dropped %d)\n", m.Missed, m.Dropped)
	}
	fmt.Fprintf(w, "Mean interval: %s\n", formatPrecise(m.MeanInterval))
	fmt.Fprintf(w, "Drift:         %s\n", FormatDuration(m.Drift))
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Interval:")
	writeDistribution(w, m.Interval)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Lateness:")
	writeDistribution(w, m.Lateness)

	if thresholds != nil && len(thresholds.Results) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Thresholds:")
		for _, result := range thresholds.Results {
			symbol := "✓"
			if !result.Passed {
				symbol = "✗"
			}
			fmt.Fprintf(w, "  %s %s <= %s (actual: %s)\n",
				symbol, result.Name, result.Threshold, result.Actual)
		}
	}
}

func writeDistribution(w io.Writer, d DurationMetrics) {
	fmt.Fprintf(w, "  Min:    %s\n", FormatDuration(d.Min))
	fmt.Fprintf(w, "  Avg:    %s\n", FormatDuration(d.Avg))
	fmt.Fprintf(w, "  P50:    %s\n", FormatDuration(d.P50))
	fmt.Fprintf(w, "  P90:    %s\n", FormatDuration(d.P90))
	fmt.Fprintf(w, "  P99:    %s\n", FormatDuration(d.P99))
	fmt.Fprintf(w, "  Max:    %s\n", FormatDuration(d.Max))
}

// FormatJSON writes metrics in JSON format.
func FormatJSON(w io.Writer, m *Metrics, thresholds *ThresholdResults) {
	output := struct {
		Duration     string              `json:"duration"`
		Resolution   string              `json:"resolution"`
		Ticks        int                 `json:"ticks"`
		Missed       int                 `json:"missed"`
		Dropped      int64               `json:"dropped"`
		TicksPerSec  float64             `json:"ticksPerSec"`
		MeanInterval string              `json:"meanInterval"`
		Drift        string              `json:"drift"`
		Interval     jsonDurationMetrics `json:"interval"`
		Lateness     jsonDurationMetrics `json:"lateness"`
		Thresholds   *ThresholdResults   `json:"thresholds,omitempty"`
	}{
		Duration:     m.RunDuration.Round(time.Millisecond).String(),
		Resolution:   FormatDuration(m.Resolution),
		Ticks:        m.Ticks,
		Missed:       m.Missed,
		Dropped:      m.Dropped,
		TicksPerSec:  m.TicksPerSec,
		MeanInterval: formatPrecise(m.MeanInterval),
		Drift:        FormatDuration(m.Drift),
		Interval:     toJSONDurationMetrics(m.Interval),
		Lateness:     toJSONDurationMetrics(m.Lateness),
		Thresholds:   thresholds,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(output) // stdout errors are unrecoverable
}

type jsonDurationMetrics struct {
	Min string `json:"min"`
	Max string `json:"max"`
	Avg string `json:"avg"`
	P50 string `json:"p50"`
	P90 string `json:"p90"`
	P95 string `json:"p95"`
	P99 string `json:"p99"`
}

func toJSONDurationMetrics(d DurationMetrics) jsonDurationMetrics {
	return jsonDurationMetrics{
		Min: FormatDuration(d.Min),
		Max: FormatDuration(d.Max),
		Avg: FormatDuration(d.Avg),
		P50: FormatDuration(d.P50),
		P90: FormatDuration(d.P90),
		P95: FormatDuration(d.P95),
		P99: FormatDuration(d.P99),
	}
}

// formatPrecise keeps sub-millisecond digits, which matter for the mean
// interval of a millisecond timer.
func formatPrecise(d time.Duration) string {
	return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatNumber(n/1000) + fmt.Sprintf(",%03d", n%1000)
}
