//go:build linux

package core

import "testing"

// withClockSources swaps the preferred clock ids for the duration of a test.
func withClockSources(t *testing.T, ids ...int32) {
	t.Helper()
	saved := make([]struct {
		id     int32
		source Source
	}, len(clockSources))
	copy(saved, clockSources)
	t.Cleanup(func() { copy(clockSources, saved) })

	for i, id := range ids {
		clockSources[i].id = id
	}
}

func TestReadClock_Fallback(t *testing.T) {
	tests := []struct {
		name string
		ids  []int32
		want Source
	}{
		{"boottime unavailable", []int32{-99}, SourceMonotonic},
		{"boottime and monotonic unavailable", []int32{-99, -98}, SourceRealtime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withClockSources(t, tt.ids...)

			now, src := readClock()
			if src != tt.want {
				t.Errorf("source = %q, want %q", src, tt.want)
			}
			if now.Sec <= 0 {
				t.Errorf("expected a non-zero reading from %s, got %+v", tt.want, now)
			}
		})
	}
}

func TestMonotonicClock_SourceFollowsFallback(t *testing.T) {
	withClockSources(t, -99)

	var clock MonotonicClock
	clock.Now()
	if got := clock.Source(); got != SourceMonotonic {
		t.Errorf("Source() = %q, want %q", got, SourceMonotonic)
	}
}
