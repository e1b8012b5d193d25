package ratelimit

import "testing"

func TestSampler_Burst(t *testing.T) {
	s := NewSampler(5)

	allowed := 0
	for i := 0; i < 20; i++ {
		if s.Allow() {
			allowed++
		}
	}

	// Only the burst fits in a tight loop.
	if allowed < 5 || allowed > 6 {
		t.Errorf("expected about 5 allowed events, got %d", allowed)
	}
	if got := s.Suppressed(); got != int64(20-allowed) {
		t.Errorf("Suppressed() = %d, expected %d", got, 20-allowed)
	}
	if got := s.Suppressed(); got != 0 {
		t.Errorf("Suppressed() must reset, got %d", got)
	}
}

func TestSampler_ZeroRateAllowsAll(t *testing.T) {
	s := NewSampler(0)
	for i := 0; i < 1000; i++ {
		if !s.Allow() {
			t.Fatalf("event %d rejected with unlimited rate", i)
		}
	}
}

func TestSampler_SetRate(t *testing.T) {
	s := NewSampler(1)
	s.Allow()
	if s.Allow() {
		t.Error("second event in the same second should be rejected at 1/s")
	}

	s.SetRate(0)
	if !s.Allow() {
		t.Error("unlimited rate should allow events")
	}
}

func TestSampler_SetRateStartsWithFullBurst(t *testing.T) {
	s := NewSampler(0)
	s.SetRate(2)

	allowed := 0
	for i := 0; i < 10; i++ {
		if s.Allow() {
			allowed++
		}
	}
	if allowed < 2 || allowed > 3 {
		t.Errorf("expected the new burst of 2 to be allowed, got %d", allowed)
	}
}

func TestSampler_SetRateConcurrentWithAllow(t *testing.T) {
	s := NewSampler(1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			s.Allow()
		}
	}()
	for i := 0; i < 100; i++ {
		s.SetRate(i % 3)
	}
	<-done
}

func TestSampler_Nil(t *testing.T) {
	var s *Sampler
	if s.Allow() {
		t.Error("nil sampler should drop events")
	}
	s.SetRate(10)
	if s.Suppressed() != 0 {
		t.Error("nil sampler has nothing suppressed")
	}
}
