package porttime

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
)

func TestDefaultTimer_Lifecycle(t *testing.T) {
	defer leaktest.Check(t)()

	if Started() {
		t.Fatal("process-wide timer must start idle")
	}

	var calls atomic.Int64
	if err := Start(2, func(Timestamp, any) { calls.Add(1) }, nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !Started() {
		t.Error("expected Started() after Start")
	}
	if now := Time(); now < 0 || now > 5 {
		t.Errorf("Time() right after Start = %d, expected within [0, 5]", now)
	}

	Sleep(30)
	if err := Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if Started() {
		t.Error("expected !Started() after Stop")
	}

	after := calls.Load()
	if after == 0 {
		t.Error("callback never invoked")
	}
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != after {
		t.Error("callback invoked after Stop returned")
	}
}

func TestDefaultTimer_RestartResetsEpoch(t *testing.T) {
	defer leaktest.Check(t)()

	for i := 0; i < 5; i++ {
		if err := Start(10, nil, nil); err != nil {
			t.Fatalf("cycle %d: Start failed: %v", i, err)
		}
		if now := Time(); now > 5 {
			t.Errorf("cycle %d: Time() = %d right after Start", i, now)
		}
		Sleep(10)
		if err := Stop(); err != nil {
			t.Fatalf("cycle %d: Stop failed: %v", i, err)
		}
	}
}

func TestStart_InvalidResolution(t *testing.T) {
	err := Start(0, nil, nil)
	if !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("Start(0) error = %v, expected ErrInvalidResolution", err)
	}
	if Started() {
		t.Error("invalid Start must not start the timer")
	}
}

func TestNew_IndependentTimers(t *testing.T) {
	defer leaktest.Check(t)()

	a, err := New(WithPriorityBoost(false))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, err := New(WithPriorityBoost(false))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a.Start(1, nil, nil)
	Sleep(15)
	b.Start(1, nil, nil)

	if a.Time() <= b.Time() {
		t.Errorf("timers share an epoch: a=%d b=%d", a.Time(), b.Time())
	}
	a.Stop()
	if !b.Started() {
		t.Error("stopping one timer must not stop another")
	}
	b.Stop()
}
