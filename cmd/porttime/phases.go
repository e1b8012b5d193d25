package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"porttime/internal/collector"
	"porttime/internal/config"
	"porttime/internal/core"
	"porttime/internal/progress"
	"porttime/internal/ratelimit"
	"porttime/internal/timer"
)

type phaseResult struct {
	phase   config.Phase
	metrics *collector.Metrics
}

// tickState is the user data of a running phase. It is only touched by the
// timer goroutine between Start and Stop.
type tickState struct {
	tick       int64
	resolution int64
	reporter   core.Reporter
	sampler    *ratelimit.Sampler
	log        logrus.FieldLogger
}

func onTick(ts core.Timestamp, userData any) {
	s := userData.(*tickState)
	s.tick++
	e := core.TickEvent{
		Tick:      s.tick,
		Scheduled: core.Timestamp(s.tick * s.resolution),
		Actual:    ts,
	}
	s.reporter.Report(e)
	if s.sampler.Allow() {
		s.log.WithFields(logrus.Fields{
			"tick":     e.Tick,
			"time_ms":  int64(e.Actual),
			"lateness": e.Lateness(),
		}).Debug("tick")
	}
}

// runPhases runs each phase as its own start/stop session of tm. An
// interrupted context ends the current phase early and skips the rest.
func runPhases(ctx context.Context, tm *timer.Context, cfg *config.Config, prog *progress.Progress, sampler *ratelimit.Sampler, log logrus.FieldLogger) ([]phaseResult, error) {
	phases := cfg.Sessions()
	results := make([]phaseResult, 0, len(phases))
	for _, phase := range phases {
		if ctx.Err() != nil {
			break
		}
		prog.Printf("Phase: %s (resolution: %dms, duration: %v)", phase.Name, phase.Resolution, phase.Duration)
		sampler.SetRate(cfg.TickSample(phase))

		coll := collector.NewCollector(time.Duration(phase.Resolution) * time.Millisecond)
		prog.SetSource(phase.Name, coll)
		state := &tickState{
			resolution: int64(phase.Resolution),
			reporter:   coll,
			sampler:    sampler,
			log:        log.WithField("phase", phase.Name),
		}

		if err := tm.Start(phase.Resolution, onTick, state); err != nil {
			coll.Close()
			return results, fmt.Errorf("starting phase %s: %w", phase.Name, err)
		}
		if err := waitPhase(ctx, phase.Duration); err != nil {
			prog.Print("Phase interrupted, reporting partial results")
		}
		if err := tm.Stop(); err != nil {
			coll.Close()
			return results, fmt.Errorf("stopping phase %s: %w", phase.Name, err)
		}
		coll.Close()
		log.WithFields(logrus.Fields{
			"phase":   phase.Name,
			"ticks":   coll.Count(),
			"dropped": coll.Dropped(),
		}).Debug("phase finished")

		results = append(results, phaseResult{phase: phase, metrics: coll.Compute()})
	}
	return results, nil
}

// waitPhase blocks for d or until ctx is done, returning ctx's error in the
// latter case.
func waitPhase(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
