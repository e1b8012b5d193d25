// Package ratelimit throttles per-tick diagnostics so that a fast timer
// cannot flood its log output.
package ratelimit

import (
	"sync/atomic"

	"golang.org/x/time/rate"
)

// Sampler lets through at most perSecond events per second, with a burst of
// the same size. A rate of 0 lets everything through. A nil Sampler drops
// everything.
type Sampler struct {
	limiter    atomic.Pointer[rate.Limiter]
	suppressed atomic.Int64
}

func NewSampler(perSecond int) *Sampler {
	s := &Sampler{}
	s.limiter.Store(newLimiter(perSecond))
	return s
}

func newLimiter(perSecond int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), perSecond)
}

// Allow reports whether an event may be emitted now.
func (s *Sampler) Allow() bool {
	if s == nil {
		return false
	}
	if s.limiter.Load().Allow() {
		return true
	}
	s.suppressed.Add(1)
	return false
}

// Suppressed returns the number of events rejected since the previous call.
func (s *Sampler) Suppressed() int64 {
	if s == nil {
		return 0
	}
	return s.suppressed.Swap(0)
}

// SetRate replaces the limit with perSecond events per second, starting
// from a full burst. A rate of 0 lets everything through.
func (s *Sampler) SetRate(perSecond int) {
	if s == nil {
		return
	}
	s.limiter.Store(newLimiter(perSecond))
}
