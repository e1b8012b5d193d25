// Package progress prints a live one-line status of a running timer.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"porttime/internal/collector"
)

// Source supplies the metrics shown on the status line.
type Source interface {
	Compute() *collector.Metrics
}

type Progress struct {
	startTime time.Time
	source    Source
	phase     string
	interval  time.Duration
	ticker    *time.Ticker
	stopCh    chan struct{}
	done      chan struct{}
	stopped   atomic.Bool
	quiet     bool
	output    io.Writer
	mu        sync.Mutex
}

func NewProgress(source Source, quiet bool) *Progress {
	return &Progress{
		source:   source,
		quiet:    quiet,
		interval: time.Second,
		output:   os.Stderr,
	}
}

func (p *Progress) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = w
}

// SetInterval changes the refresh period. It must be called before Start.
func (p *Progress) SetInterval(d time.Duration) {
	p.interval = d
}

// SetSource switches the status line to another phase's metrics.
func (p *Progress) SetSource(phase string, source Source) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = phase
	p.source = source
}

func (p *Progress) Start() {
	if p.quiet {
		return
	}
	p.startTime = time.Now()
	p.stopCh = make(chan struct{})
	p.done = make(chan struct{})
	p.ticker = time.NewTicker(p.interval)
	go p.run()
}

func (p *Progress) run() {
	defer close(p.done)
	for {
		select {
		case <-p.stopCh:
			return
		case <-p.ticker.C:
			p.printProgress()
		}
	}
}

func (p *Progress) printProgress() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source == nil {
		return
	}
	m := p.source.Compute()
	elapsed := time.Since(p.startTime).Round(time.Second)
	mins := int(elapsed.Minutes())
	secs := int(elapsed.Seconds()) % 60
	phase := ""
	if p.phase != "" {
		phase = p.phase + " | "
	}
	fmt.Fprintf(p.output, "\033[K[%02d:%02d] %sTicks: %d | Late p99: %s max: %s | Drift: %s\r",
		mins, secs, phase, m.Ticks,
		collector.FormatDuration(m.Lateness.P99),
		collector.FormatDuration(m.Lateness.Max),
		collector.FormatDuration(m.Drift))
}

// Stop halts the status line and waits for the refresh goroutine to exit.
func (p *Progress) Stop() {
	if p.quiet || p.stopped.Swap(true) {
		return
	}
	if p.ticker != nil {
		p.ticker.Stop()
	}
	if p.stopCh != nil {
		close(p.stopCh)
		<-p.done
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\033[K")
	p.mu.Unlock()
}

func (p *Progress) Print(message string) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\033[K%s\n", message)
	p.mu.Unlock()
}

func (p *Progress) Printf(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	fmt.Fprintf(p.output, "\033[K"+format+"\n", args...)
	p.mu.Unlock()
}
