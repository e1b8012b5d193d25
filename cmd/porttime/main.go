// Command porttime runs the periodic timer for a while and reports how
// closely its callbacks followed the tick schedule.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"porttime/internal/collector"
	"porttime/internal/config"
	"porttime/internal/core"
	"porttime/internal/logging"
	"porttime/internal/metrics"
	"porttime/internal/progress"
	"porttime/internal/ratelimit"
	"porttime/internal/timer"
)

const (
	ExitSuccess         = 0
	ExitThresholdFailed = 1
	ExitError           = 2
)

type options struct {
	configPath    string
	resolution    int
	duration      time.Duration
	output        string
	quiet         bool
	verbose       bool
	metricsListen string
	noPriority    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to YAML config file")
	flag.IntVar(&opts.resolution, "resolution", 0, "tick resolution in milliseconds (overrides config)")
	flag.DurationVar(&opts.duration, "duration", 0, "run duration (overrides config)")
	flag.StringVar(&opts.output, "output", "text", "output format: text, json")
	flag.BoolVar(&opts.quiet, "quiet", false, "suppress progress output during the run")
	flag.BoolVar(&opts.verbose, "verbose", false, "enable debug logging, including sampled per-tick records")
	flag.StringVar(&opts.metricsListen, "metrics-listen", "", "address to serve prometheus metrics on (overrides config)")
	flag.BoolVar(&opts.noPriority, "no-priority", false, "do not try to raise the timer thread priority")
	flag.Parse()

	os.Exit(run(opts, os.Stdout, os.Stderr))
}

func run(opts options, stdout, stderr io.Writer) int {
	if opts.output != "text" && opts.output != "json" {
		fmt.Fprintf(stderr, "error: --output must be 'text' or 'json', got %q\n", opts.output)
		return ExitError
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}
	if opts.verbose {
		level = logrus.DebugLevel
	}
	logger := logging.New(stderr, level)

	m := metrics.New()
	if cfg.Metrics.Listen != "" {
		srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Error("metrics server failed")
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		logger.WithField("address", cfg.Metrics.Listen).Info("serving metrics")
	}

	clock := &core.MonotonicClock{}
	tm, err := timer.New(
		timer.WithClock(clock),
		timer.WithLogger(logger),
		timer.WithObserver(m),
		timer.WithPriorityBoost(cfg.Timer.PriorityBoost),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			if !opts.quiet {
				fmt.Fprintln(stderr, "\nReceived interrupt signal, shutting down...")
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	prog := progress.NewProgress(nil, opts.quiet)
	prog.SetOutput(stderr)
	prog.Printf("PortTime starting: %d phase(s), total duration %v", len(cfg.Sessions()), cfg.TotalDuration())
	prog.Start()

	sampler := ratelimit.NewSampler(cfg.Log.TickSample)
	results, err := runPhases(ctx, tm, cfg, prog, sampler, logger)
	prog.Stop()
	logger.WithField("source", clock.Source()).Debug("clock source")
	if n := sampler.Suppressed(); n > 0 {
		logger.WithField("suppressed", n).Debug("tick records suppressed")
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}

	passed := true
	for _, r := range results {
		var thresholdResults *collector.ThresholdResults
		if cfg.Thresholds != nil {
			thresholdResults = cfg.Thresholds.Check(r.metrics)
			passed = passed && thresholdResults.Passed
		}
		if opts.output == "json" {
			collector.FormatJSON(stdout, r.metrics, thresholdResults)
		} else {
			if len(results) > 1 {
				fmt.Fprintf(stdout, "\nPhase: %s\n", r.phase.Name)
			}
			collector.FormatText(stdout, r.metrics, thresholdResults)
		}
	}

	if ctx.Err() != nil {
		return ExitSuccess // partial results are fine on interrupt
	}
	if !passed {
		if opts.output == "text" {
			fmt.Fprintln(stderr, "\nThreshold check failed!")
		}
		return ExitThresholdFailed
	}
	return ExitSuccess
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
	}
	if opts.resolution != 0 {
		cfg.Timer.Resolution = opts.resolution
		cfg.Phases = nil
	}
	if opts.duration != 0 {
		cfg.Timer.Duration = opts.duration
		cfg.Phases = nil
	}
	if opts.metricsListen != "" {
		cfg.Metrics.Listen = opts.metricsListen
	}
	if opts.noPriority {
		cfg.Timer.PriorityBoost = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
