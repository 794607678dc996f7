// Package scheduler drives periodic collection and report processing.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/craftwatch/craftwatch/internal/model"
)

// Config holds the scheduler cadence. A zero Interval disables the loop.
type Config struct {
	Interval    time.Duration
	WindowHours int
}

// Scheduler periodically triggers the collector and regenerates the latest
// report. Processing failures are logged and retried on the next tick; the
// previous report artifact stays in place.
type Scheduler struct {
	trigger     model.CollectTrigger
	analyzer    model.Analyzer
	sink        model.ReportSink
	interval    time.Duration
	windowHours int
	done        chan struct{}
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

// New creates a scheduler. Returns nil when the interval is zero (disabled),
// mirroring how optional background loops are wired elsewhere.
func New(trigger model.CollectTrigger, analyzer model.Analyzer, sink model.ReportSink, cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		return nil
	}
	windowHours := cfg.WindowHours
	if windowHours <= 0 {
		windowHours = model.DefaultWindowHours
	}

	s := &Scheduler{
		trigger:     trigger,
		analyzer:    analyzer,
		sink:        sink,
		interval:    cfg.Interval,
		windowHours: windowHours,
		done:        make(chan struct{}),
	}

	s.wg.Add(1)
	go s.tickLoop()

	return s
}

func (s *Scheduler) tickLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-s.done:
			return
		}
	}
}

// runOnce performs one collect-then-process cycle. A collection failure does
// not block processing: the engine still reports over the samples it has.
func (s *Scheduler) runOnce() {
	if s.trigger != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		if err := s.trigger.Collect(ctx); err != nil {
			log.Printf("scheduler: collect: %v", err)
		}
		cancel()
	}

	report, err := s.analyzer.Report(s.windowHours)
	if err != nil {
		log.Printf("scheduler: process: %v", err)
		return
	}
	if s.sink != nil {
		if err := s.sink.Write(report); err != nil {
			log.Printf("scheduler: persist report: %v", err)
		}
	}
}

// Stop signals the scheduler to stop and waits for the loop to exit.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}
