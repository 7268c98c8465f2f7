package pipeline

import (
	"context"
	"time"
)

// Scheduler fires a cycle immediately and then once per interval. Each
// firing gets its own goroutine, so a slow cycle never delays the next tick
// and cycles may overlap.
type Scheduler struct {
	interval time.Duration
	run      func(context.Context)
}

func NewScheduler(interval time.Duration, run func(context.Context)) *Scheduler {
	return &Scheduler{interval: interval, run: run}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	go s.run(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go s.run(ctx)
		}
	}
}
