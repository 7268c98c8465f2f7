package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ghalamif/stationbridge/internal/ports"
)

func TestSchedulerRunsImmediately(t *testing.T) {
	fired := make(chan struct{}, 1)
	s := NewScheduler(time.Hour, func(context.Context) {
		fired <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("expected a cycle before the first tick")
	}
}

func TestSchedulerKeepsFiringAfterFailedCycles(t *testing.T) {
	obs := newRecordingObs()
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	pub := &stubPublisher{}
	c := newTestCycle(fetcher, pub, obs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewScheduler(10*time.Millisecond, func(ctx context.Context) { c.Run(ctx) }).Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for obs.count(ports.MetricUpdates, ports.StatusFailed) < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 failed cycles, got %d", obs.count(ports.MetricUpdates, ports.StatusFailed))
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("scheduler did not stop after cancel")
	}
	if pub.calls.Load() != 0 {
		t.Fatalf("expected publish never invoked, got %d", pub.calls.Load())
	}
}

func TestSchedulerAllowsOverlappingCycles(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	release := make(chan struct{})

	s := NewScheduler(5*time.Millisecond, func(ctx context.Context) {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		select {
		case <-release:
		case <-ctx.Done():
		}
		inFlight.Add(-1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	deadline := time.After(2 * time.Second)
	for maxInFlight.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected overlapping cycles, max in flight %d", maxInFlight.Load())
		case <-time.After(2 * time.Millisecond):
		}
	}
	close(release)
}
