package stationbridge

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCallbackPublisherCopiesObservation(t *testing.T) {
	var got MappedObservation
	pub := NewCallbackPublisher("", func(_ context.Context, obs MappedObservation) error {
		got = obs
		return nil
	})
	if pub.Name() != "callback" {
		t.Fatalf("expected default name callback, got %s", pub.Name())
	}

	src := MappedObservation{"tempf": 70.0}
	if err := pub.Publish(context.Background(), src); err != nil {
		t.Fatalf("publish: %v", err)
	}
	src["tempf"] = 0.0
	if got["tempf"] != 70.0 {
		t.Fatalf("expected callback to receive a copy, got %v", got)
	}
}

func TestCallbackPublisherNilHandler(t *testing.T) {
	pub := NewCallbackPublisher("nil", nil)
	if err := pub.Publish(context.Background(), MappedObservation{}); err == nil {
		t.Fatalf("expected error for nil handler")
	}
}

func TestChannelPublisherDeliversAndCloses(t *testing.T) {
	pub, ch, closeFn := NewChannelPublisher("", 1)
	if pub.Name() != "channel" {
		t.Fatalf("expected default name channel, got %s", pub.Name())
	}

	if err := pub.Publish(context.Background(), MappedObservation{"humidity": 40.0}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	select {
	case obs := <-ch:
		if obs["humidity"] != 40.0 {
			t.Fatalf("unexpected observation %v", obs)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected observation on channel")
	}

	closeFn()
	closeFn()
	if err := pub.Publish(context.Background(), MappedObservation{}); !errors.Is(err, ErrChannelPublisherClosed) {
		t.Fatalf("expected ErrChannelPublisherClosed, got %v", err)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed")
	}
}

func TestChannelPublisherRespectsContext(t *testing.T) {
	pub, _, closeFn := NewChannelPublisher("blocked", 0)
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := pub.Publish(ctx, MappedObservation{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
