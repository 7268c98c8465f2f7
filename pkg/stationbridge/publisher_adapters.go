package stationbridge

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
)

// ErrChannelPublisherClosed is returned when a channel publisher is written to after being closed.
var ErrChannelPublisherClosed = errors.New("stationbridge: channel publisher closed")

// PublishFunc handles one mapped observation.
type PublishFunc func(ctx context.Context, obs MappedObservation) error

// NewCallbackPublisher adapts a PublishFunc into an ObservationPublisher so callers
// can plug arbitrary functions without defining structs.
func NewCallbackPublisher(name string, fn PublishFunc) ObservationPublisher {
	if name == "" {
		name = "callback"
	}
	return &callbackPublisher{name: name, fn: fn}
}

// NewChannelPublisher exposes observations via a channel; it returns the publisher,
// the read-only channel, and a close function that the caller should invoke during shutdown.
func NewChannelPublisher(name string, buffer int) (ObservationPublisher, <-chan MappedObservation, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan MappedObservation, buffer)
	p := &channelPublisher{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return p, ch, func() { p.close() }
}

type callbackPublisher struct {
	name string
	fn   PublishFunc
}

func (p *callbackPublisher) Publish(ctx context.Context, obs MappedObservation) error {
	if p.fn == nil {
		return fmt.Errorf("callback publisher %q: nil handler", p.name)
	}
	return p.fn(ctx, maps.Clone(obs))
}

func (p *callbackPublisher) Name() string { return p.name }

type channelPublisher struct {
	name   string
	ch     chan MappedObservation
	closed chan struct{}
	mu     sync.RWMutex
	once   sync.Once
}

func (p *channelPublisher) Publish(ctx context.Context, obs MappedObservation) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	select {
	case <-p.closed:
		return ErrChannelPublisherClosed
	default:
	}

	select {
	case <-p.closed:
		return ErrChannelPublisherClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.ch <- maps.Clone(obs):
		return nil
	}
}

func (p *channelPublisher) Name() string { return p.name }

func (p *channelPublisher) close() {
	p.once.Do(func() {
		close(p.closed)
		p.mu.Lock()
		close(p.ch)
		p.mu.Unlock()
	})
}
