package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ghalamif/stationbridge/internal/domain"
	"github.com/ghalamif/stationbridge/internal/ports"
)

// Downstream instruments an ObservationPublisher the same way Upstream
// instruments the fetcher.
type Downstream struct {
	publisher ports.ObservationPublisher
	obs       ports.Observability
}

func NewDownstream(p ports.ObservationPublisher, obs ports.Observability) *Downstream {
	return &Downstream{publisher: p, obs: obs}
}

func (d *Downstream) Publish(ctx context.Context, mapped domain.MappedObservation) error {
	start := time.Now()
	err := d.publisher.Publish(ctx, mapped)

	status := ports.StatusLabel(err)
	d.obs.ObserveLatency(ports.MetricDownstreamLatency, time.Since(start).Seconds(), status)
	d.obs.IncCounter(ports.MetricDownstreamRequests, status)

	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrDownstreamPublish, d.publisher.Name(), err)
	}
	return nil
}
