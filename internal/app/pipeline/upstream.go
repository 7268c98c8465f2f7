package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ghalamif/stationbridge/internal/domain"
	"github.com/ghalamif/stationbridge/internal/ports"
)

// Upstream instruments a StationFetcher: one latency sample and one request
// count per call, tagged with the outcome.
type Upstream struct {
	fetcher ports.StationFetcher
	obs     ports.Observability
}

func NewUpstream(f ports.StationFetcher, obs ports.Observability) *Upstream {
	return &Upstream{fetcher: f, obs: obs}
}

func (u *Upstream) FetchCurrent(ctx context.Context, stationID string) (*domain.Envelope, error) {
	start := time.Now()
	env, err := u.fetcher.FetchCurrent(ctx, stationID)

	status := ports.StatusLabel(err)
	u.obs.ObserveLatency(ports.MetricUpstreamLatency, time.Since(start).Seconds(), status)
	u.obs.IncCounter(ports.MetricUpstreamRequests, status)

	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve weatherlink station %s sensor information: %w", domain.ErrUpstreamFetch, stationID, err)
	}
	return env, nil
}
