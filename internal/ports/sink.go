package ports

import (
	"context"

	"github.com/ghalamif/stationbridge/internal/domain"
)

// ObservationPublisher submits a mapped observation to the downstream provider.
type ObservationPublisher interface {
	Publish(ctx context.Context, obs domain.MappedObservation) error
	Name() string
}
