package ports

import (
	"context"

	"github.com/ghalamif/stationbridge/internal/domain"
)

// StationFetcher retrieves the current conditions envelope for a station.
type StationFetcher interface {
	FetchCurrent(ctx context.Context, stationID string) (*domain.Envelope, error)
}
