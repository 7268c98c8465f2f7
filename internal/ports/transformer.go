package ports

import "github.com/ghalamif/stationbridge/internal/domain"

type Transformer interface {
	Transform(env *domain.Envelope) (domain.MappedObservation, error)
}
