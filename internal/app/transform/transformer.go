// Package transform turns a WeatherLink envelope into a Weather Underground
// observation and records what it saw along the way.
package transform

import (
	"fmt"

	"github.com/ghalamif/stationbridge/internal/app/mapping"
	"github.com/ghalamif/stationbridge/internal/domain"
	"github.com/ghalamif/stationbridge/internal/ports"
)

type Transformer struct {
	table *mapping.Table
	obs   ports.Observability
}

func New(table *mapping.Table, obs ports.Observability) *Transformer {
	return &Transformer{table: table, obs: obs}
}

// Transform remaps the first data record of the first sensor group. Gauges
// for raw and mapped values are set before returning, whatever happens to
// the observation afterwards.
func (t *Transformer) Transform(env *domain.Envelope) (domain.MappedObservation, error) {
	raw, err := currentRecord(env)
	if err != nil {
		return nil, err
	}

	for key, v := range raw {
		if f, ok := domain.Numeric(v); ok {
			t.obs.SetGauge(ports.MetricUpstreamObservation, f, ports.Label{Name: "name", Value: key})
		}
	}

	mapped := t.table.Remap(raw)
	for key, v := range mapped {
		if f, ok := domain.Numeric(v); ok {
			t.obs.SetGauge(ports.MetricDownstreamObservation, f, ports.Label{Name: "name", Value: key})
		}
	}
	return mapped, nil
}

func currentRecord(env *domain.Envelope) (domain.RawObservation, error) {
	if env == nil || len(env.Sensors) == 0 {
		return nil, fmt.Errorf("%w: weatherlink station sensor information invalid", domain.ErrMalformedInput)
	}
	data := env.Sensors[0].Data
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: weatherlink station contains no sensors", domain.ErrMalformedInput)
	}
	if len(data[0]) == 0 {
		return nil, fmt.Errorf("%w: weatherlink sensor record is empty", domain.ErrMalformedInput)
	}
	return data[0], nil
}

var _ ports.Transformer = (*Transformer)(nil)
