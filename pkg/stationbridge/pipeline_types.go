package stationbridge

import (
	"github.com/ghalamif/stationbridge/internal/app/pipeline"
	"github.com/ghalamif/stationbridge/internal/domain"
	"github.com/ghalamif/stationbridge/internal/ports"
)

// Envelope is the current-conditions payload returned by a StationFetcher.
type Envelope = domain.Envelope

// SensorGroup is one sensor suite inside an Envelope.
type SensorGroup = domain.SensorGroup

// RawObservation is one station data record keyed by provider field names.
type RawObservation = domain.RawObservation

// MappedObservation is a RawObservation re-keyed for the publishing provider.
type MappedObservation = domain.MappedObservation

// StationFetcher retrieves current conditions for a station (WeatherLink by default).
type StationFetcher = ports.StationFetcher

// ObservationPublisher forwards mapped observations (Weather Underground by default).
type ObservationPublisher = ports.ObservationPublisher

// Transformer turns an Envelope into a MappedObservation.
type Transformer = ports.Transformer

// Observability emits logs and metrics about every cycle.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

// Label is a metric label used by Observability implementations.
type Label = ports.Label

// CycleState is the terminal state returned by a collection cycle.
type CycleState = pipeline.State

const (
	CycleSucceeded = pipeline.StateSucceeded
	CycleFailed    = pipeline.StateFailed
)

// Error kinds. Match with errors.Is.
var (
	ErrMalformedInput    = domain.ErrMalformedInput
	ErrUpstreamFetch     = domain.ErrUpstreamFetch
	ErrDownstreamPublish = domain.ErrDownstreamPublish
	ErrConfiguration     = domain.ErrConfiguration
)
