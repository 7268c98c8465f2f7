package stationbridge

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	base "github.com/ghalamif/stationbridge/pkg/stationbridge"
)

// Re-exported errors for convenience.
var (
	ErrMalformedInput         = base.ErrMalformedInput
	ErrUpstreamFetch          = base.ErrUpstreamFetch
	ErrDownstreamPublish      = base.ErrDownstreamPublish
	ErrConfiguration          = base.ErrConfiguration
	ErrChannelPublisherClosed = base.ErrChannelPublisherClosed
)

// Type aliases so consumers can import github.com/ghalamif/stationbridge directly.
type (
	Config               = base.Config
	WeatherLinkConfig    = base.WeatherLinkConfig
	WundergroundConfig   = base.WundergroundConfig
	MetricsConfig        = base.MetricsConfig
	LogConfig            = base.LogConfig
	MappingTable         = base.MappingTable
	MappingEntry         = base.MappingEntry
	MappingTarget        = base.MappingTarget
	Runtime              = base.Runtime
	Option               = base.Option
	Envelope             = base.Envelope
	SensorGroup          = base.SensorGroup
	RawObservation       = base.RawObservation
	MappedObservation    = base.MappedObservation
	StationFetcher       = base.StationFetcher
	ObservationPublisher = base.ObservationPublisher
	Transformer          = base.Transformer
	Observability        = base.Observability
	Field                = base.Field
	Label                = base.Label
	CycleState           = base.CycleState
	PublishFunc          = base.PublishFunc
)

const (
	CycleSucceeded = base.CycleSucceeded
	CycleFailed    = base.CycleFailed
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Mapping table helpers.
func LoadMappingTable(path string) (*MappingTable, error) {
	return base.LoadMappingTable(path)
}

func NewMappingTable(entries ...MappingEntry) (*MappingTable, error) {
	return base.NewMappingTable(entries...)
}

func SingleTarget(name string) MappingTarget { return base.SingleTarget(name) }

func MultiTarget(names ...string) MappingTarget { return base.MultiTarget(names...) }

// Runtime and options.
func NewRuntime(cfg *Config, opts ...Option) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithFetcher(f StationFetcher) Option {
	return base.WithFetcher(f)
}

func WithPublisher(p ObservationPublisher) Option {
	return base.WithPublisher(p)
}

func WithMappingTable(t *MappingTable) Option {
	return base.WithMappingTable(t)
}

func WithObservability(obs Observability) Option {
	return base.WithObservability(obs)
}

func WithMetricsAddr(addr string) Option {
	return base.WithMetricsAddr(addr)
}

func WithRegistry(reg *prometheus.Registry) Option {
	return base.WithRegistry(reg)
}

func WithLogger(l *slog.Logger) Option {
	return base.WithLogger(l)
}

// Publisher adapters.
func NewCallbackPublisher(name string, fn PublishFunc) ObservationPublisher {
	return base.NewCallbackPublisher(name, fn)
}

func NewChannelPublisher(name string, buffer int) (ObservationPublisher, <-chan MappedObservation, func()) {
	return base.NewChannelPublisher(name, buffer)
}
