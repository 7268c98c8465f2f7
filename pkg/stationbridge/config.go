package stationbridge

import (
	"github.com/ghalamif/stationbridge/internal/app/config"
	"github.com/ghalamif/stationbridge/internal/app/mapping"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// WeatherLinkConfig holds the upstream credentials and station id.
	WeatherLinkConfig = config.WeatherLinkConfig
	// WundergroundConfig holds the downstream station id and key.
	WundergroundConfig = config.WundergroundConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// LogConfig selects log level and format.
	LogConfig = config.LogConfig
)

type (
	// MappingTable renames station fields onto destination fields.
	MappingTable = mapping.Table
	// MappingEntry is one source field and its destination(s).
	MappingEntry = mapping.Entry
	// MappingTarget is a single destination name or a list of names.
	MappingTarget = mapping.Target
)

// LoadConfig reads the optional YAML file at path plus the environment.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// LoadMappingTable reads a YAML or JSON mapping document from disk.
func LoadMappingTable(path string) (*MappingTable, error) {
	return mapping.Load(path)
}

// NewMappingTable builds a table from entries.
func NewMappingTable(entries ...MappingEntry) (*MappingTable, error) {
	return mapping.New(entries...)
}

func SingleTarget(name string) MappingTarget { return mapping.SingleTarget(name) }

func MultiTarget(names ...string) MappingTarget { return mapping.MultiTarget(names...) }
