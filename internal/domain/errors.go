package domain

import "errors"

var (
	// ErrMalformedInput marks an upstream payload that lacks the expected
	// sensor/data structure.
	ErrMalformedInput = errors.New("malformed station payload")
	// ErrUpstreamFetch marks a failed call to the station provider.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	// ErrDownstreamPublish marks a failed call to the publishing provider.
	ErrDownstreamPublish = errors.New("downstream publish failed")
	// ErrConfiguration marks missing or invalid startup configuration.
	ErrConfiguration = errors.New("invalid configuration")
)
