package ports

// Metric names recorded by the pipeline.
const (
	MetricUpstreamLatency       = "weatherlink_api_request_latency_seconds"
	MetricUpstreamRequests      = "weatherlink_api_requests_total"
	MetricDownstreamLatency     = "wunderground_api_request_latency_seconds"
	MetricDownstreamRequests    = "wunderground_api_requests_total"
	MetricUpdates               = "weather_updates_total"
	MetricUpdateRunTime         = "weather_update_run_time_seconds"
	MetricUpdateInterval        = "weather_update_interval_mins"
	MetricUpstreamObservation   = "weatherlink_weather_observations"
	MetricDownstreamObservation = "wunderground_weather_observations"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type Observability interface {
	LogInfo(msg string, fields ...Field)
	LogError(msg string, err error, fields ...Field)

	IncCounter(name string, labels ...Label)
	ObserveLatency(name string, seconds float64, labels ...Label)

	SetGauge(name string, v float64, labels ...Label)
}

type Field struct {
	Key   string
	Value any
}

// Label is a metric label pair.
type Label struct {
	Name  string
	Value string
}

// StatusLabel tags a sample with the outcome of the call it measures.
func StatusLabel(err error) Label {
	if err != nil {
		return Label{Name: "status", Value: StatusFailed}
	}
	return Label{Name: "status", Value: StatusSuccess}
}
