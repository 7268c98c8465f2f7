package observability

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghalamif/stationbridge/internal/ports"
)

// Stations identifies the two ends of the bridge; the ids become the
// "station" const label on the per-provider metrics.
type Stations struct {
	Upstream   string
	Downstream string
}

// PromObs is the process-wide instrumentation handle. It owns every
// collector it registers and logs through the injected slog.Logger.
type PromObs struct {
	logger   *slog.Logger
	counters map[string]*prometheus.CounterVec
	gauges   map[string]*prometheus.GaugeVec
	histos   map[string]*prometheus.HistogramVec
}

func NewPromObs(reg prometheus.Registerer, logger *slog.Logger, st Stations) *PromObs {
	if logger == nil {
		logger = slog.Default()
	}
	upstream := prometheus.Labels{"station": st.Upstream}
	downstream := prometheus.Labels{"station": st.Downstream}
	latencyBuckets := prometheus.ExponentialBuckets(0.05, 2, 10)

	upLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        ports.MetricUpstreamLatency,
		Help:        "Time taken to retrieve current conditions from the WeatherLink API.",
		ConstLabels: upstream,
		Buckets:     latencyBuckets,
	}, []string{"status"})
	upRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        ports.MetricUpstreamRequests,
		Help:        "Requests made to the WeatherLink API.",
		ConstLabels: upstream,
	}, []string{"status"})
	downLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        ports.MetricDownstreamLatency,
		Help:        "Time taken to send an observation to Weather Underground.",
		ConstLabels: downstream,
		Buckets:     latencyBuckets,
	}, []string{"status"})
	downRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        ports.MetricDownstreamRequests,
		Help:        "Requests made to Weather Underground.",
		ConstLabels: downstream,
	}, []string{"status"})
	updates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: ports.MetricUpdates,
		Help: "Collection cycles by outcome.",
	}, []string{"status"})
	runTime := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: ports.MetricUpdateRunTime,
		Help: "Duration of the last collection cycle by outcome.",
	}, []string{"status"})
	interval := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: ports.MetricUpdateInterval,
		Help: "Configured minutes between collection cycles.",
	}, nil)
	upObs := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        ports.MetricUpstreamObservation,
		Help:        "Numeric observations received from WeatherLink.",
		ConstLabels: upstream,
	}, []string{"name"})
	downObs := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        ports.MetricDownstreamObservation,
		Help:        "Numeric observations submitted to Weather Underground.",
		ConstLabels: downstream,
	}, []string{"name"})

	reg.MustRegister(upLatency, upRequests, downLatency, downRequests, updates, runTime, interval, upObs, downObs)

	for _, status := range []string{ports.StatusSuccess, ports.StatusFailed} {
		upRequests.WithLabelValues(status)
		downRequests.WithLabelValues(status)
		updates.WithLabelValues(status)
	}

	return &PromObs{
		logger: logger,
		counters: map[string]*prometheus.CounterVec{
			ports.MetricUpstreamRequests:   upRequests,
			ports.MetricDownstreamRequests: downRequests,
			ports.MetricUpdates:            updates,
		},
		gauges: map[string]*prometheus.GaugeVec{
			ports.MetricUpdateRunTime:         runTime,
			ports.MetricUpdateInterval:        interval,
			ports.MetricUpstreamObservation:   upObs,
			ports.MetricDownstreamObservation: downObs,
		},
		histos: map[string]*prometheus.HistogramVec{
			ports.MetricUpstreamLatency:   upLatency,
			ports.MetricDownstreamLatency: downLatency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.logger.Info(msg, attrs(fields)...)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	args := attrs(fields)
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	p.logger.Error(msg, args...)
}

func (p *PromObs) IncCounter(name string, labels ...ports.Label) {
	if c, ok := p.counters[name]; ok {
		if m, err := c.GetMetricWith(promLabels(labels)); err == nil {
			m.Inc()
		}
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64, labels ...ports.Label) {
	if h, ok := p.histos[name]; ok {
		if m, err := h.GetMetricWith(promLabels(labels)); err == nil {
			m.Observe(seconds)
		}
	}
}

func (p *PromObs) SetGauge(name string, v float64, labels ...ports.Label) {
	if g, ok := p.gauges[name]; ok {
		if m, err := g.GetMetricWith(promLabels(labels)); err == nil {
			m.Set(v)
		}
	}
}

func promLabels(labels []ports.Label) prometheus.Labels {
	out := make(prometheus.Labels, len(labels))
	for _, l := range labels {
		out[l.Name] = l.Value
	}
	return out
}

func attrs(fields []ports.Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}

var _ ports.Observability = (*PromObs)(nil)
