package stationbridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ghalamif/stationbridge/internal/adapters/observability"
	"github.com/ghalamif/stationbridge/internal/adapters/weatherlink"
	"github.com/ghalamif/stationbridge/internal/adapters/wunderground"
	"github.com/ghalamif/stationbridge/internal/app/mapping"
	"github.com/ghalamif/stationbridge/internal/app/pipeline"
	"github.com/ghalamif/stationbridge/internal/app/transform"
	"github.com/ghalamif/stationbridge/internal/logging"
	"github.com/ghalamif/stationbridge/internal/ports"
)

// Option customizes the dependencies used by Runtime.
type Option func(*runtimeOverrides)

type runtimeOverrides struct {
	fetcher       StationFetcher
	publisher     ObservationPublisher
	table         *MappingTable
	observability Observability
	registry      *prometheus.Registry
	logger        *slog.Logger
	metricsAddr   string
}

// WithFetcher replaces the WeatherLink client with any station source.
func WithFetcher(f StationFetcher) Option {
	return func(o *runtimeOverrides) {
		o.fetcher = f
	}
}

// WithPublisher replaces the Weather Underground client with any destination.
func WithPublisher(p ObservationPublisher) Option {
	return func(o *runtimeOverrides) {
		o.publisher = p
	}
}

// WithMappingTable skips loading the table from Config.SensorMap.
func WithMappingTable(t *MappingTable) Option {
	return func(o *runtimeOverrides) {
		o.table = t
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) Option {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithRegistry registers the default metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *runtimeOverrides) {
		o.registry = reg
	}
}

// WithLogger overrides the logger built from Config.Log.
func WithLogger(l *slog.Logger) Option {
	return func(o *runtimeOverrides) {
		o.logger = l
	}
}

// WithMetricsAddr overrides the listen address derived from Config.Metrics.
func WithMetricsAddr(addr string) Option {
	return func(o *runtimeOverrides) {
		o.metricsAddr = addr
	}
}

// Runtime owns the scheduler, the collection cycle it drives, and the
// metrics server.
type Runtime struct {
	cfg           *Config
	logger        *slog.Logger
	obs           ports.Observability
	registry      *prometheus.Registry
	fetcher       ports.StationFetcher
	publisher     ports.ObservationPublisher
	cycle         *pipeline.Cycle
	scheduler     *pipeline.Scheduler
	metricsAddr   string
	metricsSrv    *http.Server
	metricsLn     net.Listener
	schedulerDone chan struct{}
}

// NewRuntime builds the default adapters (WeatherLink fetcher, Weather
// Underground publisher, Prometheus observability, mapping table from
// Config.SensorMap). Options override any of them.
func NewRuntime(cfg *Config, opts ...Option) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", ErrConfiguration)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	logger := overrides.logger
	if logger == nil {
		logger = logging.New(os.Stderr, cfg.Log.Format == "json", logging.ParseLevel(cfg.Log.Level))
	}

	reg := overrides.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs(reg, logger, observability.Stations{
			Upstream:   cfg.WeatherLink.StationID,
			Downstream: cfg.Wunderground.ID,
		})
	}
	obs.SetGauge(ports.MetricUpdateInterval, float64(cfg.UpdateIntervalMins))

	table := overrides.table
	if table == nil {
		var err error
		table, err = mapping.Load(cfg.SensorMap)
		if err != nil {
			return nil, err
		}
	}

	fetcher := overrides.fetcher
	if fetcher == nil {
		fetcher = weatherlink.New(cfg.WeatherLink.APIKey, cfg.WeatherLink.APISecret,
			weatherlink.WithBaseURL(cfg.WeatherLink.BaseURL),
			weatherlink.WithTimeout(cfg.HTTPTimeout))
	}

	pub := overrides.publisher
	if pub == nil {
		pub = wunderground.New(cfg.Wunderground.ID, cfg.Wunderground.Key,
			wunderground.WithUpdateURL(cfg.Wunderground.UpdateURL),
			wunderground.WithTimeout(cfg.HTTPTimeout))
	}

	cycle := pipeline.NewCycle(cfg.WeatherLink.StationID,
		pipeline.NewUpstream(fetcher, obs),
		transform.New(table, obs),
		pipeline.NewDownstream(pub, obs),
		obs)

	addr := overrides.metricsAddr
	if addr == "" {
		addr = cfg.Metrics.Addr()
	}

	return &Runtime{
		cfg:         cfg,
		logger:      logger,
		obs:         obs,
		registry:    reg,
		fetcher:     fetcher,
		publisher:   pub,
		cycle:       cycle,
		scheduler:   pipeline.NewScheduler(cfg.UpdateInterval(), func(ctx context.Context) { cycle.Run(ctx) }),
		metricsAddr: addr,
	}, nil
}

// Start opens the metrics listener and launches the scheduler, which fires
// the first cycle right away. It returns immediately; call Run to block on a
// context instead.
func (r *Runtime) Start(ctx context.Context) error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}
	if err := r.startMetrics(); err != nil {
		return err
	}
	r.logger.Info("metrics_server_listening",
		slog.String("addr", r.metricsLn.Addr().String()),
		slog.String("path", "/metrics"))

	r.schedulerDone = make(chan struct{})
	go func() {
		r.scheduler.Run(ctx)
		close(r.schedulerDone)
	}()
	return nil
}

// Run starts the runtime and blocks until the provided context is cancelled.
// Upon cancellation it attempts a graceful shutdown.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.Shutdown(shutdownCtx)
}

// RunCycle executes a single collection cycle outside the schedule.
func (r *Runtime) RunCycle(ctx context.Context) CycleState {
	return r.cycle.Run(ctx)
}

// Shutdown stops the metrics server and waits for the scheduler loop to
// exit. The scheduler only exits once the context given to Start is done.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if r.schedulerDone != nil {
		select {
		case <-r.schedulerDone:
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
		}
	}

	return errors.Join(errs...)
}

// MetricsAddr reports the bound metrics address once Start has returned.
func (r *Runtime) MetricsAddr() string {
	if r.metricsLn == nil {
		return r.metricsAddr
	}
	return r.metricsLn.Addr().String()
}

// Handler serves /metrics and /healthz.
func (r *Runtime) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler(r.registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (r *Runtime) startMetrics() error {
	ln, err := net.Listen("tcp", r.metricsAddr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	r.metricsLn = ln
	r.metricsSrv = &http.Server{
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := r.metricsSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("metrics_server_exited", slog.String("error", err.Error()))
		}
	}()
	return nil
}
