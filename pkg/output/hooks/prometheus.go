package hooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/duration"
	"github.com/botprobe/botprobe/pkg/output/dispatcher"
	"github.com/botprobe/botprobe/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Hook = (*PrometheusHook)(nil)

// Outcome label values of botprobe_sites_total.
const (
	OutcomeAnalyzed = "analyzed"
	OutcomeFailed   = "failed"
)

// PrometheusHook exposes run metrics for Prometheus scraping.
// It starts an HTTP server that serves metrics at the configured path.
type PrometheusHook struct {
	server   *http.Server
	listener net.Listener
	registry *prometheus.Registry
	opts     PrometheusOptions
	logger   *slog.Logger

	// Counters
	sitesTotal     *prometheus.CounterVec
	ruleFiredTotal *prometheus.CounterVec

	// Gauges
	siteScore          *prometheus.GaugeVec
	runDurationSeconds prometheus.Gauge

	// Histograms
	riskScore   prometheus.Histogram
	loadSeconds prometheus.Histogram

	mu     sync.Mutex
	closed bool
}

// PrometheusOptions configures the Prometheus hook behavior.
type PrometheusOptions struct {
	// Port for the metrics server. 0 picks a free port.
	Port int

	// Path for the metrics endpoint (default: "/metrics").
	Path string

	// ReadTimeout for the HTTP server (default: 5s).
	ReadTimeout time.Duration

	// WriteTimeout for the HTTP server (default: 10s).
	WriteTimeout time.Duration

	Logger *slog.Logger
}

// NewPrometheusHook creates a new Prometheus hook that exposes metrics at the configured endpoint.
// The metrics server starts immediately and runs until Close() is called.
func NewPrometheusHook(opts PrometheusOptions) (*PrometheusHook, error) {
	if opts.Path == "" {
		opts.Path = defaults.MetricsPath
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = duration.HTTPProbing
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = duration.MetricsWrite
	}

	// Custom registry keeps the global one clean
	hook := &PrometheusHook{
		registry: prometheus.NewRegistry(),
		opts:     opts,
		logger:   orDefault(opts.Logger),
	}

	if err := hook.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	if err := hook.startServer(); err != nil {
		return nil, fmt.Errorf("failed to start metrics server: %w", err)
	}
	return hook, nil
}

// initMetrics creates and registers all Prometheus metrics.
func (h *PrometheusHook) initMetrics() error {
	ns := defaults.ToolName

	h.sitesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "sites_total",
			Help:      "Sites processed, by outcome",
		},
		[]string{"outcome"},
	)

	h.ruleFiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Name:      "rule_fired_total",
			Help:      "Times each scoring rule fired",
		},
		[]string{"rule"},
	)

	h.siteScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "site_risk_score",
			Help:      "Latest risk score per site",
		},
		[]string{"site"},
	)

	h.runDurationSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: ns,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last run in seconds",
	})

	h.riskScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "risk_score",
		Help:      "Distribution of site risk scores",
		Buckets:   prometheus.LinearBuckets(0, 1, 11),
	})

	h.loadSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "page_load_seconds",
		Help:      "Navigation time per site in seconds",
		Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 10, 20, 30},
	})

	collectors := []prometheus.Collector{
		h.sitesTotal,
		h.ruleFiredTotal,
		h.siteScore,
		h.runDurationSeconds,
		h.riskScore,
		h.loadSeconds,
	}
	for _, c := range collectors {
		if err := h.registry.Register(c); err != nil {
			return err
		}
	}

	// outcomes start at zero so dashboards see both series
	h.sitesTotal.WithLabelValues(OutcomeAnalyzed)
	h.sitesTotal.WithLabelValues(OutcomeFailed)
	return nil
}

// startServer binds the listener synchronously so MetricsAddr is valid on return.
func (h *PrometheusHook) startServer() error {
	mux := http.NewServeMux()
	mux.Handle(h.opts.Path, promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", h.opts.Port))
	if err != nil {
		return err
	}
	h.listener = ln
	h.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  h.opts.ReadTimeout,
		WriteTimeout: h.opts.WriteTimeout,
	}

	go func() {
		if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("prometheus: metrics server error", "error", err)
		}
	}()
	return nil
}

// OnEvent processes events and updates Prometheus metrics.
func (h *PrometheusHook) OnEvent(_ context.Context, event events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	switch e := event.(type) {
	case *events.SiteEvent:
		h.sitesTotal.WithLabelValues(OutcomeAnalyzed).Inc()
		h.riskScore.Observe(float64(e.Score))
		h.siteScore.WithLabelValues(e.Site).Set(float64(e.Score))
		if e.LoadTimeMs > 0 {
			h.loadSeconds.Observe(float64(e.LoadTimeMs) / 1000.0)
		}
		for _, name := range e.Fired() {
			h.ruleFiredTotal.WithLabelValues(name).Inc()
		}
	case *events.SiteErrorEvent:
		h.sitesTotal.WithLabelValues(OutcomeFailed).Inc()
	case *events.CompleteEvent:
		h.runDurationSeconds.Set(e.DurationSec)
	}
	return nil
}

// EventTypes returns the event types this hook handles.
func (h *PrometheusHook) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventTypeSite,
		events.EventTypeSiteError,
		events.EventTypeComplete,
	}
}

// Close shuts down the metrics server and releases resources.
func (h *PrometheusHook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if h.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), duration.ExporterShutdown)
		defer cancel()
		return h.server.Shutdown(ctx)
	}
	return nil
}

// MetricsAddr returns the URL where metrics are served.
func (h *PrometheusHook) MetricsAddr() string {
	port := h.opts.Port
	if tcp, ok := h.listener.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}
	return fmt.Sprintf("http://localhost:%d%s", port, h.opts.Path)
}
