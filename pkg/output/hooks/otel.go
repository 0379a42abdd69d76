package hooks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/botprobe/botprobe/pkg/defaults"
	"github.com/botprobe/botprobe/pkg/duration"
	"github.com/botprobe/botprobe/pkg/output/dispatcher"
	"github.com/botprobe/botprobe/pkg/output/events"
)

// Compile-time interface check.
var _ dispatcher.Hook = (*OTelHook)(nil)

// OTelHook exports run telemetry to an OpenTelemetry collector.
// Each run is one root span; every site outcome is a span event on it.
type OTelHook struct {
	opts           OTelOptions
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer

	mu       sync.Mutex
	rootSpan trace.Span
	closed   bool
}

// OTelOptions configures the OpenTelemetry hook behavior.
type OTelOptions struct {
	// Endpoint is the OTLP gRPC endpoint (e.g., "localhost:4317").
	Endpoint string

	// ServiceName is the service name for traces (default: "botprobe").
	ServiceName string

	// Insecure uses a plaintext connection.
	Insecure bool

	// Headers contains additional headers for the OTLP exporter.
	Headers map[string]string

	// ShutdownTimeout bounds the final flush (default: 5s).
	ShutdownTimeout time.Duration

	// ConnectionTimeout bounds exporter creation (default: 10s).
	ConnectionTimeout time.Duration
}

func (o *OTelOptions) applyDefaults() {
	if o.ServiceName == "" {
		o.ServiceName = defaults.ToolName
	}
	if o.Endpoint == "" {
		o.Endpoint = defaults.OTelEndpoint
	}
	if o.ShutdownTimeout == 0 {
		o.ShutdownTimeout = duration.ExporterShutdown
	}
	if o.ConnectionTimeout == 0 {
		o.ConnectionTimeout = duration.ExporterConnect
	}
}

// NewOTelHook creates a hook exporting spans over OTLP gRPC.
// Connection failures surface on export, never during a run.
func NewOTelHook(opts OTelOptions) (*OTelHook, error) {
	opts.applyDefaults()

	exporterOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(opts.Endpoint),
	}
	if opts.Insecure {
		exporterOpts = append(exporterOpts,
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}
	if len(opts.Headers) > 0 {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithHeaders(opts.Headers))
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectionTimeout)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("otel: create exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(newResource(opts.ServiceName)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return NewOTelHookWithProvider(tp, opts), nil
}

// NewOTelHookWithProvider creates a hook on an existing tracer provider.
// The hook owns the provider and shuts it down on Close.
func NewOTelHookWithProvider(tp *sdktrace.TracerProvider, opts OTelOptions) *OTelHook {
	opts.applyDefaults()
	return &OTelHook{
		opts:           opts,
		tracerProvider: tp,
		tracer:         tp.Tracer(defaults.ToolName + "/runner"),
	}
}

// newResource describes the service without merging resource.Default,
// which can carry a conflicting schema URL.
func newResource(service string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(service),
		semconv.ServiceVersion(defaults.Version),
		attribute.String("service.component", "analyzer"),
	)
}

// OnEvent records the event on the run span.
func (h *OTelHook) OnEvent(ctx context.Context, event events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	switch e := event.(type) {
	case *events.StartEvent:
		h.handleStart(ctx, e)
	case *events.SiteEvent:
		h.handleSite(e)
	case *events.SiteErrorEvent:
		h.handleSiteError(e)
	case *events.CompleteEvent:
		h.handleComplete(e)
	}
	return nil
}

func (h *OTelHook) handleStart(ctx context.Context, start *events.StartEvent) {
	if h.rootSpan != nil {
		h.rootSpan.End()
	}
	names := make([]string, len(start.Targets))
	for i, t := range start.Targets {
		names[i] = t.Name
	}
	_, span := h.tracer.Start(ctx, defaults.ToolName+".run",
		trace.WithTimestamp(start.Timestamp()),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("run_id", start.RunID()),
			attribute.StringSlice("sites", names),
			attribute.Bool("headless", start.Headless),
			attribute.Bool("stealth", start.Stealth),
		),
	)
	h.rootSpan = span
}

func (h *OTelHook) handleSite(site *events.SiteEvent) {
	if h.rootSpan == nil {
		return
	}
	h.rootSpan.AddEvent("site_analyzed",
		trace.WithTimestamp(site.Timestamp()),
		trace.WithAttributes(
			attribute.String("site", site.Site),
			attribute.String("url", site.URL),
			attribute.Int("score", site.Score),
			attribute.String("level", site.Level),
			attribute.StringSlice("signals", site.Fired()),
			attribute.String("fingerprint_id", site.FingerprintID),
			attribute.Int64("load_ms", site.LoadTimeMs),
		),
	)
}

func (h *OTelHook) handleSiteError(se *events.SiteErrorEvent) {
	if h.rootSpan == nil {
		return
	}
	h.rootSpan.AddEvent("site_failed",
		trace.WithTimestamp(se.Timestamp()),
		trace.WithAttributes(
			attribute.String("site", se.Site),
			attribute.String("url", se.URL),
			attribute.String("kind", se.Kind),
			attribute.String("error", se.Message),
		),
	)
}

func (h *OTelHook) handleComplete(c *events.CompleteEvent) {
	if h.rootSpan == nil {
		return
	}
	h.rootSpan.SetAttributes(
		attribute.Int("analyzed", c.Analyzed),
		attribute.Int("failed", c.Failed),
		attribute.Bool("interrupted", c.Interrupted),
		attribute.Float64("duration_sec", c.DurationSec),
		attribute.Int("exit_code", c.ExitCode),
	)
	if c.Success {
		h.rootSpan.SetStatus(codes.Ok, "")
	} else {
		h.rootSpan.SetStatus(codes.Error, c.ExitReason)
	}
	h.rootSpan.End(trace.WithTimestamp(c.Timestamp()))
	h.rootSpan = nil
}

// EventTypes returns nil: the hook receives all events.
func (h *OTelHook) EventTypes() []events.EventType {
	return nil
}

// Close ends any open span and flushes pending telemetry.
func (h *OTelHook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if h.rootSpan != nil {
		h.rootSpan.End()
		h.rootSpan = nil
	}

	if h.tracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), h.opts.ShutdownTimeout)
		defer cancel()
		if err := h.tracerProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("otel: shutdown tracer provider: %w", err)
		}
	}
	return nil
}

// Endpoint returns the OTLP endpoint being used.
func (h *OTelHook) Endpoint() string {
	return h.opts.Endpoint
}

// ServiceName returns the service name being used.
func (h *OTelHook) ServiceName() string {
	return h.opts.ServiceName
}
