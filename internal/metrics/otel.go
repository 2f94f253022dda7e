package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// DefaultServiceName labels telemetry when no service name is configured.
const DefaultServiceName = "golf-league-service"

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx                   context.Context
	meter                 metric.Meter
	requests              metric.Int64Counter
	requestLatencyMs      metric.Float64Histogram
	operations            metric.Int64Counter
	operationErrors       metric.Int64Counter
	operationLatencyMs    metric.Float64Histogram
	collaboratorCalls     metric.Int64Counter
	collaboratorErrors    metric.Int64Counter
	collaboratorLatencyMs metric.Float64Histogram
	retries               metric.Int64Counter
	retryDelayMs          metric.Float64Histogram
	pairingScore          metric.Int64Histogram
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter(DefaultServiceName)
	ctx := context.Background()

	requests, err := meter.Int64Counter("http_requests_total")
	if err != nil {
		return nil, err
	}
	requestLatency, err := meter.Float64Histogram("http_request_duration_ms")
	if err != nil {
		return nil, err
	}

	operations, err := meter.Int64Counter("league_operations_total")
	if err != nil {
		return nil, err
	}
	operationErrors, err := meter.Int64Counter("league_operation_errors_total")
	if err != nil {
		return nil, err
	}
	operationLatency, err := meter.Float64Histogram("league_operation_duration_ms")
	if err != nil {
		return nil, err
	}
	collaboratorCalls, err := meter.Int64Counter("collaborator_calls_total")
	if err != nil {
		return nil, err
	}
	collaboratorErrors, err := meter.Int64Counter("collaborator_errors_total")
	if err != nil {
		return nil, err
	}
	collaboratorLatency, err := meter.Float64Histogram("collaborator_duration_ms")
	if err != nil {
		return nil, err
	}
	retries, err := meter.Int64Counter("collaborator_retries_total")
	if err != nil {
		return nil, err
	}
	retryDelay, err := meter.Float64Histogram("collaborator_retry_delay_ms")
	if err != nil {
		return nil, err
	}
	pairingScore, err := meter.Int64Histogram("foursome_pairing_score")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:                   ctx,
		meter:                 meter,
		requests:              requests,
		requestLatencyMs:      requestLatency,
		operations:            operations,
		operationErrors:       operationErrors,
		operationLatencyMs:    operationLatency,
		collaboratorCalls:     collaboratorCalls,
		collaboratorErrors:    collaboratorErrors,
		collaboratorLatencyMs: collaboratorLatency,
		retries:               retries,
		retryDelayMs:          retryDelay,
		pairingScore:          pairingScore,
	}, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordOperation(op string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrOperation, op),
		attribute.String(AttrOutcome, outcome(err)),
	}
	o.recordCounter(o.operations, 1, attrs...)
	o.recordHistogram(o.operationLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.operationErrors, 1, attribute.String(AttrOperation, op))
	}
}

func (o *otelInstruments) recordCollaborator(name string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrCollaborator, name)}
	o.recordCounter(o.collaboratorCalls, 1, attrs...)
	o.recordHistogram(o.collaboratorLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.collaboratorErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordRetry(name string, delay time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrCollaborator, name)}
	o.recordCounter(o.retries, 1, attrs...)
	if delay > 0 {
		o.recordHistogram(o.retryDelayMs, float64(delay.Milliseconds()), attrs...)
	}
}

func (o *otelInstruments) recordPairingScore(score int) {
	if o == nil {
		return
	}
	o.pairingScore.Record(o.ctx, int64(score))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
