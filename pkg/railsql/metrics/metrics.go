// Package metrics exposes an OpenTelemetry-backed metrics manager with a
// prometheus scrape surface. Metrics are registered once by name and recorded
// with flat "key, value" label pairs.
package metrics

import (
	"context"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/sllt/railsql/pkg/railsql/logging"
)

// Manager registers and records application metrics.
type Manager interface {
	NewCounter(name, desc string)
	NewHistogram(name, desc string, buckets ...float64)

	IncrementCounter(ctx context.Context, name string, labels ...string)
	RecordHistogram(ctx context.Context, name string, value float64, labels ...string)
}

type manager struct {
	meter    metric.Meter
	registry *prometheus.Registry
	logger   logging.Logger

	mu         sync.RWMutex
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
}

// NewManager builds a Manager exporting through a dedicated prometheus
// registry. It also installs the meter provider globally so instrumentation
// such as otelsql records through the same registry.
func NewManager(logger logging.Logger) (Manager, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(resource.NewSchemaless(attribute.String("service.name", "railsql"))),
	)
	otel.SetMeterProvider(provider)

	return &manager{
		meter:      provider.Meter("railsql"),
		registry:   registry,
		logger:     logger,
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
	}, nil
}

// GetHandler returns the HTTP handler serving the prometheus text format for
// the manager's registry.
func GetHandler(m Manager) http.Handler {
	if mgr, ok := m.(*manager); ok {
		return promhttp.HandlerFor(mgr.registry, promhttp.HandlerOpts{})
	}

	return promhttp.Handler()
}

func (m *manager) NewCounter(name, desc string) {
	counter, err := m.meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		m.logger.Errorf("could not register counter %s: %v", name, err)

		return
	}

	m.mu.Lock()
	m.counters[name] = counter
	m.mu.Unlock()
}

func (m *manager) NewHistogram(name, desc string, buckets ...float64) {
	opts := []metric.Float64HistogramOption{metric.WithDescription(desc)}
	if len(buckets) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(buckets...))
	}

	histogram, err := m.meter.Float64Histogram(name, opts...)
	if err != nil {
		m.logger.Errorf("could not register histogram %s: %v", name, err)

		return
	}

	m.mu.Lock()
	m.histograms[name] = histogram
	m.mu.Unlock()
}

func (m *manager) IncrementCounter(ctx context.Context, name string, labels ...string) {
	m.mu.RLock()
	counter, ok := m.counters[name]
	m.mu.RUnlock()

	if !ok {
		m.logger.Errorf("counter %s is not registered", name)

		return
	}

	counter.Add(ctx, 1, metric.WithAttributes(toAttributes(labels)...))
}

func (m *manager) RecordHistogram(ctx context.Context, name string, value float64, labels ...string) {
	m.mu.RLock()
	histogram, ok := m.histograms[name]
	m.mu.RUnlock()

	if !ok {
		m.logger.Errorf("histogram %s is not registered", name)

		return
	}

	histogram.Record(ctx, value, metric.WithAttributes(toAttributes(labels)...))
}

// toAttributes pairs up flat "key, value" labels; a trailing key without a
// value is dropped.
func toAttributes(labels []string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels)/2)

	for i := 0; i+1 < len(labels); i += 2 {
		attrs = append(attrs, attribute.String(labels[i], labels[i+1]))
	}

	return attrs
}
