package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Capi12YT/demo-avoris/mongoinit/log"
	"go.opentelemetry.io/otel/metric"
)

// ErrNilMeter is returned when the factory has no meter.
var ErrNilMeter = errors.New("metric meter cannot be nil")

// Metric describes an instrument.
type Metric struct {
	Name        string
	Description string
	Unit        string
	// Buckets applies to histograms only. Nil means DefaultLatencyBuckets.
	Buckets []float64
}

// DefaultLatencyBuckets are in milliseconds.
var DefaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// Factory creates instruments on first use and reuses them by name.
type Factory struct {
	meter  metric.Meter
	logger log.Logger

	mu         sync.Mutex
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Int64Histogram
}

// NewFactory returns a Factory creating instruments on meter.
func NewFactory(meter metric.Meter, logger log.Logger) (*Factory, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	if logger == nil {
		logger = log.NewNop()
	}

	return &Factory{
		meter:      meter,
		logger:     logger,
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Int64Histogram),
	}, nil
}

// Counter returns a builder on the int64 counter named m.Name.
func (f *Factory) Counter(m Metric) (*CounterBuilder, error) {
	if f == nil || f.meter == nil {
		return nil, ErrNilMeter
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	counter, ok := f.counters[m.Name]
	if !ok {
		created, err := f.meter.Int64Counter(m.Name,
			metric.WithDescription(m.Description),
			metric.WithUnit(m.Unit),
		)
		if err != nil {
			return nil, f.instrumentError("counter", m.Name, err)
		}

		f.counters[m.Name] = created
		counter = created
	}

	return &CounterBuilder{counter: counter}, nil
}

// Histogram returns a builder on the int64 histogram named m.Name.
func (f *Factory) Histogram(m Metric) (*HistogramBuilder, error) {
	if f == nil || f.meter == nil {
		return nil, ErrNilMeter
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	histogram, ok := f.histograms[m.Name]
	if !ok {
		buckets := m.Buckets
		if buckets == nil {
			buckets = DefaultLatencyBuckets
		}

		created, err := f.meter.Int64Histogram(m.Name,
			metric.WithDescription(m.Description),
			metric.WithUnit(m.Unit),
			metric.WithExplicitBucketBoundaries(buckets...),
		)
		if err != nil {
			return nil, f.instrumentError("histogram", m.Name, err)
		}

		f.histograms[m.Name] = created
		histogram = created
	}

	return &HistogramBuilder{histogram: histogram}, nil
}

func (f *Factory) instrumentError(kind, name string, err error) error {
	f.logger.Log(context.Background(), log.LevelWarn, "metric instrument unavailable",
		log.String("kind", kind),
		log.String("metric_name", name),
		log.Err(err),
	)

	return fmt.Errorf("create %s %q: %w", kind, name, err)
}
