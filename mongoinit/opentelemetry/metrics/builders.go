package metrics

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrNilInstrument is returned by a builder that was not obtained from a Factory.
var ErrNilInstrument = errors.New("metric instrument is nil")

// CounterBuilder adds to a counter under a fixed label set.
type CounterBuilder struct {
	counter metric.Int64Counter
	labels  []attribute.KeyValue
}

// WithLabels returns a builder with labels added to the current ones.
func (c *CounterBuilder) WithLabels(labels map[string]string) *CounterBuilder {
	if c == nil {
		return nil
	}

	return &CounterBuilder{counter: c.counter, labels: mergeLabels(c.labels, labels)}
}

// Add increments the counter by value.
func (c *CounterBuilder) Add(ctx context.Context, value int64) error {
	if c == nil || c.counter == nil {
		return ErrNilInstrument
	}

	c.counter.Add(ctx, value, metric.WithAttributeSet(attribute.NewSet(c.labels...)))

	return nil
}

// AddOne increments the counter by one.
func (c *CounterBuilder) AddOne(ctx context.Context) error {
	return c.Add(ctx, 1)
}

// HistogramBuilder records into a histogram under a fixed label set.
type HistogramBuilder struct {
	histogram metric.Int64Histogram
	labels    []attribute.KeyValue
}

// WithLabels returns a builder with labels added to the current ones.
func (h *HistogramBuilder) WithLabels(labels map[string]string) *HistogramBuilder {
	if h == nil {
		return nil
	}

	return &HistogramBuilder{histogram: h.histogram, labels: mergeLabels(h.labels, labels)}
}

// Record adds one observation.
func (h *HistogramBuilder) Record(ctx context.Context, value int64) error {
	if h == nil || h.histogram == nil {
		return ErrNilInstrument
	}

	h.histogram.Record(ctx, value, metric.WithAttributeSet(attribute.NewSet(h.labels...)))

	return nil
}

func mergeLabels(current []attribute.KeyValue, labels map[string]string) []attribute.KeyValue {
	merged := append(make([]attribute.KeyValue, 0, len(current)+len(labels)), current...)

	for key, value := range labels {
		merged = append(merged, attribute.String(key, value))
	}

	return merged
}
