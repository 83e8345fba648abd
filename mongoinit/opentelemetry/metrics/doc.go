// Package metrics creates OpenTelemetry int64 counters and histograms on
// first use and reuses them by name. Labels are attached through the
// builders returned by the Factory.
package metrics
