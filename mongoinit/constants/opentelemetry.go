package constant

import "unicode/utf8"

// TelemetryLibraryName is the tracer, meter and logger service name.
const TelemetryLibraryName = "mongo-init"

// Span attribute keys.
const (
	AttrDBSystem            = "db.system"
	AttrDBName              = "db.name"
	AttrDBMongoDBCollection = "db.mongodb.collection"
	AttrDBUser              = "db.user"
	AttrProvisionStep       = "mongo_init.step"

	DBSystemMongoDB = "mongodb"
)

// Metric names.
const (
	MetricConnectionFailuresTotal = "mongo_connection_failures_total"
	MetricStepFailuresTotal       = "mongo_init_step_failures_total"
	// MetricStepDuration is in milliseconds.
	MetricStepDuration = "mongo_init_step_duration_ms"
)

// MaxMetricLabelLength caps label values so an unexpected input cannot
// create unbounded series.
const MaxMetricLabelLength = 64

// SanitizeMetricLabel cuts value down to at most MaxMetricLabelLength bytes
// without splitting a UTF-8 sequence.
func SanitizeMetricLabel(value string) string {
	if len(value) <= MaxMetricLabelLength {
		return value
	}

	cut := MaxMetricLabelLength
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}

	return value[:cut]
}
