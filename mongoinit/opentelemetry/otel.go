package opentelemetry

import (
	"context"

	constant "github.com/Capi12YT/demo-avoris/mongoinit/constants"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns the program tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(constant.TelemetryLibraryName)
}

// StartMongoSpan starts a span tagged with the MongoDB system attribute.
func StartMongoSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, name)

	span.SetAttributes(attribute.String(constant.AttrDBSystem, constant.DBSystemMongoDB))
	span.SetAttributes(attrs...)

	return ctx, span
}

// HandleSpanError marks the span as failed and records err.
func HandleSpanError(span trace.Span, message string, err error) {
	if span != nil && err != nil {
		span.SetStatus(codes.Error, message+": "+err.Error())
		span.RecordError(err)
	}
}
