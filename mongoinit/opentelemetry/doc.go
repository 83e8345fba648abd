// Package opentelemetry holds the tracing helpers shared by the mongo client
// and the provisioner. Metrics live in the metrics subpackage.
package opentelemetry
