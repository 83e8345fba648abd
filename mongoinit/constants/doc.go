// Package constant holds the literals shared by the mongo client, the
// provisioner and the telemetry helpers: provisioning defaults, server error
// codes, span attribute keys and metric names.
package constant
