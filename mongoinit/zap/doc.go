// Package zap adapts go.uber.org/zap to the mongo-init log.Logger interface.
//
// Entries are JSON encoded on standard output so the database container's
// init hook captures them alongside the server's own startup output.
package zap
