// Package log defines the logging interface and typed logging fields used by mongo-init.
//
// Adapters (such as the zap package) implement Logger so the client and the
// provisioner stay independent of the logging backend.
package log
