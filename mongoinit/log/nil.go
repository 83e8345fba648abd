package log

import "context"

// NopLogger discards every event. It is the default logger of the mongo
// client and the provisioner when none is configured.
type NopLogger struct{}

var _ Logger = (*NopLogger)(nil)

// NewNop returns a logger that drops all events.
func NewNop() Logger {
	return &NopLogger{}
}

func (l *NopLogger) Log(context.Context, Level, string, ...Field) {}

//nolint:ireturn
func (l *NopLogger) With(...Field) Logger { return l }

// Enabled always reports false so callers can skip building fields.
func (l *NopLogger) Enabled(Level) bool { return false }

func (l *NopLogger) Sync(context.Context) error { return nil }
