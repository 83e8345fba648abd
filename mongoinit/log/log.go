package log

import (
	"context"
	"fmt"
	"strings"
)

// Logger is implemented by every logging backend the bootstrap can use.
// Implementations must tolerate a nil ctx.
type Logger interface {
	Log(ctx context.Context, level Level, msg string, fields ...Field)
	With(fields ...Field) Logger
	Enabled(level Level) bool
	Sync(ctx context.Context) error
}

// Level is an event severity. A logger set to a level also emits every
// level ordered before it, so LevelError is always emitted.
type Level uint8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{
	LevelError: "error",
	LevelWarn:  "warn",
	LevelInfo:  "info",
	LevelDebug: "debug",
}

func (level Level) String() string {
	if int(level) < len(levelNames) {
		return levelNames[level]
	}

	return "unknown"
}

// ParseLevel accepts the level names, case-insensitively, plus "warning".
func ParseLevel(name string) (Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "warning" {
		return LevelWarn, nil
	}

	for level, levelName := range levelNames {
		if normalized == levelName {
			return Level(level), nil
		}
	}

	return LevelError, fmt.Errorf("unknown log level %q", name)
}

// Field is a key/value pair attached to an event.
type Field struct {
	Key   string
	Value any
}

// String builds a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Bool builds a boolean field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err builds the "error" field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}
