package zap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	logpkg "github.com/Capi12YT/demo-avoris/mongoinit/log"
	"github.com/Capi12YT/demo-avoris/mongoinit/security"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment selects the default level and the error detail policy.
type Environment string

// Known environments. Development and local log at debug by default.
const (
	EnvironmentProduction  Environment = "production"
	EnvironmentStaging     Environment = "staging"
	EnvironmentUAT         Environment = "uat"
	EnvironmentDevelopment Environment = "development"
	EnvironmentLocal       Environment = "local"
)

// ErrUnknownEnvironment is returned for an environment name outside the known set.
var ErrUnknownEnvironment = errors.New("unknown environment")

// ParseEnvironment validates name against the known environments.
func ParseEnvironment(name string) (Environment, error) {
	env := Environment(strings.ToLower(strings.TrimSpace(name)))

	switch env {
	case EnvironmentProduction, EnvironmentStaging, EnvironmentUAT, EnvironmentDevelopment, EnvironmentLocal:
		return env, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, name)
	}
}

// IsProduction reports whether error details should be withheld from logs.
func (e Environment) IsProduction() bool {
	return e == EnvironmentProduction
}

func (e Environment) verbose() bool {
	return e == EnvironmentDevelopment || e == EnvironmentLocal
}

// Config describes the logger to build.
type Config struct {
	Environment Environment
	// Level overrides the environment default. Accepts the log.ParseLevel names.
	Level string
	// ServiceName is added to every entry and names the OTel instrumentation scope.
	ServiceName string
	// Writer defaults to os.Stdout.
	Writer io.Writer
}

func (c Config) atomicLevel() (zap.AtomicLevel, error) {
	if strings.TrimSpace(c.Level) == "" {
		if c.Environment.verbose() {
			return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
		}

		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	}

	level, err := logpkg.ParseLevel(c.Level)
	if err != nil {
		return zap.AtomicLevel{}, err
	}

	return zap.NewAtomicLevelAt(toZapLevel(level)), nil
}

// Logger implements log.Logger on top of zap.
type Logger struct {
	base *zap.Logger
}

var _ logpkg.Logger = (*Logger)(nil)

// New builds a JSON logger on cfg.Writer teed into the OTel logs bridge.
func New(cfg Config) (*Logger, error) {
	if strings.TrimSpace(cfg.ServiceName) == "" {
		return nil, errors.New("zap: service name is required")
	}

	environment, err := ParseEnvironment(string(cfg.Environment))
	if err != nil {
		return nil, fmt.Errorf("zap: %w", err)
	}

	cfg.Environment = environment

	level, err := cfg.atomicLevel()
	if err != nil {
		return nil, fmt.Errorf("zap: %w", err)
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.Lock(zapcore.AddSync(writer)), level),
		otelzap.NewCore(cfg.ServiceName),
	)

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.Fields(zap.String("service", cfg.ServiceName)),
	}

	if cfg.Environment.verbose() {
		opts = append(opts, zap.Development())
	}

	return &Logger{base: zap.New(core, opts...)}, nil
}

// NewFromCore wraps an existing core, typically an observer in tests.
func NewFromCore(core zapcore.Core) *Logger {
	return &Logger{base: zap.New(core)}
}

func (l *Logger) logger() *zap.Logger {
	if l == nil || l.base == nil {
		return zap.NewNop()
	}

	return l.base
}

// Log writes msg at level. Control characters in msg and string values are
// escaped, fields named like secrets are redacted, and a valid span in ctx
// adds trace_id and span_id.
func (l *Logger) Log(ctx context.Context, level logpkg.Level, msg string, fields ...logpkg.Field) {
	entry := l.logger().Check(toZapLevel(level), sanitizeString(msg))
	if entry == nil {
		return
	}

	entry.Write(append(toZapFields(fields), traceFields(ctx)...)...)
}

// With returns a child logger that adds fields to every entry. Secret fields
// are redacted once, here.
//
//nolint:ireturn
func (l *Logger) With(fields ...logpkg.Field) logpkg.Logger {
	return &Logger{base: l.logger().With(toZapFields(fields)...)}
}

// Enabled reports whether an entry at level would be written.
func (l *Logger) Enabled(level logpkg.Level) bool {
	return l.logger().Core().Enabled(toZapLevel(level))
}

// Sync flushes buffered entries unless ctx ends first.
func (l *Logger) Sync(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)

	go func() { done <- l.logger().Sync() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func traceFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}

	return []zap.Field{
		zap.Stringer("trace_id", sc.TraceID()),
		zap.Stringer("span_id", sc.SpanID()),
	}
}

func toZapLevel(level logpkg.Level) zapcore.Level {
	switch level {
	case logpkg.LevelError:
		return zapcore.ErrorLevel
	case logpkg.LevelWarn:
		return zapcore.WarnLevel
	case logpkg.LevelDebug:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(fields []logpkg.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))

	for _, field := range fields {
		if security.IsSensitiveField(field.Key) {
			out = append(out, zap.String(field.Key, redacted))
			continue
		}

		switch value := field.Value.(type) {
		case error:
			out = append(out, zap.NamedError(field.Key, value))
		case string:
			out = append(out, zap.String(field.Key, sanitizeString(value)))
		default:
			out = append(out, zap.Any(field.Key, value))
		}
	}

	return out
}
