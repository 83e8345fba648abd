//go:build unit

package log

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{input: "debug", want: LevelDebug},
		{input: "info", want: LevelInfo},
		{input: "warn", want: LevelWarn},
		{input: "warning", want: LevelWarn},
		{input: "error", want: LevelError},
		{input: "INFO", want: LevelInfo},
		{input: "  debug ", want: LevelDebug},
		{input: "verbose", wantErr: true},
		{input: "", wantErr: true},
		{input: "fatal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown log level")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "unknown", Level(42).String())
}

func TestLevelStringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, level := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		parsed, err := ParseLevel(level.String())
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, Field{Key: "collection", Value: "searches"}, String("collection", "searches"))
	assert.Equal(t, Field{Key: "pre_existing", Value: true}, Bool("pre_existing", true))
	assert.Equal(t, Field{Key: "error", Value: err}, Err(err))
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NewNop()

	assert.NotPanics(t, func() {
		logger.Log(context.Background(), LevelError, "dropped", String("k", "v"))
	})
	assert.False(t, logger.Enabled(LevelError))
	assert.Same(t, logger, logger.With(String("k", "v")))
	assert.NoError(t, logger.Sync(context.Background()))
}

type recordingLogger struct {
	mu      sync.Mutex
	enabled bool
	entries []recordedEntry
}

type recordedEntry struct {
	level  Level
	msg    string
	fields []Field
}

func (r *recordingLogger) Log(_ context.Context, level Level, msg string, fields ...Field) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, recordedEntry{level: level, msg: msg, fields: fields})
}

func (r *recordingLogger) With(...Field) Logger       { return r }
func (r *recordingLogger) Enabled(Level) bool         { return r.enabled }
func (r *recordingLogger) Sync(context.Context) error { return nil }

func TestSafeError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("nil_logger", func(t *testing.T) {
		t.Parallel()

		assert.NotPanics(t, func() {
			SafeError(ctx, nil, "msg", errors.New("x"), false)
		})
	})

	t.Run("nil_error_is_skipped", func(t *testing.T) {
		t.Parallel()

		logger := &recordingLogger{enabled: true}
		SafeError(ctx, logger, "msg", nil, false)
		assert.Empty(t, logger.entries)
	})

	t.Run("disabled_level_is_skipped", func(t *testing.T) {
		t.Parallel()

		logger := &recordingLogger{}
		SafeError(ctx, logger, "msg", errors.New("x"), false)
		assert.Empty(t, logger.entries)
	})

	t.Run("full_error_outside_production", func(t *testing.T) {
		t.Parallel()

		logger := &recordingLogger{enabled: true}
		err := errors.New("auth failed for avoris-user")
		SafeError(ctx, logger, "create user failed", err, false)

		require.Len(t, logger.entries, 1)
		assert.Equal(t, LevelError, logger.entries[0].level)
		assert.Equal(t, "create user failed", logger.entries[0].msg)
		assert.Equal(t, []Field{Err(err)}, logger.entries[0].fields)
	})

	t.Run("only_type_in_production", func(t *testing.T) {
		t.Parallel()

		logger := &recordingLogger{enabled: true}
		SafeError(ctx, logger, "create user failed", errors.New("secret detail"), true)

		require.Len(t, logger.entries, 1)
		assert.Equal(t, []Field{String("error_type", "*errors.errorString")}, logger.entries[0].fields)
	})
}
