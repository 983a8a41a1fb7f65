package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"servicedesk/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func observeGorm(t *testing.T, level gormlogger.LogLevel, cfg GormLoggerConfig) (*GormLogger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	t.Cleanup(restore)
	return NewGormLogger(level, cfg), logs
}

func statement(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLoggerConfigFromDatabase(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.DatabaseConfig
		want time.Duration
	}{
		{"nil config", nil, DefaultSlowThreshold},
		{"threshold unset", &config.DatabaseConfig{}, DefaultSlowThreshold},
		{"threshold negative", &config.DatabaseConfig{SlowThreshold: -time.Second}, DefaultSlowThreshold},
		{"threshold override", &config.DatabaseConfig{SlowThreshold: 50 * time.Millisecond}, 50 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GormLoggerConfigFromDatabase(tt.cfg)

			assert.Equal(t, tt.want, got.SlowThreshold)
			assert.True(t, got.IgnoreRecordNotFoundError)
		})
	}
}

func TestGormLogger_TraceFailureCarriesRequestID(t *testing.T) {
	l, logs := observeGorm(t, gormlogger.Warn, GormLoggerConfigFromDatabase(nil))
	ctx := ContextWithRequestID(context.Background(), "req-7")

	l.Trace(ctx, time.Now(), statement("UPDATE tickets SET status = ?", 0), errors.New("constraint failed"))

	entries := logs.FilterMessage("SQL failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "UPDATE tickets SET status = ?", fields["sql"])
	assert.Equal(t, "constraint failed", fields["error"])
}

func TestGormLogger_RecordNotFound(t *testing.T) {
	t.Run("ignored", func(t *testing.T) {
		l, logs := observeGorm(t, gormlogger.Warn, GormLoggerConfigFromDatabase(nil))

		l.Trace(context.Background(), time.Now(), statement("SELECT * FROM machines", 0), gormlogger.ErrRecordNotFound)

		assert.Zero(t, logs.Len())
	})

	t.Run("reported", func(t *testing.T) {
		l, logs := observeGorm(t, gormlogger.Warn, GormLoggerConfig{SlowThreshold: DefaultSlowThreshold})

		l.Trace(context.Background(), time.Now(), statement("SELECT * FROM machines", 0), gormlogger.ErrRecordNotFound)

		assert.Equal(t, 1, logs.FilterMessage("SQL failed").Len())
	})
}

func TestGormLogger_SlowQuery(t *testing.T) {
	l, logs := observeGorm(t, gormlogger.Warn, GormLoggerConfig{SlowThreshold: 10 * time.Millisecond})

	l.Trace(context.Background(), time.Now().Add(-50*time.Millisecond), statement("SELECT * FROM tickets", 3), nil)

	entries := logs.FilterMessage("Slow SQL").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])
}

func TestGormLogger_LevelFiltering(t *testing.T) {
	l, logs := observeGorm(t, gormlogger.Warn, GormLoggerConfigFromDatabase(nil))

	l.Trace(context.Background(), time.Now(), statement("SELECT 1", 1), nil)
	l.Info(context.Background(), "migrating %s", "tickets")
	assert.Zero(t, logs.Len(), "fast queries and info messages are dropped at warn level")

	verbose := l.LogMode(gormlogger.Info)
	verbose.Trace(context.Background(), time.Now(), statement("SELECT 1", -1), nil)
	verbose.Info(context.Background(), "migrating %s", "tickets")

	entries := logs.FilterMessage("SQL").All()
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].ContextMap(), "rows", "unknown row counts are omitted")
	assert.Equal(t, 1, logs.FilterMessage("migrating tickets").Len())

	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), statement("SELECT 1", 1), errors.New("boom"))
	assert.Zero(t, logs.FilterMessage("SQL failed").Len())
}
