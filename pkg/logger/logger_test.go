package logger

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"servicedesk/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReplaceRestoresPrevious(t *testing.T) {
	first, firstLogs := observer.New(zapcore.InfoLevel)
	restoreFirst := Replace(zap.New(first))
	defer restoreFirst()

	second, secondLogs := observer.New(zapcore.InfoLevel)
	restoreSecond := Replace(zap.New(second))
	Info("to second")
	restoreSecond()
	Info("to first")

	assert.Equal(t, 1, secondLogs.FilterMessage("to second").Len())
	assert.Zero(t, secondLogs.FilterMessage("to first").Len())
	assert.Equal(t, 1, firstLogs.FilterMessage("to first").Len())
}

func TestHelpersWithoutLogger(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	assert.NotNil(t, Get())
	assert.NotPanics(t, func() {
		Info("dropped")
		Warn("dropped")
		Error("dropped")
	})
	assert.NoError(t, Sync())
}

func TestHelpersReportCaller(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core, zap.AddCaller()))
	defer restore()

	Warn("caller check")

	entries := logs.FilterMessage("caller check").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "logger_test.go", filepath.Base(entries[0].Caller.File))
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 10, orDefault(0, 10))
	assert.Equal(t, 10, orDefault(-3, 10))
	assert.Equal(t, 42, orDefault(42, 10))
}

func TestRotationLimits(t *testing.T) {
	r := rotation(&config.LogConfig{FilePath: "logs/app.log", MaxBackups: 2, Compress: true})

	assert.Equal(t, "logs/app.log", r.Filename)
	assert.Equal(t, DefaultMaxSizeMB, r.MaxSize)
	assert.Equal(t, 2, r.MaxBackups)
	assert.Equal(t, DefaultMaxAgeDays, r.MaxAge)
	assert.True(t, r.Compress)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("fatal"))
}

func TestBuild_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "servicedesk.log")

	l, err := Build(&config.LogConfig{Level: "info", Format: "json", Output: "file", FilePath: path}, "production")
	require.NoError(t, err)
	l.Info("ticket created", zap.String("number", "TICK-2025-00001"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"ticket created"`)
	assert.Contains(t, string(data), `"number":"TICK-2025-00001"`)
}

func TestBuild_FileOutputRequiresPath(t *testing.T) {
	_, err := Build(&config.LogConfig{Output: "file"}, "production")
	assert.Error(t, err)
}

func TestInit_SetsGlobal(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	require.NoError(t, Init(&config.LogConfig{Level: "warn"}, "production"))

	assert.True(t, Get().Core().Enabled(zapcore.WarnLevel))
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))
}

func TestIsBenignSyncError(t *testing.T) {
	assert.True(t, isBenignSyncError(&os.PathError{Op: "sync", Path: "/dev/stdout", Err: syscall.EINVAL}))
	assert.True(t, isBenignSyncError(&os.PathError{Op: "sync", Path: "/dev/stdout", Err: syscall.ENOTTY}))
	assert.False(t, isBenignSyncError(&os.PathError{Op: "sync", Path: "app.log", Err: syscall.ENOSPC}))
}
