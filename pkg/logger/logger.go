/*
Package logger 提供服务统一日志：全局 zap logger、按请求关联的子 logger 以及 GORM 适配。
*/
package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"servicedesk/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 日志文件轮转的默认上限
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 5
	DefaultMaxAgeDays = 7
)

var (
	log *zap.Logger
	// helpers 给包级 Info/Warn/Error 使用，跳过一层调用帧，caller 指向真实调用方
	helpers *zap.Logger
)

// Init 按配置构建全局 logger
func Init(cfg *config.LogConfig, env string) error {
	l, err := Build(cfg, env)
	if err != nil {
		return err
	}
	set(l)
	return nil
}

// Build 按配置构建 logger，不修改全局状态
func Build(cfg *config.LogConfig, env string) (*zap.Logger, error) {
	if cfg == nil {
		cfg = &config.LogConfig{}
	}
	level := parseLevel(cfg.Level)

	sink, err := newSink(cfg)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newEncoder(cfg.Format, env, level), sink, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// newEncoder 显式 format 优先；未指定时开发环境和 debug 级别用 console，其余用 JSON
func newEncoder(format, env string, level zapcore.Level) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.MillisDurationEncoder

	switch format {
	case "json":
		return zapcore.NewJSONEncoder(encoderConfig)
	case "console":
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	if env == "dev" || env == "development" || level == zapcore.DebugLevel {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

func newSink(cfg *config.LogConfig) (zapcore.WriteSyncer, error) {
	if cfg.Output != "file" {
		return zapcore.Lock(os.Stdout), nil
	}
	if cfg.FilePath == "" {
		return nil, errors.New("logger: file output requires file_path")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("logger: create log directory: %w", err)
	}
	return zapcore.AddSync(rotation(cfg)), nil
}

// rotation 未配置或配置为非正数的上限回落到默认值
func rotation(cfg *config.LogConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    orDefault(cfg.MaxSize, DefaultMaxSizeMB),
		MaxBackups: orDefault(cfg.MaxBackups, DefaultMaxBackups),
		MaxAge:     orDefault(cfg.MaxAge, DefaultMaxAgeDays),
		Compress:   cfg.Compress,
	}
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func parseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(level)
	if err != nil || l > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return l
}

func set(l *zap.Logger) {
	log = l
	if l == nil {
		helpers = nil
		return
	}
	helpers = l.WithOptions(zap.AddCallerSkip(1))
}

// Get 返回全局 logger，未初始化时返回 Nop，调用方无需判空
func Get() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Replace 替换全局 logger 并返回恢复函数，主要供测试注入 observer
func Replace(l *zap.Logger) func() {
	previous := log
	set(l)
	return func() { set(previous) }
}

// Sync 刷新缓冲；stdout 是终端或管道时 fsync 的报错可以忽略
func Sync() error {
	if log == nil {
		return nil
	}
	err := log.Sync()
	if err == nil || isBenignSyncError(err) {
		return nil
	}
	return err
}

func isBenignSyncError(err error) bool {
	return errors.Is(err, syscall.ENOTTY) ||
		errors.Is(err, syscall.EINVAL) ||
		errors.Is(err, syscall.EBADF)
}

func Info(msg string, fields ...zap.Field) {
	if helpers != nil {
		helpers.Info(msg, fields...)
	}
}

func Warn(msg string, fields ...zap.Field) {
	if helpers != nil {
		helpers.Warn(msg, fields...)
	}
}

func Error(msg string, fields ...zap.Field) {
	if helpers != nil {
		helpers.Error(msg, fields...)
	}
}
