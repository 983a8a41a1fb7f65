package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servicedesk/config"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowThreshold 超过该耗时的 SQL 以 Warn 记录
const DefaultSlowThreshold = 200 * time.Millisecond

type GormLoggerConfig struct {
	SlowThreshold time.Duration
	// IgnoreRecordNotFoundError 仓储把 ErrRecordNotFound 转成领域 NotFound，无需再记错误日志
	IgnoreRecordNotFoundError bool
}

// GormLoggerConfigFromDatabase 以数据库配置的慢查询阈值为准，未配置时用默认值
func GormLoggerConfigFromDatabase(cfg *config.DatabaseConfig) GormLoggerConfig {
	c := GormLoggerConfig{
		SlowThreshold:             DefaultSlowThreshold,
		IgnoreRecordNotFoundError: true,
	}
	if cfg != nil && cfg.SlowThreshold > 0 {
		c.SlowThreshold = cfg.SlowThreshold
	}
	return c
}

// GormLogger 把 GORM 的日志转发到 zap，并带上 context 中的 request_id
type GormLogger struct {
	level  gormlogger.LogLevel
	base   *zap.Logger
	config GormLoggerConfig
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger 以当前全局 logger 为输出
func NewGormLogger(level gormlogger.LogLevel, cfg GormLoggerConfig) *GormLogger {
	return &GormLogger{level: level, base: Get().Named("gorm"), config: cfg}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		FromContext(ctx, l.base).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		FromContext(ctx, l.base).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		FromContext(ctx, l.base).Error(fmt.Sprintf(msg, args...))
	}
}

// Trace 每条 SQL 执行后调用：失败记 Error，慢查询记 Warn，其余只在 Info 级别记录
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !(l.config.IgnoreRecordNotFoundError && errors.Is(err, gormlogger.ErrRecordNotFound))
	slow := l.config.SlowThreshold > 0 && elapsed > l.config.SlowThreshold

	switch {
	case failed && l.level >= gormlogger.Error:
		FromContext(ctx, l.base).Error("SQL failed", append(l.statement(fc, elapsed), zap.Error(err))...)
	case slow && l.level >= gormlogger.Warn:
		FromContext(ctx, l.base).Warn("Slow SQL", append(l.statement(fc, elapsed), zap.Duration("threshold", l.config.SlowThreshold))...)
	case l.level >= gormlogger.Info:
		FromContext(ctx, l.base).Debug("SQL", l.statement(fc, elapsed)...)
	}
}

func (l *GormLogger) statement(fc func() (string, int64), elapsed time.Duration) []zap.Field {
	sql, rows := fc()
	fields := []zap.Field{zap.String("sql", sql), zap.Duration("elapsed", elapsed)}
	// rows 为 -1 表示驱动未返回影响行数
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows", rows))
	}
	return fields
}
