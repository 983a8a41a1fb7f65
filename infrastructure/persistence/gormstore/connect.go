/*
Package gormstore 基于 GORM 的持久化实现，支持 mysql、postgres 与 sqlite 三种方言。

仓储通过 context 中的事务参与工作单元；工作单元在同一事务内把领域事件写入
outbox_events 表，由 OutboxWorker 在提交后异步发布。
*/
package gormstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"servicedesk/config"
	"servicedesk/infrastructure/persistence/gormstore/po"
	"servicedesk/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 10
	DefaultConnMaxLifetime = 10 * time.Minute
	DefaultConnMaxIdleTime = 5 * time.Minute
)

// DSN 按方言拼接连接串
func DSN(cfg *config.DatabaseConfig) (string, error) {
	switch cfg.Type {
	case config.DatabaseMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&collation=utf8mb4_unicode_ci&readTimeout=10s&writeTimeout=10s",
			cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database), nil
	case config.DatabasePostgres:
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database, sslMode), nil
	case config.DatabaseSQLite:
		if cfg.FilePath == "" {
			return "", fmt.Errorf("database.file_path is required for sqlite")
		}
		if cfg.FilePath == ":memory:" {
			return "file::memory:?cache=shared&_busy_timeout=5000", nil
		}
		// 已经是 URI 形式时原样使用，例如 file:test?mode=memory&cache=shared
		if strings.HasPrefix(cfg.FilePath, "file:") {
			return cfg.FilePath, nil
		}
		return cfg.FilePath + "?_busy_timeout=5000&_journal_mode=WAL", nil
	default:
		return "", fmt.Errorf("unsupported sql database type %q", cfg.Type)
	}
}

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	switch cfg.Type {
	case config.DatabaseMySQL:
		return mysql.Open(dsn), nil
	case config.DatabasePostgres:
		return postgres.Open(dsn), nil
	default:
		return sqlite.Open(dsn), nil
	}
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug", "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	case "silent":
		return gormlogger.Silent
	default:
		return gormlogger.Warn
	}
}

// Open 建立连接并设置连接池；AutoMigrate 开启时同步表结构
func Open(cfg *config.DatabaseConfig, logLevel string) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:                                   logger.NewGormLogger(parseLogLevel(logLevel), logger.GormLoggerConfigFromDatabase(cfg)),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpen, maxIdle := cfg.MaxOpenConns, cfg.MaxIdleConns
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenConns
	}
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdleConns
	}
	// sqlite 只允许一个写连接
	if cfg.Type == config.DatabaseSQLite {
		maxOpen, maxIdle = 1, 1
	}
	if maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = DefaultConnMaxLifetime
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)
	sqlDB.SetConnMaxIdleTime(DefaultConnMaxIdleTime)

	logger.Info("Database connected",
		zap.String("type", cfg.Type),
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
		zap.Int("max_open_conns", maxOpen),
		zap.Int("max_idle_conns", maxIdle),
		zap.Duration("conn_max_lifetime", lifetime),
	)

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate 同步所有表结构
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(po.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Ping 健康检查使用
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭底层连接池
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
