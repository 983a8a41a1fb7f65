package gormstore

import (
	"context"
	"errors"
	"strings"

	"servicedesk/domain/shared"
	"servicedesk/infrastructure/persistence"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	errRowMissing      = errors.New("row missing")
	errVersionMismatch = errors.New("version mismatch")
)

func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	return persistence.DB(ctx, db)
}

// inTx 在 context 中已有事务时直接使用，否则开启一个短事务
func inTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return fn(tx)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Duplicate entry") ||
		strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "SQLSTATE 23505")
}

// dbError 把驱动错误归为 Unexpected；取消与超时原样返回
func dbError(entity, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return shared.NewUnexpectedError(entity, entity+" "+operation+" failed", err)
}

// updateVersioned 严格乐观锁：必须使用聚合当前版本作为更新条件，避免静默覆盖并发写入
func updateVersioned(tx *gorm.DB, model any, id string, expectedVersion int, values map[string]any) error {
	values["version"] = expectedVersion + 1
	result := tx.Model(model).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errRowMissing
	}
	return errVersionMismatch
}
