// Package persistence 存放各存储实现共用的事务上下文
package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxFromContext 返回工作单元放入的事务，没有事务时返回 nil
func TxFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// ContextWithTx 由 gorm 工作单元在 Begin 时调用，仓储据此加入同一事务
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// DB 有事务用事务，否则用给定连接
func DB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := TxFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
