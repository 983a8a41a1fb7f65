package gormstore

import (
	"servicedesk/domain/shared"

	"gorm.io/gorm"
)

// UnitOfWorkFactory 每个请求一个新的工作单元；重试由管道中的 UnitOfWork 行为负责
type UnitOfWorkFactory struct {
	db        *gorm.DB
	publisher shared.EventPublisher
}

func NewUnitOfWorkFactory(db *gorm.DB, publisher shared.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:        db,
		publisher: publisher,
	}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.db, f.publisher)
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
