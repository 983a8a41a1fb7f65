package shared

import "time"

// AggregateRoot 聚合根接口
// 聚合根是DDD的核心概念，它是聚合的入口点，维护聚合的一致性边界
// 特性：
// 1. 有全局唯一标识
// 2. 携带审计信息（创建/更新时间与操作人）
// 3. 所有修改必须通过聚合根进行
// 4. 负责记录领域事件，事件列表由每个聚合自己持有
type AggregateRoot interface {
	// ID 返回聚合根的全局唯一标识
	ID() string

	// Version 返回当前版本号，用于乐观锁并发控制
	Version() int

	// Audit 返回审计信息
	Audit() Audit

	// PullEvents 获取并清空聚合根记录的领域事件
	// 工作单元在提交成功后调用；回滚时同样调用并丢弃结果
	PullEvents() []DomainEvent
}

// Audit 审计信息值对象
type Audit struct {
	CreatedAt time.Time
	CreatedBy string
	UpdatedAt time.Time
	UpdatedBy string
}

// NewAudit 创建审计信息，创建人与更新人相同
func NewAudit(actorID string, now time.Time) Audit {
	return Audit{
		CreatedAt: now,
		CreatedBy: actorID,
		UpdatedAt: now,
		UpdatedBy: actorID,
	}
}

// Touch 返回记录了新的更新人和更新时间的副本
func (a Audit) Touch(actorID string, now time.Time) Audit {
	a.UpdatedAt = now
	a.UpdatedBy = actorID
	return a
}
