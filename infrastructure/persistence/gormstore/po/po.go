// Package po 持久化对象，与表结构一一对应
package po

// All 参与自动迁移的全部表
func All() []any {
	return []any{
		&OrganizationPO{},
		&MachinePO{},
		&TicketPO{},
		&TicketSequencePO{},
		&UserPO{},
		&OutboxEventPO{},
	}
}
