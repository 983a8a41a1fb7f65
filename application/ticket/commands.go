package ticket

// OpenTicketCommand 开立工单，工单号由仓储按年份分配
type OpenTicketCommand struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	MachineID      string `json:"machine_id"`
	Title          string `json:"title" validate:"required,max=200"`
	Description    string `json:"description" validate:"max=4000"`
	Priority       string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

// AssignTicketCommand 指派处理人，仅管理员与技术员可执行
type AssignTicketCommand struct {
	Number     string `json:"number" validate:"required"`
	AssigneeID string `json:"assignee_id" validate:"required"`
}

// ChangeTicketStatusCommand 变更状态，不允许的迁移返回业务拒绝
type ChangeTicketStatusCommand struct {
	Number string `json:"number" validate:"required"`
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
}

// GetTicketQuery 按工单号查询
type GetTicketQuery struct {
	Number string `json:"number" validate:"required"`
}

// ListTicketsQuery 按组织与状态列出工单
type ListTicketsQuery struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	Status         string `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
}
