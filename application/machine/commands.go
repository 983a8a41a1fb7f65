package machine

// RegisterMachineCommand 为组织登记设备
type RegisterMachineCommand struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	SerialNumber   string `json:"serial_number" validate:"required,max=64"`
	Model          string `json:"model" validate:"max=100"`
}

// RetireMachineCommand 报废设备
type RetireMachineCommand struct {
	MachineID string `json:"machine_id" validate:"required"`
}

// GetMachineQuery 查询设备
type GetMachineQuery struct {
	MachineID string `json:"machine_id" validate:"required"`
}

// ListMachinesQuery 按组织与状态列出设备，状态为空表示全部
type ListMachinesQuery struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	Status         string `json:"status" validate:"omitempty,oneof=ACTIVE RETIRED"`
}
