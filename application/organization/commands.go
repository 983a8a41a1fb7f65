package organization

// RegisterOrganizationCommand 登记组织
type RegisterOrganizationCommand struct {
	Name         string `json:"name" validate:"required,max=200"`
	ContactEmail string `json:"contact_email" validate:"required"`
}

// ActivateOrganizationCommand 激活组织
type ActivateOrganizationCommand struct {
	OrganizationID string `json:"organization_id" validate:"required"`
}

// SuspendOrganizationCommand 暂停组织
type SuspendOrganizationCommand struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	Reason         string `json:"reason" validate:"required,max=500"`
}

// GetOrganizationQuery 查询组织
type GetOrganizationQuery struct {
	OrganizationID string `json:"organization_id" validate:"required"`
}
