package user

// RegisterUserCommand 登记用户；客户角色必须指定组织
type RegisterUserCommand struct {
	Name           string `json:"name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required"`
	Role           string `json:"role" validate:"required,oneof=admin technician customer"`
	OrganizationID string `json:"organization_id"`
}

// GetUserQuery 查询用户
type GetUserQuery struct {
	UserID string `json:"user_id" validate:"required"`
}
