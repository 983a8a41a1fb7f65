package user

import (
	"time"

	"servicedesk/domain/user"
)

// UserDTO 用户返回模型
type UserDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	OrganizationID string    `json:"organization_id,omitempty"`
	IsActive       bool      `json:"is_active"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:             u.ID(),
		Name:           u.Name(),
		Email:          u.Email().String(),
		Role:           string(u.Role()),
		OrganizationID: u.OrganizationID(),
		IsActive:       u.IsActive(),
		Version:        u.Version(),
		CreatedAt:      u.Audit().CreatedAt,
		UpdatedAt:      u.Audit().UpdatedAt,
	}
}
