package po

import (
	"time"

	"servicedesk/domain/user"
)

type UserPO struct {
	ID             string    `gorm:"primaryKey;size:64"`
	Name           string    `gorm:"size:100;not null"`
	Email          string    `gorm:"size:255;uniqueIndex;not null"`
	Role           string    `gorm:"size:20;index;not null"`
	OrganizationID string    `gorm:"size:64;index"`
	IsActive       bool      `gorm:"default:true"`
	Version        int       `gorm:"default:0"`
	CreatedAt      time.Time `gorm:"not null"`
	CreatedBy      string    `gorm:"size:64"`
	UpdatedAt      time.Time `gorm:"not null"`
	UpdatedBy      string    `gorm:"size:64"`
}

func (UserPO) TableName() string {
	return "users"
}

func FromUserDomain(u *user.User) *UserPO {
	audit := u.Audit()
	return &UserPO{
		ID:             u.ID(),
		Name:           u.Name(),
		Email:          u.Email().Value(),
		Role:           string(u.Role()),
		OrganizationID: u.OrganizationID(),
		IsActive:       u.IsActive(),
		Version:        u.Version(),
		CreatedAt:      audit.CreatedAt,
		CreatedBy:      audit.CreatedBy,
		UpdatedAt:      audit.UpdatedAt,
		UpdatedBy:      audit.UpdatedBy,
	}
}

func (po *UserPO) ToDomain() (*user.User, error) {
	return user.RebuildFromDTO(user.ReconstructionDTO{
		ID:             po.ID,
		Name:           po.Name,
		Email:          po.Email,
		Role:           user.Role(po.Role),
		OrganizationID: po.OrganizationID,
		IsActive:       po.IsActive,
		Version:        po.Version,
		Audit:          audit(po.CreatedAt, po.CreatedBy, po.UpdatedAt, po.UpdatedBy),
	})
}
