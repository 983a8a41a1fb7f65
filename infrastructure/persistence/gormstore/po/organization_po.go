package po

import (
	"strings"
	"time"

	"servicedesk/domain/organization"
	"servicedesk/domain/shared"
)

type OrganizationPO struct {
	ID               string    `gorm:"primaryKey;size:64"`
	Name             string    `gorm:"size:200;not null"`
	NameKey          string    `gorm:"size:200;uniqueIndex;not null"` // 小写名称，保证不区分大小写唯一
	ContactEmail     string    `gorm:"size:255;not null"`
	Status           string    `gorm:"size:20;index;not null"`
	SuspensionReason string    `gorm:"size:500"`
	Version          int       `gorm:"default:0;not null"`
	CreatedAt        time.Time `gorm:"not null"`
	CreatedBy        string    `gorm:"size:64"`
	UpdatedAt        time.Time `gorm:"not null"`
	UpdatedBy        string    `gorm:"size:64"`
}

func (OrganizationPO) TableName() string {
	return "organizations"
}

// NameKey 名称唯一键
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func FromOrganizationDomain(o *organization.Organization) *OrganizationPO {
	audit := o.Audit()
	return &OrganizationPO{
		ID:               o.ID(),
		Name:             o.Name(),
		NameKey:          NameKey(o.Name()),
		ContactEmail:     o.ContactEmail().Value(),
		Status:           string(o.Status()),
		SuspensionReason: o.SuspensionReason(),
		Version:          o.Version(),
		CreatedAt:        audit.CreatedAt,
		CreatedBy:        audit.CreatedBy,
		UpdatedAt:        audit.UpdatedAt,
		UpdatedBy:        audit.UpdatedBy,
	}
}

func (po *OrganizationPO) ToDomain() (*organization.Organization, error) {
	return organization.RebuildFromDTO(organization.ReconstructionDTO{
		ID:               po.ID,
		Name:             po.Name,
		ContactEmail:     po.ContactEmail,
		Status:           organization.Status(po.Status),
		SuspensionReason: po.SuspensionReason,
		Version:          po.Version,
		Audit:            audit(po.CreatedAt, po.CreatedBy, po.UpdatedAt, po.UpdatedBy),
	})
}

func audit(createdAt time.Time, createdBy string, updatedAt time.Time, updatedBy string) shared.Audit {
	return shared.Audit{
		CreatedAt: createdAt,
		CreatedBy: createdBy,
		UpdatedAt: updatedAt,
		UpdatedBy: updatedBy,
	}
}
