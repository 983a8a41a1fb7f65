package organization

import (
	"time"

	"servicedesk/domain/organization"
)

// OrganizationDTO 组织返回模型
type OrganizationDTO struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ContactEmail     string    `json:"contact_email"`
	Status           string    `json:"status"`
	SuspensionReason string    `json:"suspension_reason,omitempty"`
	Version          int       `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	CreatedBy        string    `json:"created_by"`
	UpdatedAt        time.Time `json:"updated_at"`
	UpdatedBy        string    `json:"updated_by"`
}

// ToDTO 领域对象 -> DTO
func ToDTO(o *organization.Organization) OrganizationDTO {
	audit := o.Audit()
	return OrganizationDTO{
		ID:               o.ID(),
		Name:             o.Name(),
		ContactEmail:     o.ContactEmail().String(),
		Status:           string(o.Status()),
		SuspensionReason: o.SuspensionReason(),
		Version:          o.Version(),
		CreatedAt:        audit.CreatedAt,
		CreatedBy:        audit.CreatedBy,
		UpdatedAt:        audit.UpdatedAt,
		UpdatedBy:        audit.UpdatedBy,
	}
}
