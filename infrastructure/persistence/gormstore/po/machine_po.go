package po

import (
	"time"

	"servicedesk/domain/machine"
)

type MachinePO struct {
	ID             string    `gorm:"primaryKey;size:64"`
	OrganizationID string    `gorm:"size:64;index;not null"`
	SerialNumber   string    `gorm:"size:100;uniqueIndex;not null"`
	Model          string    `gorm:"size:200"`
	Status         string    `gorm:"size:20;index;not null"`
	Version        int       `gorm:"default:0;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	CreatedBy      string    `gorm:"size:64"`
	UpdatedAt      time.Time `gorm:"not null"`
	UpdatedBy      string    `gorm:"size:64"`
}

func (MachinePO) TableName() string {
	return "machines"
}

func FromMachineDomain(m *machine.Machine) *MachinePO {
	audit := m.Audit()
	return &MachinePO{
		ID:             m.ID(),
		OrganizationID: m.OrganizationID(),
		SerialNumber:   m.SerialNumber(),
		Model:          m.Model(),
		Status:         string(m.Status()),
		Version:        m.Version(),
		CreatedAt:      audit.CreatedAt,
		CreatedBy:      audit.CreatedBy,
		UpdatedAt:      audit.UpdatedAt,
		UpdatedBy:      audit.UpdatedBy,
	}
}

func (po *MachinePO) ToDomain() *machine.Machine {
	return machine.RebuildFromDTO(machine.ReconstructionDTO{
		ID:             po.ID,
		OrganizationID: po.OrganizationID,
		SerialNumber:   po.SerialNumber,
		Model:          po.Model,
		Status:         machine.Status(po.Status),
		Version:        po.Version,
		Audit:          audit(po.CreatedAt, po.CreatedBy, po.UpdatedAt, po.UpdatedBy),
	})
}
