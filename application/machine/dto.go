package machine

import (
	"time"

	"servicedesk/domain/machine"
)

// MachineDTO 设备返回模型
type MachineDTO struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	SerialNumber   string    `json:"serial_number"`
	Model          string    `json:"model"`
	Status         string    `json:"status"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToDTO(m *machine.Machine) MachineDTO {
	return MachineDTO{
		ID:             m.ID(),
		OrganizationID: m.OrganizationID(),
		SerialNumber:   m.SerialNumber(),
		Model:          m.Model(),
		Status:         string(m.Status()),
		Version:        m.Version(),
		CreatedAt:      m.Audit().CreatedAt,
		UpdatedAt:      m.Audit().UpdatedAt,
	}
}

func ToDTOs(machines []*machine.Machine) []MachineDTO {
	dtos := make([]MachineDTO, len(machines))
	for i, m := range machines {
		dtos[i] = ToDTO(m)
	}
	return dtos
}
