package ticket

import (
	"time"

	"servicedesk/domain/ticket"
)

// TicketDTO 工单返回模型
type TicketDTO struct {
	ID             string    `json:"id"`
	Number         string    `json:"number"`
	OrganizationID string    `json:"organization_id"`
	MachineID      string    `json:"machine_id,omitempty"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Priority       string    `json:"priority"`
	Status         string    `json:"status"`
	AssigneeID     string    `json:"assignee_id,omitempty"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      string    `json:"created_by"`
	UpdatedAt      time.Time `json:"updated_at"`
	UpdatedBy      string    `json:"updated_by"`
}

func ToDTO(t *ticket.Ticket) TicketDTO {
	audit := t.Audit()
	return TicketDTO{
		ID:             t.ID(),
		Number:         t.Number().String(),
		OrganizationID: t.OrganizationID(),
		MachineID:      t.MachineID(),
		Title:          t.Title(),
		Description:    t.Description(),
		Priority:       string(t.Priority()),
		Status:         string(t.Status()),
		AssigneeID:     t.AssigneeID(),
		Version:        t.Version(),
		CreatedAt:      audit.CreatedAt,
		CreatedBy:      audit.CreatedBy,
		UpdatedAt:      audit.UpdatedAt,
		UpdatedBy:      audit.UpdatedBy,
	}
}

func ToDTOs(tickets []*ticket.Ticket) []TicketDTO {
	dtos := make([]TicketDTO, len(tickets))
	for i, t := range tickets {
		dtos[i] = ToDTO(t)
	}
	return dtos
}
