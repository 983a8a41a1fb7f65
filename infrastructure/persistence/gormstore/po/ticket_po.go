package po

import (
	"time"

	"servicedesk/domain/ticket"
)

type TicketPO struct {
	ID             string    `gorm:"primaryKey;size:64"`
	Number         string    `gorm:"size:20;uniqueIndex;not null"`
	OrganizationID string    `gorm:"size:64;index;not null"`
	MachineID      string    `gorm:"size:64;index"`
	Title          string    `gorm:"size:200;not null"`
	Description    string    `gorm:"type:text"`
	Priority       string    `gorm:"size:20;not null"`
	Status         string    `gorm:"size:20;index;not null"`
	AssigneeID     string    `gorm:"size:64;index"`
	Version        int       `gorm:"default:0;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	CreatedBy      string    `gorm:"size:64"`
	UpdatedAt      time.Time `gorm:"not null"`
	UpdatedBy      string    `gorm:"size:64"`
}

func (TicketPO) TableName() string {
	return "tickets"
}

// TicketSequencePO 每年一行的工单序号计数器
type TicketSequencePO struct {
	Year  int `gorm:"primaryKey;autoIncrement:false"`
	Value int `gorm:"not null;default:0"`
}

func (TicketSequencePO) TableName() string {
	return "ticket_sequences"
}

func FromTicketDomain(t *ticket.Ticket) *TicketPO {
	audit := t.Audit()
	return &TicketPO{
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

// ToDomain 工单号在写入前已校验，解析失败说明数据损坏
func (po *TicketPO) ToDomain() (*ticket.Ticket, error) {
	number, err := ticket.ParseNumber(po.Number)
	if err != nil {
		return nil, err
	}
	return ticket.RebuildFromDTO(ticket.ReconstructionDTO{
		ID:             po.ID,
		Number:         number,
		OrganizationID: po.OrganizationID,
		MachineID:      po.MachineID,
		Title:          po.Title,
		Description:    po.Description,
		Priority:       ticket.Priority(po.Priority),
		Status:         ticket.Status(po.Status),
		AssigneeID:     po.AssigneeID,
		Version:        po.Version,
		Audit:          audit(po.CreatedAt, po.CreatedBy, po.UpdatedAt, po.UpdatedBy),
	}), nil
}
