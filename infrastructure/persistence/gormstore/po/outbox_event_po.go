package po

import (
	"encoding/json"
	"time"

	"servicedesk/domain/shared"
	"servicedesk/domain/ticket"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OutboxEventPO Outbox event persistence object
// Implements transactional outbox pattern for reliable event publishing
type OutboxEventPO struct {
	ID          string         `gorm:"primaryKey;size:64"`
	AggregateID string         `gorm:"size:64;index;not null"`
	EventType   string         `gorm:"size:100;index;not null"` // e.g., "ticket.opened", "machine.registered"
	Payload     datatypes.JSON `gorm:"not null"`
	Status      string         `gorm:"size:20;index;default:PENDING;not null"` // PENDING, PROCESSING, PUBLISHED, FAILED
	RetryCount  int            `gorm:"default:0;not null"`
	LastError   string         `gorm:"size:1000"`
	OccurredOn  time.Time      `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"index;not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
}

func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus Outbox event status enum
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// FromDomainEvent Convert domain event to outbox persistence object
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload, err := json.Marshal(EventPayload(event))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &OutboxEventPO{
		ID:          uuid.New().String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     datatypes.JSON(payload),
		Status:      string(EventStatusPending),
		OccurredOn:  event.OccurredOn(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// EventPayload 事件字段都是私有的，按已知的访问器收集载荷
func EventPayload(event shared.DomainEvent) map[string]any {
	data := map[string]any{
		"event_name":   event.EventName(),
		"aggregate_id": event.GetAggregateID(),
		"occurred_on":  event.OccurredOn(),
	}

	if e, ok := event.(interface{ ActorID() string }); ok {
		data["actor_id"] = e.ActorID()
	}
	if e, ok := event.(interface{ Number() string }); ok {
		data["number"] = e.Number()
	}
	if e, ok := event.(interface{ OrganizationID() string }); ok {
		data["organization_id"] = e.OrganizationID()
	}
	if e, ok := event.(interface{ MachineID() string }); ok && e.MachineID() != "" {
		data["machine_id"] = e.MachineID()
	}
	if e, ok := event.(interface{ AssigneeID() string }); ok {
		data["assignee_id"] = e.AssigneeID()
	}
	if e, ok := event.(interface{ PreviousAssigneeID() string }); ok && e.PreviousAssigneeID() != "" {
		data["previous_assignee_id"] = e.PreviousAssigneeID()
	}
	if e, ok := event.(interface{ Priority() ticket.Priority }); ok {
		data["priority"] = string(e.Priority())
	}
	if e, ok := event.(interface{ SerialNumber() string }); ok {
		data["serial_number"] = e.SerialNumber()
		if m, ok := event.(interface{ Model() string }); ok {
			data["model"] = m.Model()
		}
	}
	if e, ok := event.(interface{ Name() string }); ok {
		data["name"] = e.Name()
	}
	if e, ok := event.(interface{ Email() string }); ok {
		data["email"] = e.Email()
	}
	if e, ok := event.(interface{ ContactEmail() string }); ok {
		data["contact_email"] = e.ContactEmail()
	}
	if e, ok := event.(interface{ Role() shared.Role }); ok {
		data["role"] = string(e.Role())
	}
	if e, ok := event.(interface{ Reason() string }); ok && e.Reason() != "" {
		data["reason"] = e.Reason()
	}

	// 状态、角色、激活状态的变化统一以旧值和新值表示
	if transition, ok := event.(shared.StatusTransition); ok {
		data["old_status"] = transition.OldStatus()
		data["new_status"] = transition.NewStatus()
	}
	return data
}

// ToEventData Extract event data from outbox PO (for debugging/testing)
func (po *OutboxEventPO) ToEventData() (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(po.Payload, &data); err != nil {
		return nil, err
	}
	return data, nil
}
