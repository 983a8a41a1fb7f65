package ticket

import "time"

type TicketOpenedEvent struct {
	ticketID       string
	number         string
	organizationID string
	machineID      string
	priority       Priority
	actorID        string
	occurredOn     time.Time
}

func NewTicketOpenedEvent(ticketID string, number Number, organizationID, machineID string, priority Priority, actorID string, at time.Time) *TicketOpenedEvent {
	return &TicketOpenedEvent{
		ticketID:       ticketID,
		number:         number.String(),
		organizationID: organizationID,
		machineID:      machineID,
		priority:       priority,
		actorID:        actorID,
		occurredOn:     at,
	}
}

func (e *TicketOpenedEvent) EventName() string      { return "ticket.opened" }
func (e *TicketOpenedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *TicketOpenedEvent) GetAggregateID() string { return e.ticketID }
func (e *TicketOpenedEvent) Number() string         { return e.number }
func (e *TicketOpenedEvent) OrganizationID() string { return e.organizationID }
func (e *TicketOpenedEvent) MachineID() string      { return e.machineID }
func (e *TicketOpenedEvent) Priority() Priority     { return e.priority }
func (e *TicketOpenedEvent) ActorID() string        { return e.actorID }

type TicketAssignedEvent struct {
	ticketID   string
	number     string
	previous   string
	assigneeID string
	actorID    string
	occurredOn time.Time
}

func NewTicketAssignedEvent(ticketID string, number Number, previous, assigneeID, actorID string, at time.Time) *TicketAssignedEvent {
	return &TicketAssignedEvent{
		ticketID:   ticketID,
		number:     number.String(),
		previous:   previous,
		assigneeID: assigneeID,
		actorID:    actorID,
		occurredOn: at,
	}
}

func (e *TicketAssignedEvent) EventName() string          { return "ticket.assigned" }
func (e *TicketAssignedEvent) OccurredOn() time.Time      { return e.occurredOn }
func (e *TicketAssignedEvent) GetAggregateID() string     { return e.ticketID }
func (e *TicketAssignedEvent) Number() string             { return e.number }
func (e *TicketAssignedEvent) PreviousAssigneeID() string { return e.previous }
func (e *TicketAssignedEvent) AssigneeID() string         { return e.assigneeID }
func (e *TicketAssignedEvent) ActorID() string            { return e.actorID }

// TicketStatusChangedEvent 记录状态迁移（旧状态、新状态、操作人、时间）
type TicketStatusChangedEvent struct {
	ticketID   string
	number     string
	oldStatus  Status
	newStatus  Status
	actorID    string
	occurredOn time.Time
}

func NewTicketStatusChangedEvent(ticketID string, number Number, oldStatus, newStatus Status, actorID string, at time.Time) *TicketStatusChangedEvent {
	return &TicketStatusChangedEvent{
		ticketID:   ticketID,
		number:     number.String(),
		oldStatus:  oldStatus,
		newStatus:  newStatus,
		actorID:    actorID,
		occurredOn: at,
	}
}

func (e *TicketStatusChangedEvent) EventName() string      { return "ticket.status_changed" }
func (e *TicketStatusChangedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *TicketStatusChangedEvent) GetAggregateID() string { return e.ticketID }
func (e *TicketStatusChangedEvent) Number() string         { return e.number }
func (e *TicketStatusChangedEvent) OldStatus() string      { return string(e.oldStatus) }
func (e *TicketStatusChangedEvent) NewStatus() string      { return string(e.newStatus) }
func (e *TicketStatusChangedEvent) ActorID() string        { return e.actorID }
