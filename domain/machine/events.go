package machine

import "time"

type MachineRegisteredEvent struct {
	machineID      string
	organizationID string
	serialNumber   string
	model          string
	actorID        string
	occurredOn     time.Time
}

func NewMachineRegisteredEvent(machineID, organizationID, serialNumber, model, actorID string, at time.Time) *MachineRegisteredEvent {
	return &MachineRegisteredEvent{
		machineID:      machineID,
		organizationID: organizationID,
		serialNumber:   serialNumber,
		model:          model,
		actorID:        actorID,
		occurredOn:     at,
	}
}

func (e *MachineRegisteredEvent) EventName() string      { return "machine.registered" }
func (e *MachineRegisteredEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *MachineRegisteredEvent) GetAggregateID() string { return e.machineID }
func (e *MachineRegisteredEvent) OrganizationID() string { return e.organizationID }
func (e *MachineRegisteredEvent) SerialNumber() string   { return e.serialNumber }
func (e *MachineRegisteredEvent) Model() string          { return e.model }
func (e *MachineRegisteredEvent) ActorID() string        { return e.actorID }

type MachineStatusChangedEvent struct {
	machineID  string
	oldStatus  Status
	newStatus  Status
	actorID    string
	occurredOn time.Time
}

func NewMachineStatusChangedEvent(machineID string, oldStatus, newStatus Status, actorID string, at time.Time) *MachineStatusChangedEvent {
	return &MachineStatusChangedEvent{
		machineID:  machineID,
		oldStatus:  oldStatus,
		newStatus:  newStatus,
		actorID:    actorID,
		occurredOn: at,
	}
}

func (e *MachineStatusChangedEvent) EventName() string      { return "machine.status_changed" }
func (e *MachineStatusChangedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *MachineStatusChangedEvent) GetAggregateID() string { return e.machineID }
func (e *MachineStatusChangedEvent) OldStatus() string      { return string(e.oldStatus) }
func (e *MachineStatusChangedEvent) NewStatus() string      { return string(e.newStatus) }
func (e *MachineStatusChangedEvent) ActorID() string        { return e.actorID }
