package organization

import "time"

type OrganizationRegisteredEvent struct {
	organizationID string
	name           string
	contactEmail   string
	actorID        string
	occurredOn     time.Time
}

func NewOrganizationRegisteredEvent(organizationID, name, contactEmail, actorID string, at time.Time) *OrganizationRegisteredEvent {
	return &OrganizationRegisteredEvent{
		organizationID: organizationID,
		name:           name,
		contactEmail:   contactEmail,
		actorID:        actorID,
		occurredOn:     at,
	}
}

func (e *OrganizationRegisteredEvent) EventName() string      { return "organization.registered" }
func (e *OrganizationRegisteredEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrganizationRegisteredEvent) GetAggregateID() string { return e.organizationID }
func (e *OrganizationRegisteredEvent) Name() string           { return e.name }
func (e *OrganizationRegisteredEvent) ContactEmail() string   { return e.contactEmail }
func (e *OrganizationRegisteredEvent) ActorID() string        { return e.actorID }

type OrganizationStatusChangedEvent struct {
	organizationID string
	oldStatus      Status
	newStatus      Status
	reason         string
	actorID        string
	occurredOn     time.Time
}

func NewOrganizationStatusChangedEvent(organizationID string, oldStatus, newStatus Status, reason, actorID string, at time.Time) *OrganizationStatusChangedEvent {
	return &OrganizationStatusChangedEvent{
		organizationID: organizationID,
		oldStatus:      oldStatus,
		newStatus:      newStatus,
		reason:         reason,
		actorID:        actorID,
		occurredOn:     at,
	}
}

func (e *OrganizationStatusChangedEvent) EventName() string      { return "organization.status_changed" }
func (e *OrganizationStatusChangedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrganizationStatusChangedEvent) GetAggregateID() string { return e.organizationID }
func (e *OrganizationStatusChangedEvent) OldStatus() string      { return string(e.oldStatus) }
func (e *OrganizationStatusChangedEvent) NewStatus() string      { return string(e.newStatus) }
func (e *OrganizationStatusChangedEvent) Reason() string         { return e.reason }
func (e *OrganizationStatusChangedEvent) ActorID() string        { return e.actorID }
