package user

import (
	"strconv"
	"time"
)

type UserRegisteredEvent struct {
	userID     string
	name       string
	email      string
	role       Role
	actorID    string
	occurredOn time.Time
}

func NewUserRegisteredEvent(userID, name, email string, role Role, actorID string, at time.Time) *UserRegisteredEvent {
	return &UserRegisteredEvent{userID: userID, name: name, email: email, role: role, actorID: actorID, occurredOn: at}
}

func (e *UserRegisteredEvent) EventName() string      { return "user.registered" }
func (e *UserRegisteredEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *UserRegisteredEvent) GetAggregateID() string { return e.userID }
func (e *UserRegisteredEvent) Name() string           { return e.name }
func (e *UserRegisteredEvent) Email() string          { return e.email }
func (e *UserRegisteredEvent) Role() Role             { return e.role }
func (e *UserRegisteredEvent) ActorID() string        { return e.actorID }

// UserActivationChangedEvent 激活状态变化，状态以 "true"/"false" 表示
type UserActivationChangedEvent struct {
	userID     string
	wasActive  bool
	isActive   bool
	actorID    string
	occurredOn time.Time
}

func NewUserActivationChangedEvent(userID string, wasActive, isActive bool, actorID string, at time.Time) *UserActivationChangedEvent {
	return &UserActivationChangedEvent{userID: userID, wasActive: wasActive, isActive: isActive, actorID: actorID, occurredOn: at}
}

func (e *UserActivationChangedEvent) EventName() string      { return "user.activation_changed" }
func (e *UserActivationChangedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *UserActivationChangedEvent) GetAggregateID() string { return e.userID }
func (e *UserActivationChangedEvent) OldStatus() string      { return strconv.FormatBool(e.wasActive) }
func (e *UserActivationChangedEvent) NewStatus() string      { return strconv.FormatBool(e.isActive) }
func (e *UserActivationChangedEvent) ActorID() string        { return e.actorID }

type UserRoleChangedEvent struct {
	userID     string
	oldRole    Role
	newRole    Role
	actorID    string
	occurredOn time.Time
}

func NewUserRoleChangedEvent(userID string, oldRole, newRole Role, actorID string, at time.Time) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{userID: userID, oldRole: oldRole, newRole: newRole, actorID: actorID, occurredOn: at}
}

func (e *UserRoleChangedEvent) EventName() string      { return "user.role_changed" }
func (e *UserRoleChangedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *UserRoleChangedEvent) GetAggregateID() string { return e.userID }
func (e *UserRoleChangedEvent) OldStatus() string      { return string(e.oldRole) }
func (e *UserRoleChangedEvent) NewStatus() string      { return string(e.newRole) }
func (e *UserRoleChangedEvent) ActorID() string        { return e.actorID }
