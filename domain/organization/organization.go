/*
Package organization 客户组织子域

组织决定了其名下是否可以登记设备：只有处于 Active 状态的组织才能登记设备，
这条规则由聚合自己回答（CanRegisterMachines），应用层据此返回业务拒绝结果。
*/
package organization

import (
	"strings"
	"time"

	"servicedesk/domain/shared"

	"github.com/google/uuid"
)

// Status 组织状态
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended:
		return true
	}
	return false
}

const maxNameLength = 200

// Organization 组织聚合根
type Organization struct {
	id               string
	name             string
	contactEmail     shared.Email
	status           Status
	suspensionReason string
	version          int
	audit            shared.Audit

	events []shared.DomainEvent
}

// Register 登记新组织，初始状态为 Pending
func Register(name string, contactEmail shared.Email, actorID string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(name) > maxNameLength {
		return nil, ErrNameTooLong
	}
	if contactEmail.IsZero() {
		return nil, ErrContactEmailRequired
	}

	now := time.Now()
	o := &Organization{
		id:           uuid.New().String(),
		name:         name,
		contactEmail: contactEmail,
		status:       StatusPending,
		audit:        shared.NewAudit(actorID, now),
	}
	o.recordEvent(NewOrganizationRegisteredEvent(o.id, o.name, contactEmail.String(), actorID, now))
	return o, nil
}

// Activate 激活组织；已激活时为幂等操作
func (o *Organization) Activate(actorID string) error {
	if o.status == StatusActive {
		return nil
	}
	o.suspensionReason = ""
	o.transition(StatusActive, actorID)
	return nil
}

// Suspend 暂停组织，必须给出原因
func (o *Organization) Suspend(reason, actorID string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrSuspensionReasonRequired
	}
	if o.status == StatusSuspended {
		return ErrAlreadySuspended
	}
	o.suspensionReason = reason
	o.transition(StatusSuspended, actorID)
	return nil
}

// CanRegisterMachines 只有 Active 组织可以登记设备
func (o *Organization) CanRegisterMachines() bool {
	return o.status == StatusActive
}

func (o *Organization) transition(target Status, actorID string) {
	now := time.Now()
	old := o.status
	o.status = target
	o.audit = o.audit.Touch(actorID, now)
	o.recordEvent(NewOrganizationStatusChangedEvent(o.id, old, target, o.suspensionReason, actorID, now))
}

func (o *Organization) IncrementVersionForSave() {
	o.version++
}

func (o *Organization) ID() string                 { return o.id }
func (o *Organization) Name() string               { return o.name }
func (o *Organization) ContactEmail() shared.Email { return o.contactEmail }
func (o *Organization) Status() Status             { return o.status }
func (o *Organization) SuspensionReason() string   { return o.suspensionReason }
func (o *Organization) Version() int               { return o.version }
func (o *Organization) Audit() shared.Audit        { return o.audit }

func (o *Organization) PullEvents() []shared.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

func (o *Organization) recordEvent(event shared.DomainEvent) {
	o.events = append(o.events, event)
}

// ReconstructionDTO 组织重建数据传输对象
// ⚠️ 仅限仓储实现使用
type ReconstructionDTO struct {
	ID               string
	Name             string
	ContactEmail     string
	Status           Status
	SuspensionReason string
	Version          int
	Audit            shared.Audit
}

// RebuildFromDTO 从持久化数据重建组织
// 数据库中的邮箱已经校验过，解析失败说明数据损坏，返回错误而不是静默忽略
func RebuildFromDTO(dto ReconstructionDTO) (*Organization, error) {
	email, err := shared.NewEmail(dto.ContactEmail)
	if err != nil {
		return nil, err
	}
	return &Organization{
		id:               dto.ID,
		name:             dto.Name,
		contactEmail:     email,
		status:           dto.Status,
		suspensionReason: dto.SuspensionReason,
		version:          dto.Version,
		audit:            dto.Audit,
	}, nil
}

var _ shared.AggregateRoot = (*Organization)(nil)
