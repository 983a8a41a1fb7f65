/*
Package ticket 工单子域

工单聚合根维护自身状态机：每一次有意义的状态迁移都会在聚合内记录一条领域事件，
事件在工作单元提交成功后被取出，回滚时被丢弃，永远不会被持久化。
*/
package ticket

import (
	"strings"
	"time"

	"servicedesk/domain/shared"

	"github.com/google/uuid"
)

// Status 工单状态
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
)

// transitions 允许的状态迁移表
var transitions = map[Status][]Status{
	StatusOpen:       {StatusInProgress, StatusResolved, StatusClosed},
	StatusInProgress: {StatusOpen, StatusResolved, StatusClosed},
	StatusResolved:   {StatusInProgress, StatusClosed},
	StatusClosed:     {},
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo 判断是否允许迁移到目标状态
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Priority 工单优先级
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Ticket 工单聚合根
type Ticket struct {
	id             string
	number         Number
	organizationID string
	machineID      string
	title          string
	description    string
	priority       Priority
	status         Status
	assigneeID     string
	version        int
	audit          shared.Audit

	events []shared.DomainEvent
}

// OpenOptions 开单参数
type OpenOptions struct {
	Number         Number
	OrganizationID string
	MachineID      string
	Title          string
	Description    string
	Priority       Priority
	ActorID        string
}

// Open 开立新工单，这是创建 Ticket 的唯一入口
func Open(opts OpenOptions) (*Ticket, error) {
	if opts.Number.IsZero() {
		return nil, ErrNumberRequired
	}
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if opts.OrganizationID == "" {
		return nil, ErrOrganizationRequired
	}
	priority := opts.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	now := time.Now()
	t := &Ticket{
		id:             uuid.New().String(),
		number:         opts.Number,
		organizationID: opts.OrganizationID,
		machineID:      opts.MachineID,
		title:          title,
		description:    strings.TrimSpace(opts.Description),
		priority:       priority,
		status:         StatusOpen,
		audit:          shared.NewAudit(opts.ActorID, now),
	}

	t.recordEvent(NewTicketOpenedEvent(t.id, t.number, t.organizationID, t.machineID, t.priority, opts.ActorID, now))
	return t, nil
}

// Assign 指派处理人
func (t *Ticket) Assign(assigneeID, actorID string) error {
	if t.status == StatusClosed {
		return ErrTicketClosed
	}
	if assigneeID == "" {
		return ErrAssigneeRequired
	}
	if assigneeID == t.assigneeID {
		return nil
	}

	now := time.Now()
	previous := t.assigneeID
	t.assigneeID = assigneeID
	t.audit = t.audit.Touch(actorID, now)
	t.recordEvent(NewTicketAssignedEvent(t.id, t.number, previous, assigneeID, actorID, now))
	return nil
}

// ChangeStatus 按迁移表变更状态；不允许的迁移返回 ErrInvalidStatusTransition
func (t *Ticket) ChangeStatus(target Status, actorID string) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	if !t.status.CanTransitionTo(target) {
		return NewInvalidStatusTransitionError(t.status, target)
	}

	now := time.Now()
	old := t.status
	t.status = target
	t.audit = t.audit.Touch(actorID, now)
	t.recordEvent(NewTicketStatusChangedEvent(t.id, t.number, old, target, actorID, now))
	return nil
}

// IncrementVersionForSave 持久化成功后由仓储调用
func (t *Ticket) IncrementVersionForSave() {
	t.version++
}

func (t *Ticket) ID() string             { return t.id }
func (t *Ticket) Number() Number         { return t.number }
func (t *Ticket) OrganizationID() string { return t.organizationID }
func (t *Ticket) MachineID() string      { return t.machineID }
func (t *Ticket) Title() string          { return t.title }
func (t *Ticket) Description() string    { return t.description }
func (t *Ticket) Priority() Priority     { return t.priority }
func (t *Ticket) Status() Status         { return t.status }
func (t *Ticket) AssigneeID() string     { return t.assigneeID }
func (t *Ticket) Version() int           { return t.version }
func (t *Ticket) Audit() shared.Audit    { return t.audit }

// PendingEvents 返回尚未取出的事件数量
func (t *Ticket) PendingEvents() int { return len(t.events) }

// PullEvents 获取并清空聚合根的事件列表
func (t *Ticket) PullEvents() []shared.DomainEvent {
	events := t.events
	t.events = nil
	return events
}

func (t *Ticket) recordEvent(event shared.DomainEvent) {
	t.events = append(t.events, event)
}

// ReconstructionDTO 工单重建数据传输对象
// ⚠️ 仅限仓储实现使用
type ReconstructionDTO struct {
	ID             string
	Number         Number
	OrganizationID string
	MachineID      string
	Title          string
	Description    string
	Priority       Priority
	Status         Status
	AssigneeID     string
	Version        int
	Audit          shared.Audit
}

// RebuildFromDTO 从持久化数据重建聚合根，事件列表为空
func RebuildFromDTO(dto ReconstructionDTO) *Ticket {
	return &Ticket{
		id:             dto.ID,
		number:         dto.Number,
		organizationID: dto.OrganizationID,
		machineID:      dto.MachineID,
		title:          dto.Title,
		description:    dto.Description,
		priority:       dto.Priority,
		status:         dto.Status,
		assigneeID:     dto.AssigneeID,
		version:        dto.Version,
		audit:          dto.Audit,
	}
}

var _ shared.AggregateRoot = (*Ticket)(nil)
