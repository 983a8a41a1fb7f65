/*
Package machine 设备子域

设备序列号全局唯一，统一规范化为大写后比较与存储。
*/
package machine

import (
	"strings"
	"time"

	"servicedesk/domain/shared"

	"github.com/google/uuid"
)

// Status 设备状态
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusRetired Status = "RETIRED"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusRetired
}

const (
	maxSerialLength = 64
	maxModelLength  = 100
)

// Machine 设备聚合根
type Machine struct {
	id             string
	organizationID string
	serialNumber   string
	model          string
	status         Status
	version        int
	audit          shared.Audit

	events []shared.DomainEvent
}

// NormalizeSerialNumber 去除首尾空白并转为大写
func NormalizeSerialNumber(serial string) string {
	return strings.ToUpper(strings.TrimSpace(serial))
}

// Register 登记新设备
// 组织是否允许登记由应用层事先检查，聚合只保证自身字段合法
func Register(organizationID, serialNumber, model, actorID string) (*Machine, error) {
	if organizationID == "" {
		return nil, ErrOrganizationRequired
	}
	serialNumber = NormalizeSerialNumber(serialNumber)
	if serialNumber == "" {
		return nil, ErrSerialNumberRequired
	}
	if len(serialNumber) > maxSerialLength {
		return nil, ErrSerialNumberTooLong
	}
	model = strings.TrimSpace(model)
	if len(model) > maxModelLength {
		return nil, ErrModelTooLong
	}

	now := time.Now()
	m := &Machine{
		id:             uuid.New().String(),
		organizationID: organizationID,
		serialNumber:   serialNumber,
		model:          model,
		status:         StatusActive,
		audit:          shared.NewAudit(actorID, now),
	}
	m.recordEvent(NewMachineRegisteredEvent(m.id, organizationID, serialNumber, model, actorID, now))
	return m, nil
}

// Retire 报废设备，不可逆
func (m *Machine) Retire(actorID string) error {
	if m.status == StatusRetired {
		return ErrAlreadyRetired
	}

	now := time.Now()
	old := m.status
	m.status = StatusRetired
	m.audit = m.audit.Touch(actorID, now)
	m.recordEvent(NewMachineStatusChangedEvent(m.id, old, StatusRetired, actorID, now))
	return nil
}

func (m *Machine) IsActive() bool { return m.status == StatusActive }

func (m *Machine) IncrementVersionForSave() {
	m.version++
}

func (m *Machine) ID() string             { return m.id }
func (m *Machine) OrganizationID() string { return m.organizationID }
func (m *Machine) SerialNumber() string   { return m.serialNumber }
func (m *Machine) Model() string          { return m.model }
func (m *Machine) Status() Status         { return m.status }
func (m *Machine) Version() int           { return m.version }
func (m *Machine) Audit() shared.Audit    { return m.audit }

func (m *Machine) PullEvents() []shared.DomainEvent {
	events := m.events
	m.events = nil
	return events
}

func (m *Machine) recordEvent(event shared.DomainEvent) {
	m.events = append(m.events, event)
}

// ReconstructionDTO 设备重建数据传输对象
// ⚠️ 仅限仓储实现使用
type ReconstructionDTO struct {
	ID             string
	OrganizationID string
	SerialNumber   string
	Model          string
	Status         Status
	Version        int
	Audit          shared.Audit
}

func RebuildFromDTO(dto ReconstructionDTO) *Machine {
	return &Machine{
		id:             dto.ID,
		organizationID: dto.OrganizationID,
		serialNumber:   dto.SerialNumber,
		model:          dto.Model,
		status:         dto.Status,
		version:        dto.Version,
		audit:          dto.Audit,
	}
}

var _ shared.AggregateRoot = (*Machine)(nil)
