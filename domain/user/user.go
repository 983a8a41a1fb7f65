package user

import (
	"strings"
	"time"

	"servicedesk/domain/shared"

	"github.com/google/uuid"
)

// Role 用户角色，与操作人角色共用取值
type Role = shared.Role

func IsValidRole(r Role) bool {
	switch r {
	case shared.RoleAdmin, shared.RoleTechnician, shared.RoleCustomer:
		return true
	}
	return false
}

// User 用户聚合根
//
// 聚合根特征：
// 1. 所有字段私有，通过方法暴露行为
// 2. 包含版本号用于乐观锁
// 3. 包含事件列表用于记录领域事件
type User struct {
	id             string
	name           string
	email          shared.Email
	role           Role
	organizationID string
	isActive       bool
	version        int
	audit          shared.Audit

	events []shared.DomainEvent
}

// Register 创建新用户；客户角色必须归属某个组织
func Register(name string, email shared.Email, role Role, organizationID, actorID string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewInvalidNameError()
	}
	if email.IsZero() {
		return nil, NewInvalidEmailError("")
	}
	if !IsValidRole(role) {
		return nil, NewInvalidRoleError(string(role))
	}
	if role == shared.RoleCustomer && organizationID == "" {
		return nil, NewOrganizationRequiredError()
	}

	now := time.Now()
	u := &User{
		id:             uuid.New().String(),
		name:           name,
		email:          email,
		role:           role,
		organizationID: organizationID,
		isActive:       true,
		audit:          shared.NewAudit(actorID, now),
	}
	u.events = append(u.events, NewUserRegisteredEvent(u.id, u.name, email.String(), role, actorID, now))
	return u, nil
}

// ============================================================================
// 领域行为方法
// ============================================================================

// Activate 激活用户
func (u *User) Activate(actorID string) {
	if u.isActive {
		return
	}
	u.isActive = true
	u.touch(actorID)
	u.events = append(u.events, NewUserActivationChangedEvent(u.id, false, true, actorID, u.audit.UpdatedAt))
}

// Deactivate 停用用户
func (u *User) Deactivate(actorID string) {
	if !u.isActive {
		return
	}
	u.isActive = false
	u.touch(actorID)
	u.events = append(u.events, NewUserActivationChangedEvent(u.id, true, false, actorID, u.audit.UpdatedAt))
}

// ChangeRole 变更角色；停用用户不能变更
func (u *User) ChangeRole(role Role, actorID string) error {
	if !IsValidRole(role) {
		return NewInvalidRoleError(string(role))
	}
	if !u.isActive {
		return NewUserNotActiveError(u.id)
	}
	if role == u.role {
		return nil
	}
	old := u.role
	u.role = role
	u.touch(actorID)
	u.events = append(u.events, NewUserRoleChangedEvent(u.id, old, role, actorID, u.audit.UpdatedAt))
	return nil
}

func (u *User) touch(actorID string) {
	u.audit = u.audit.Touch(actorID, time.Now())
}

func (u *User) IncrementVersionForSave() {
	u.version++
}

func (u *User) ID() string             { return u.id }
func (u *User) Name() string           { return u.name }
func (u *User) Email() shared.Email    { return u.email }
func (u *User) Role() Role             { return u.role }
func (u *User) OrganizationID() string { return u.organizationID }
func (u *User) IsActive() bool         { return u.isActive }
func (u *User) Version() int           { return u.version }
func (u *User) Audit() shared.Audit    { return u.audit }

func (u *User) PullEvents() []shared.DomainEvent {
	events := u.events
	u.events = nil
	return events
}

// ReconstructionDTO 用户重建数据传输对象
// ⚠️ 仅限仓储实现使用
type ReconstructionDTO struct {
	ID             string
	Name           string
	Email          string
	Role           Role
	OrganizationID string
	IsActive       bool
	Version        int
	Audit          shared.Audit
}

func RebuildFromDTO(dto ReconstructionDTO) (*User, error) {
	email, err := shared.NewEmail(dto.Email)
	if err != nil {
		return nil, err
	}
	return &User{
		id:             dto.ID,
		name:           dto.Name,
		email:          email,
		role:           dto.Role,
		organizationID: dto.OrganizationID,
		isActive:       dto.IsActive,
		version:        dto.Version,
		audit:          dto.Audit,
	}, nil
}

var _ shared.AggregateRoot = (*User)(nil)
