package user

import (
	"context"
	"strings"

	"servicedesk/domain/shared"
)

// Repository User repository interface
type Repository interface {
	// FindByID 不存在时返回 shared.ErrNotFound
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail 不存在时返回 nil, nil
	FindByEmail(ctx context.Context, email shared.Email) (*User, error)

	FindBySpecification(ctx context.Context, spec shared.Specification[*User]) ([]*User, error)

	Add(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
}

// ByEmailSpecification 按规范化邮箱匹配
type ByEmailSpecification struct {
	Email string
}

func (spec ByEmailSpecification) IsSatisfiedBy(_ context.Context, u *User) bool {
	return u.Email().Value() == strings.ToLower(strings.TrimSpace(spec.Email))
}

// ActiveUserSpecification 仅活跃用户
type ActiveUserSpecification struct{}

func (spec ActiveUserSpecification) IsSatisfiedBy(_ context.Context, u *User) bool {
	return u.IsActive()
}

// ByRoleSpecification 按角色筛选
type ByRoleSpecification struct {
	Role Role
}

func (spec ByRoleSpecification) IsSatisfiedBy(_ context.Context, u *User) bool {
	return u.Role() == spec.Role
}
