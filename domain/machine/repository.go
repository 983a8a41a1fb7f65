package machine

import (
	"context"

	"servicedesk/domain/shared"
)

// Repository Machine repository interface
type Repository interface {
	// FindByID 不存在时返回 shared.ErrNotFound
	FindByID(ctx context.Context, id string) (*Machine, error)

	// FindBySerialNumber 不存在时返回 nil, nil
	FindBySerialNumber(ctx context.Context, serialNumber string) (*Machine, error)

	FindBySpecification(ctx context.Context, spec shared.Specification[*Machine]) ([]*Machine, error)

	Add(ctx context.Context, m *Machine) error
	Update(ctx context.Context, m *Machine) error
}
