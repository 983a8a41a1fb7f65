package organization

import "context"

// Repository Organization repository interface
type Repository interface {
	// FindByID 不存在时返回 shared.ErrNotFound
	FindByID(ctx context.Context, id string) (*Organization, error)

	// FindByName 不存在时返回 nil, nil
	FindByName(ctx context.Context, name string) (*Organization, error)

	Add(ctx context.Context, o *Organization) error
	Update(ctx context.Context, o *Organization) error
}
