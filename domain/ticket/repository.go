package ticket

import (
	"context"

	"servicedesk/domain/shared"
)

// Repository Ticket repository interface
type Repository interface {
	// FindByID Find ticket by internal id, shared.ErrNotFound when missing
	FindByID(ctx context.Context, id string) (*Ticket, error)

	// FindByNumber Find ticket by its business identifier, nil when missing
	FindByNumber(ctx context.Context, number Number) (*Ticket, error)

	// FindBySpecification Find tickets matching spec
	FindBySpecification(ctx context.Context, spec shared.Specification[*Ticket]) ([]*Ticket, error)

	// NextNumber Reserve the next number for the given year
	NextNumber(ctx context.Context, year int) (Number, error)

	// Add Insert a new ticket and track it in the current unit of work
	Add(ctx context.Context, t *Ticket) error

	// Update Persist changes with optimistic locking and track it in the current unit of work
	Update(ctx context.Context, t *Ticket) error
}

type ByOrganizationSpecification struct {
	OrganizationID string
}

func (spec ByOrganizationSpecification) IsSatisfiedBy(_ context.Context, t *Ticket) bool {
	return t.OrganizationID() == spec.OrganizationID
}

type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(_ context.Context, t *Ticket) bool {
	return t.Status() == spec.Status
}
