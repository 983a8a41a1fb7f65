package memory

import (
	"context"
	"sort"

	"servicedesk/domain/shared"
	"servicedesk/domain/ticket"
)

type TicketRepository struct {
	store *Store
}

func NewTicketRepository(store *Store) *TicketRepository {
	return &TicketRepository{store: store}
}

func (r *TicketRepository) FindByID(_ context.Context, id string) (*ticket.Ticket, error) {
	var (
		dto   ticket.ReconstructionDTO
		found bool
	)
	r.store.read(func(d *dataset) {
		dto, found = d.tickets[id]
	})
	if !found {
		return nil, shared.NewNotFoundError("ticket", id)
	}
	return ticket.RebuildFromDTO(dto), nil
}

func (r *TicketRepository) FindByNumber(_ context.Context, number ticket.Number) (*ticket.Ticket, error) {
	var (
		dto   ticket.ReconstructionDTO
		found bool
	)
	r.store.read(func(d *dataset) {
		dto, found = findTicketByNumber(d, number)
	})
	if !found {
		return nil, nil
	}
	return ticket.RebuildFromDTO(dto), nil
}

// FindBySpecification 按工单号排序
func (r *TicketRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*ticket.Ticket]) ([]*ticket.Ticket, error) {
	var all []*ticket.Ticket
	r.store.read(func(d *dataset) {
		all = make([]*ticket.Ticket, 0, len(d.tickets))
		for _, dto := range d.tickets {
			all = append(all, ticket.RebuildFromDTO(dto))
		}
	})
	sort.Slice(all, func(i, j int) bool {
		return all[i].Number().String() < all[j].Number().String()
	})
	return shared.Filter(ctx, all, spec), nil
}

func (r *TicketRepository) NextNumber(_ context.Context, year int) (ticket.Number, error) {
	return ticket.NewNumber(year, r.store.nextSequence(year))
}

func (r *TicketRepository) Add(ctx context.Context, t *ticket.Ticket) error {
	dto := ticketToDTO(t)
	err := r.store.write(ctx, func(d *dataset) (func(), error) {
		if _, exists := d.tickets[dto.ID]; exists {
			return nil, shared.NewConflictError("ticket", "id", "ticket already exists: "+dto.ID)
		}
		if _, taken := findTicketByNumber(d, dto.Number); taken {
			return nil, ticket.NewDuplicateNumberError(dto.Number.String())
		}
		d.tickets[dto.ID] = dto
		return nil, nil
	})
	if err != nil {
		return err
	}
	shared.Track(ctx, t)
	return nil
}

func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	dto := ticketToDTO(t)
	err := r.store.write(ctx, func(d *dataset) (func(), error) {
		current, exists := d.tickets[dto.ID]
		if !exists {
			return nil, ticket.NewTicketNotFoundError(dto.Number.String())
		}
		if current.Version != dto.Version {
			return nil, shared.NewConcurrentModificationError("ticket", dto.Number.String())
		}
		dto.Version++
		d.tickets[dto.ID] = dto
		return t.IncrementVersionForSave, nil
	})
	if err != nil {
		return err
	}
	shared.Track(ctx, t)
	return nil
}

func findTicketByNumber(d *dataset, number ticket.Number) (ticket.ReconstructionDTO, bool) {
	for _, dto := range d.tickets {
		if dto.Number.Equals(number) {
			return dto, true
		}
	}
	return ticket.ReconstructionDTO{}, false
}

func ticketToDTO(t *ticket.Ticket) ticket.ReconstructionDTO {
	return ticket.ReconstructionDTO{
		ID:             t.ID(),
		Number:         t.Number(),
		OrganizationID: t.OrganizationID(),
		MachineID:      t.MachineID(),
		Title:          t.Title(),
		Description:    t.Description(),
		Priority:       t.Priority(),
		Status:         t.Status(),
		AssigneeID:     t.AssigneeID(),
		Version:        t.Version(),
		Audit:          t.Audit(),
	}
}

var _ ticket.Repository = (*TicketRepository)(nil)
