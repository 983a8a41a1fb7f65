/*
Package ticket 工单用例
*/
package ticket

import (
	"context"
	"errors"
	"time"

	"servicedesk/domain/machine"
	"servicedesk/domain/organization"
	"servicedesk/domain/shared"
	"servicedesk/domain/ticket"
	"servicedesk/domain/user"
)

// staffOnly 指派与状态变更只允许管理员和技术员
func staffOnly(actor shared.Actor, action string) error {
	if actor.HasRole(shared.RoleAdmin, shared.RoleTechnician) {
		return nil
	}
	return shared.NewForbiddenError("ticket", "only admins and technicians may "+action)
}

type OpenHandler struct {
	tickets       ticket.Repository
	organizations organization.Repository
	machines      machine.Repository
	actors        shared.ActorProvider
	now           func() time.Time
}

func NewOpenHandler(tickets ticket.Repository, organizations organization.Repository, machines machine.Repository, actors shared.ActorProvider) *OpenHandler {
	return &OpenHandler{tickets: tickets, organizations: organizations, machines: machines, actors: actors, now: time.Now}
}

func (h *OpenHandler) Handle(ctx context.Context, cmd OpenTicketCommand) (TicketDTO, error) {
	org, err := h.organizations.FindByID(ctx, cmd.OrganizationID)
	if err != nil {
		return TicketDTO{}, err
	}

	if cmd.MachineID != "" {
		m, err := h.machines.FindByID(ctx, cmd.MachineID)
		if err != nil {
			return TicketDTO{}, err
		}
		if m.OrganizationID() != org.ID() {
			return TicketDTO{}, shared.NewInvalidInputError("ticket", "machine_id", "machine does not belong to the organization")
		}
	}

	number, err := h.tickets.NextNumber(ctx, h.now().Year())
	if err != nil {
		return TicketDTO{}, err
	}

	t, err := ticket.Open(ticket.OpenOptions{
		Number:         number,
		OrganizationID: org.ID(),
		MachineID:      cmd.MachineID,
		Title:          cmd.Title,
		Description:    cmd.Description,
		Priority:       ticket.Priority(cmd.Priority),
		ActorID:        h.actors.CurrentActor(ctx).ID,
	})
	if err != nil {
		return TicketDTO{}, err
	}
	if err := h.tickets.Add(ctx, t); err != nil {
		return TicketDTO{}, err
	}
	return ToDTO(t), nil
}

type AssignHandler struct {
	tickets ticket.Repository
	users   user.Repository
	actors  shared.ActorProvider
}

func NewAssignHandler(tickets ticket.Repository, users user.Repository, actors shared.ActorProvider) *AssignHandler {
	return &AssignHandler{tickets: tickets, users: users, actors: actors}
}

func (h *AssignHandler) Handle(ctx context.Context, cmd AssignTicketCommand) (TicketDTO, error) {
	actor := h.actors.CurrentActor(ctx)
	if err := staffOnly(actor, "assign tickets"); err != nil {
		return TicketDTO{}, err
	}

	t, err := findByNumber(ctx, h.tickets, cmd.Number)
	if err != nil {
		return TicketDTO{}, err
	}

	assignee, err := h.users.FindByID(ctx, cmd.AssigneeID)
	if err != nil {
		return TicketDTO{}, err
	}
	if !assignee.IsActive() || assignee.Role() == shared.RoleCustomer {
		return TicketDTO{}, shared.NewInvalidInputError("ticket", "assignee_id", "assignee must be an active admin or technician")
	}

	if err := t.Assign(assignee.ID(), actor.ID); err != nil {
		if errors.Is(err, ticket.ErrTicketClosed) {
			return TicketDTO{}, shared.NewConflictError("ticket", "status", err.Error())
		}
		return TicketDTO{}, err
	}
	if err := h.tickets.Update(ctx, t); err != nil {
		return TicketDTO{}, err
	}
	return ToDTO(t), nil
}

type ChangeStatusHandler struct {
	tickets ticket.Repository
	actors  shared.ActorProvider
}

func NewChangeStatusHandler(tickets ticket.Repository, actors shared.ActorProvider) *ChangeStatusHandler {
	return &ChangeStatusHandler{tickets: tickets, actors: actors}
}

func (h *ChangeStatusHandler) Handle(ctx context.Context, cmd ChangeTicketStatusCommand) (shared.Result[TicketDTO], error) {
	actor := h.actors.CurrentActor(ctx)
	if err := staffOnly(actor, "change ticket status"); err != nil {
		return shared.Result[TicketDTO]{}, err
	}

	t, err := findByNumber(ctx, h.tickets, cmd.Number)
	if err != nil {
		return shared.Result[TicketDTO]{}, err
	}

	if err := t.ChangeStatus(ticket.Status(cmd.Status), actor.ID); err != nil {
		if errors.Is(err, ticket.ErrInvalidStatusTransition) {
			return shared.Failure[TicketDTO](err.Error()), nil
		}
		return shared.Result[TicketDTO]{}, err
	}
	if err := h.tickets.Update(ctx, t); err != nil {
		return shared.Result[TicketDTO]{}, err
	}
	return shared.Success(ToDTO(t)), nil
}

type GetHandler struct {
	tickets ticket.Repository
}

func NewGetHandler(tickets ticket.Repository) *GetHandler {
	return &GetHandler{tickets: tickets}
}

func (h *GetHandler) Handle(ctx context.Context, q GetTicketQuery) (TicketDTO, error) {
	t, err := findByNumber(ctx, h.tickets, q.Number)
	if err != nil {
		return TicketDTO{}, err
	}
	return ToDTO(t), nil
}

type ListHandler struct {
	tickets ticket.Repository
}

func NewListHandler(tickets ticket.Repository) *ListHandler {
	return &ListHandler{tickets: tickets}
}

func (h *ListHandler) Handle(ctx context.Context, q ListTicketsQuery) ([]TicketDTO, error) {
	var spec shared.Specification[*ticket.Ticket] = ticket.ByOrganizationSpecification{OrganizationID: q.OrganizationID}
	if q.Status != "" {
		spec = shared.And[*ticket.Ticket](spec, ticket.ByStatusSpecification{Status: ticket.Status(q.Status)})
	}
	tickets, err := h.tickets.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, err
	}
	return ToDTOs(tickets), nil
}

// findByNumber 工单号格式已由校验器保证；仓储返回 nil 时转换为 NotFound
func findByNumber(ctx context.Context, repo ticket.Repository, raw string) (*ticket.Ticket, error) {
	number, err := ticket.ParseNumber(raw)
	if err != nil {
		return nil, err
	}
	t, err := repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ticket.NewTicketNotFoundError(number.String())
	}
	return t, nil
}
