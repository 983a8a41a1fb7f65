package ticket

import (
	"context"

	"servicedesk/application/mediator"
	"servicedesk/application/validation"
	"servicedesk/domain/machine"
	"servicedesk/domain/organization"
	"servicedesk/domain/shared"
	"servicedesk/domain/ticket"
	"servicedesk/domain/user"
)

// Repositories 工单用例依赖的仓储
type Repositories struct {
	Tickets       ticket.Repository
	Organizations organization.Repository
	Machines      machine.Repository
	Users         user.Repository
}

// validNumber 工单号必须能被解析，空值交给 required
func validNumber[R any](get func(R) string) validation.Rule[R] {
	return func(_ context.Context, req R, errs validation.Errors) {
		raw := get(req)
		if raw == "" {
			return
		}
		if _, err := ticket.ParseNumber(raw); err != nil {
			errs.Add("number", err.Error())
		}
	}
}

// Register 注册工单用例的处理器与校验器
func Register(m *mediator.Mediator, validators *validation.Registry, repos Repositories, actors shared.ActorProvider) {
	mediator.MustRegister[OpenTicketCommand, TicketDTO](m, NewOpenHandler(repos.Tickets, repos.Organizations, repos.Machines, actors))
	mediator.MustRegister[AssignTicketCommand, TicketDTO](m, NewAssignHandler(repos.Tickets, repos.Users, actors))
	mediator.MustRegister[ChangeTicketStatusCommand, shared.Result[TicketDTO]](m, NewChangeStatusHandler(repos.Tickets, actors))
	mediator.MustRegister[GetTicketQuery, TicketDTO](m, NewGetHandler(repos.Tickets))
	mediator.MustRegister[ListTicketsQuery, []TicketDTO](m, NewListHandler(repos.Tickets))

	validation.MustRegister[OpenTicketCommand](validators, validation.For(
		validation.NotBlank("title", func(c OpenTicketCommand) string { return c.Title }),
	))
	validation.MustRegister[AssignTicketCommand](validators, validation.For(
		validNumber(func(c AssignTicketCommand) string { return c.Number }),
	))
	validation.MustRegister[ChangeTicketStatusCommand](validators, validation.For(
		validNumber(func(c ChangeTicketStatusCommand) string { return c.Number }),
	))
	validation.MustRegister[GetTicketQuery](validators, validation.For(
		validNumber(func(q GetTicketQuery) string { return q.Number }),
	))
	validation.MustRegister[ListTicketsQuery](validators, validation.For[ListTicketsQuery]())
}
