/*
Package application 用例装配

把各子域的处理器与校验器注册到同一个分发器上，管道顺序固定为
Logging → Validation → UnitOfWork → Handler。
*/
package application

import (
	"servicedesk/application/behavior"
	"servicedesk/application/machine"
	"servicedesk/application/mediator"
	"servicedesk/application/organization"
	"servicedesk/application/ticket"
	"servicedesk/application/user"
	"servicedesk/application/validation"
	domainmachine "servicedesk/domain/machine"
	domainorganization "servicedesk/domain/organization"
	"servicedesk/domain/shared"
	domainticket "servicedesk/domain/ticket"
	domainuser "servicedesk/domain/user"
)

// Repositories 全部仓储
type Repositories struct {
	Organizations domainorganization.Repository
	Machines      domainmachine.Repository
	Tickets       domainticket.Repository
	Users         domainuser.Repository
}

// NewMediator 创建分发器并注册全部用例
func NewMediator(opts behavior.Options, repos Repositories) *mediator.Mediator {
	if opts.Actors == nil {
		opts.Actors = shared.ContextActorProvider
	}
	if opts.Validators == nil {
		opts.Validators = validation.NewRegistry()
	}

	m := mediator.New(behavior.Pipeline(opts)...)

	organization.Register(m, opts.Validators, repos.Organizations, opts.Actors)
	machine.Register(m, opts.Validators, repos.Machines, repos.Organizations, opts.Actors)
	ticket.Register(m, opts.Validators, ticket.Repositories{
		Tickets:       repos.Tickets,
		Organizations: repos.Organizations,
		Machines:      repos.Machines,
		Users:         repos.Users,
	}, opts.Actors)
	user.Register(m, opts.Validators, repos.Users, repos.Organizations, opts.Actors)

	return m
}
