package organization

import (
	"servicedesk/application/mediator"
	"servicedesk/application/validation"
	"servicedesk/domain/organization"
	"servicedesk/domain/shared"
)

// Register 注册组织用例的处理器与校验器
func Register(m *mediator.Mediator, validators *validation.Registry, repo organization.Repository, actors shared.ActorProvider) {
	mediator.MustRegister[RegisterOrganizationCommand, OrganizationDTO](m, NewRegisterHandler(repo, actors))
	mediator.MustRegister[ActivateOrganizationCommand, OrganizationDTO](m, NewActivateHandler(repo, actors))
	mediator.MustRegister[SuspendOrganizationCommand, OrganizationDTO](m, NewSuspendHandler(repo, actors))
	mediator.MustRegister[GetOrganizationQuery, OrganizationDTO](m, NewGetHandler(repo))

	validation.MustRegister[RegisterOrganizationCommand](validators, validation.For(
		validation.NotBlank("name", func(c RegisterOrganizationCommand) string { return c.Name }),
		validation.ValidEmail("contact_email", func(c RegisterOrganizationCommand) string { return c.ContactEmail }),
	))
	validation.MustRegister[ActivateOrganizationCommand](validators, validation.For[ActivateOrganizationCommand]())
	validation.MustRegister[SuspendOrganizationCommand](validators, validation.For(
		validation.NotBlank("reason", func(c SuspendOrganizationCommand) string { return c.Reason }),
	))
	validation.MustRegister[GetOrganizationQuery](validators, validation.For[GetOrganizationQuery]())
}
