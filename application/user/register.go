package user

import (
	"servicedesk/application/mediator"
	"servicedesk/application/validation"
	"servicedesk/domain/organization"
	"servicedesk/domain/shared"
	"servicedesk/domain/user"
)

// Register 注册用户用例的处理器与校验器
func Register(m *mediator.Mediator, validators *validation.Registry, users user.Repository, organizations organization.Repository, actors shared.ActorProvider) {
	mediator.MustRegister[RegisterUserCommand, UserDTO](m, NewRegisterHandler(users, organizations, actors))
	mediator.MustRegister[GetUserQuery, UserDTO](m, NewGetHandler(users))

	validation.MustRegister[RegisterUserCommand](validators, validation.For(
		validation.NotBlank("name", func(c RegisterUserCommand) string { return c.Name }),
		validation.ValidEmail("email", func(c RegisterUserCommand) string { return c.Email }),
		validation.Must("organization_id", "is required for customers", func(c RegisterUserCommand) bool {
			return c.Role != string(shared.RoleCustomer) || c.OrganizationID != ""
		}),
	))
	validation.MustRegister[GetUserQuery](validators, validation.For[GetUserQuery]())
}
