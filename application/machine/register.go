package machine

import (
	"servicedesk/application/mediator"
	"servicedesk/application/validation"
	"servicedesk/domain/machine"
	"servicedesk/domain/organization"
	"servicedesk/domain/shared"
)

// Register 注册设备用例的处理器与校验器
func Register(m *mediator.Mediator, validators *validation.Registry, machines machine.Repository, organizations organization.Repository, actors shared.ActorProvider) {
	mediator.MustRegister[RegisterMachineCommand, shared.Result[MachineDTO]](m, NewRegisterHandler(machines, organizations, actors))
	mediator.MustRegister[RetireMachineCommand, MachineDTO](m, NewRetireHandler(machines, actors))
	mediator.MustRegister[GetMachineQuery, MachineDTO](m, NewGetHandler(machines))
	mediator.MustRegister[ListMachinesQuery, []MachineDTO](m, NewListHandler(machines, organizations))

	validation.MustRegister[RegisterMachineCommand](validators, validation.For(
		validation.NotBlank("serial_number", func(c RegisterMachineCommand) string { return c.SerialNumber }),
	))
	validation.MustRegister[RetireMachineCommand](validators, validation.For[RetireMachineCommand]())
	validation.MustRegister[GetMachineQuery](validators, validation.For[GetMachineQuery]())
	validation.MustRegister[ListMachinesQuery](validators, validation.For[ListMachinesQuery]())
}
