/*
Package machine 设备用例

登记设备的三种失败方式：
  - 组织不存在：NotFound 错误
  - 组织当前不允许登记设备：Result 失败（预期内的业务拒绝）
  - 序列号已存在：Conflict 错误，不写入任何数据
*/
package machine

import (
	"context"
	"errors"
	"fmt"

	"servicedesk/domain/machine"
	"servicedesk/domain/organization"
	"servicedesk/domain/shared"
)

type RegisterHandler struct {
	machines      machine.Repository
	organizations organization.Repository
	actors        shared.ActorProvider
}

func NewRegisterHandler(machines machine.Repository, organizations organization.Repository, actors shared.ActorProvider) *RegisterHandler {
	return &RegisterHandler{machines: machines, organizations: organizations, actors: actors}
}

func (h *RegisterHandler) Handle(ctx context.Context, cmd RegisterMachineCommand) (shared.Result[MachineDTO], error) {
	org, err := h.organizations.FindByID(ctx, cmd.OrganizationID)
	if err != nil {
		return shared.Result[MachineDTO]{}, err
	}
	if !org.CanRegisterMachines() {
		return shared.Failure[MachineDTO](fmt.Sprintf(
			"organization %s cannot register machines while %s", org.Name(), org.Status())), nil
	}

	serial := machine.NormalizeSerialNumber(cmd.SerialNumber)
	existing, err := h.machines.FindBySerialNumber(ctx, serial)
	if err != nil {
		return shared.Result[MachineDTO]{}, err
	}
	if existing != nil {
		return shared.Result[MachineDTO]{}, machine.NewDuplicateSerialNumberError(serial)
	}

	m, err := machine.Register(org.ID(), serial, cmd.Model, h.actors.CurrentActor(ctx).ID)
	if err != nil {
		return shared.Result[MachineDTO]{}, err
	}
	if err := h.machines.Add(ctx, m); err != nil {
		return shared.Result[MachineDTO]{}, err
	}
	return shared.Success(ToDTO(m)), nil
}

type RetireHandler struct {
	machines machine.Repository
	actors   shared.ActorProvider
}

func NewRetireHandler(machines machine.Repository, actors shared.ActorProvider) *RetireHandler {
	return &RetireHandler{machines: machines, actors: actors}
}

func (h *RetireHandler) Handle(ctx context.Context, cmd RetireMachineCommand) (MachineDTO, error) {
	m, err := h.machines.FindByID(ctx, cmd.MachineID)
	if err != nil {
		return MachineDTO{}, err
	}
	if err := m.Retire(h.actors.CurrentActor(ctx).ID); err != nil {
		if errors.Is(err, machine.ErrAlreadyRetired) {
			return MachineDTO{}, shared.NewConflictError("machine", "status", err.Error())
		}
		return MachineDTO{}, err
	}
	if err := h.machines.Update(ctx, m); err != nil {
		return MachineDTO{}, err
	}
	return ToDTO(m), nil
}

type GetHandler struct {
	machines machine.Repository
}

func NewGetHandler(machines machine.Repository) *GetHandler {
	return &GetHandler{machines: machines}
}

func (h *GetHandler) Handle(ctx context.Context, q GetMachineQuery) (MachineDTO, error) {
	m, err := h.machines.FindByID(ctx, q.MachineID)
	if err != nil {
		return MachineDTO{}, err
	}
	return ToDTO(m), nil
}

type ListHandler struct {
	machines      machine.Repository
	organizations organization.Repository
}

func NewListHandler(machines machine.Repository, organizations organization.Repository) *ListHandler {
	return &ListHandler{machines: machines, organizations: organizations}
}

func (h *ListHandler) Handle(ctx context.Context, q ListMachinesQuery) ([]MachineDTO, error) {
	if _, err := h.organizations.FindByID(ctx, q.OrganizationID); err != nil {
		return nil, err
	}

	var spec shared.Specification[*machine.Machine] = machine.ByOrganizationSpecification{OrganizationID: q.OrganizationID}
	if q.Status != "" {
		spec = shared.And[*machine.Machine](spec, machine.ByStatusSpecification{Status: machine.Status(q.Status)})
	}

	machines, err := h.machines.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, err
	}
	return ToDTOs(machines), nil
}
