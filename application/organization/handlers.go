/*
Package organization 组织用例

处理器只读写仓储，事务的提交与回滚由管道中的工作单元环节负责。
*/
package organization

import (
	"context"
	"errors"

	"servicedesk/domain/organization"
	"servicedesk/domain/shared"
)

type RegisterHandler struct {
	organizations organization.Repository
	actors        shared.ActorProvider
}

func NewRegisterHandler(repo organization.Repository, actors shared.ActorProvider) *RegisterHandler {
	return &RegisterHandler{organizations: repo, actors: actors}
}

func (h *RegisterHandler) Handle(ctx context.Context, cmd RegisterOrganizationCommand) (OrganizationDTO, error) {
	email, err := shared.NewEmail(cmd.ContactEmail)
	if err != nil {
		return OrganizationDTO{}, err
	}

	existing, err := h.organizations.FindByName(ctx, cmd.Name)
	if err != nil {
		return OrganizationDTO{}, err
	}
	if existing != nil {
		return OrganizationDTO{}, organization.NewDuplicateNameError(cmd.Name)
	}

	o, err := organization.Register(cmd.Name, email, h.actors.CurrentActor(ctx).ID)
	if err != nil {
		return OrganizationDTO{}, err
	}
	if err := h.organizations.Add(ctx, o); err != nil {
		return OrganizationDTO{}, err
	}
	return ToDTO(o), nil
}

type ActivateHandler struct {
	organizations organization.Repository
	actors        shared.ActorProvider
}

func NewActivateHandler(repo organization.Repository, actors shared.ActorProvider) *ActivateHandler {
	return &ActivateHandler{organizations: repo, actors: actors}
}

func (h *ActivateHandler) Handle(ctx context.Context, cmd ActivateOrganizationCommand) (OrganizationDTO, error) {
	o, err := h.organizations.FindByID(ctx, cmd.OrganizationID)
	if err != nil {
		return OrganizationDTO{}, err
	}
	if err := o.Activate(h.actors.CurrentActor(ctx).ID); err != nil {
		return OrganizationDTO{}, err
	}
	if err := h.organizations.Update(ctx, o); err != nil {
		return OrganizationDTO{}, err
	}
	return ToDTO(o), nil
}

type SuspendHandler struct {
	organizations organization.Repository
	actors        shared.ActorProvider
}

func NewSuspendHandler(repo organization.Repository, actors shared.ActorProvider) *SuspendHandler {
	return &SuspendHandler{organizations: repo, actors: actors}
}

func (h *SuspendHandler) Handle(ctx context.Context, cmd SuspendOrganizationCommand) (OrganizationDTO, error) {
	o, err := h.organizations.FindByID(ctx, cmd.OrganizationID)
	if err != nil {
		return OrganizationDTO{}, err
	}
	if err := o.Suspend(cmd.Reason, h.actors.CurrentActor(ctx).ID); err != nil {
		if errors.Is(err, organization.ErrAlreadySuspended) {
			return OrganizationDTO{}, shared.NewConflictError("organization", "status", err.Error())
		}
		return OrganizationDTO{}, err
	}
	if err := h.organizations.Update(ctx, o); err != nil {
		return OrganizationDTO{}, err
	}
	return ToDTO(o), nil
}

type GetHandler struct {
	organizations organization.Repository
}

func NewGetHandler(repo organization.Repository) *GetHandler {
	return &GetHandler{organizations: repo}
}

func (h *GetHandler) Handle(ctx context.Context, q GetOrganizationQuery) (OrganizationDTO, error) {
	o, err := h.organizations.FindByID(ctx, q.OrganizationID)
	if err != nil {
		return OrganizationDTO{}, err
	}
	return ToDTO(o), nil
}
