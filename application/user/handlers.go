/*
Package user 用户用例
*/
package user

import (
	"context"

	"servicedesk/domain/organization"
	"servicedesk/domain/shared"
	"servicedesk/domain/user"
)

type RegisterHandler struct {
	users         user.Repository
	organizations organization.Repository
	actors        shared.ActorProvider
}

func NewRegisterHandler(users user.Repository, organizations organization.Repository, actors shared.ActorProvider) *RegisterHandler {
	return &RegisterHandler{users: users, organizations: organizations, actors: actors}
}

func (h *RegisterHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (UserDTO, error) {
	email, err := shared.NewEmail(cmd.Email)
	if err != nil {
		return UserDTO{}, err
	}

	existing, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		return UserDTO{}, err
	}
	if existing != nil {
		return UserDTO{}, user.NewEmailAlreadyExistsError(email.String())
	}

	if cmd.OrganizationID != "" {
		if _, err := h.organizations.FindByID(ctx, cmd.OrganizationID); err != nil {
			return UserDTO{}, err
		}
	}

	u, err := user.Register(cmd.Name, email, user.Role(cmd.Role), cmd.OrganizationID, h.actors.CurrentActor(ctx).ID)
	if err != nil {
		return UserDTO{}, err
	}
	if err := h.users.Add(ctx, u); err != nil {
		return UserDTO{}, err
	}
	return ToDTO(u), nil
}

type GetHandler struct {
	users user.Repository
}

func NewGetHandler(users user.Repository) *GetHandler {
	return &GetHandler{users: users}
}

func (h *GetHandler) Handle(ctx context.Context, q GetUserQuery) (UserDTO, error) {
	u, err := h.users.FindByID(ctx, q.UserID)
	if err != nil {
		return UserDTO{}, err
	}
	return ToDTO(u), nil
}
