package memory

import (
	"context"
	"sort"

	"servicedesk/domain/shared"
	"servicedesk/domain/user"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*user.User, error) {
	var (
		dto   user.ReconstructionDTO
		found bool
	)
	r.store.read(func(d *dataset) {
		dto, found = d.users[id]
	})
	if !found {
		return nil, shared.NewNotFoundError("user", id)
	}
	return rebuildUser(dto)
}

func (r *UserRepository) FindByEmail(_ context.Context, email shared.Email) (*user.User, error) {
	var (
		dto   user.ReconstructionDTO
		found bool
	)
	r.store.read(func(d *dataset) {
		dto, found = findUserByEmail(d, email.Value())
	})
	if !found {
		return nil, nil
	}
	return rebuildUser(dto)
}

func (r *UserRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*user.User]) ([]*user.User, error) {
	var dtos []user.ReconstructionDTO
	r.store.read(func(d *dataset) {
		dtos = make([]user.ReconstructionDTO, 0, len(d.users))
		for _, dto := range d.users {
			dtos = append(dtos, dto)
		}
	})
	sort.Slice(dtos, func(i, j int) bool {
		return dtos[i].Audit.CreatedAt.Before(dtos[j].Audit.CreatedAt)
	})

	all := make([]*user.User, 0, len(dtos))
	for _, dto := range dtos {
		u, err := rebuildUser(dto)
		if err != nil {
			return nil, err
		}
		all = append(all, u)
	}
	return shared.Filter(ctx, all, spec), nil
}

func (r *UserRepository) Add(ctx context.Context, u *user.User) error {
	dto := userToDTO(u)
	err := r.store.write(ctx, func(d *dataset) (func(), error) {
		if _, exists := d.users[dto.ID]; exists {
			return nil, shared.NewConflictError("user", "id", "user already exists: "+dto.ID)
		}
		if _, taken := findUserByEmail(d, dto.Email); taken {
			return nil, user.NewEmailAlreadyExistsError(dto.Email)
		}
		d.users[dto.ID] = dto
		return nil, nil
	})
	if err != nil {
		return err
	}
	shared.Track(ctx, u)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	dto := userToDTO(u)
	err := r.store.write(ctx, func(d *dataset) (func(), error) {
		current, exists := d.users[dto.ID]
		if !exists {
			return nil, shared.NewNotFoundError("user", dto.ID)
		}
		if current.Version != dto.Version {
			return nil, shared.NewConcurrentModificationError("user", dto.ID)
		}
		if other, taken := findUserByEmail(d, dto.Email); taken && other.ID != dto.ID {
			return nil, user.NewEmailAlreadyExistsError(dto.Email)
		}
		dto.Version++
		d.users[dto.ID] = dto
		return u.IncrementVersionForSave, nil
	})
	if err != nil {
		return err
	}
	shared.Track(ctx, u)
	return nil
}

// email 已经规范化为小写
func findUserByEmail(d *dataset, email string) (user.ReconstructionDTO, bool) {
	for _, dto := range d.users {
		if dto.Email == email {
			return dto, true
		}
	}
	return user.ReconstructionDTO{}, false
}

func userToDTO(u *user.User) user.ReconstructionDTO {
	return user.ReconstructionDTO{
		ID:             u.ID(),
		Name:           u.Name(),
		Email:          u.Email().Value(),
		Role:           u.Role(),
		OrganizationID: u.OrganizationID(),
		IsActive:       u.IsActive(),
		Version:        u.Version(),
		Audit:          u.Audit(),
	}
}

func rebuildUser(dto user.ReconstructionDTO) (*user.User, error) {
	u, err := user.RebuildFromDTO(dto)
	if err != nil {
		return nil, shared.NewUnexpectedError("user", "stored user is corrupted: "+dto.ID, err)
	}
	return u, nil
}

var _ user.Repository = (*UserRepository)(nil)
