package gormstore

import (
	"context"
	"errors"

	"servicedesk/domain/shared"
	"servicedesk/domain/user"
	"servicedesk/infrastructure/persistence/gormstore/po"
	"servicedesk/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	var userPO po.UserPO
	if err := getDB(ctx, r.db).First(&userPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("user", id)
		}
		return nil, dbError("user", "query", err)
	}
	return toUser(&userPO)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email shared.Email) (*user.User, error) {
	users, err := r.FindBySpecification(ctx, user.ByEmailSpecification{Email: email.Value()})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

func (r *UserRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*user.User]) ([]*user.User, error) {
	db, err := specification.Apply(getDB(ctx, r.db), spec, translateUserSpecification)
	if err != nil {
		return nil, shared.NewUnexpectedError("user", "cannot translate specification", err)
	}

	var userPOs []po.UserPO
	if err := db.Order("created_at ASC").Find(&userPOs).Error; err != nil {
		return nil, dbError("user", "query", err)
	}
	users := make([]*user.User, 0, len(userPOs))
	for i := range userPOs {
		u, err := toUser(&userPOs[i])
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepository) Add(ctx context.Context, u *user.User) error {
	if err := getDB(ctx, r.db).Create(po.FromUserDomain(u)).Error; err != nil {
		if isDuplicateKeyError(err) {
			return user.NewEmailAlreadyExistsError(u.Email().Value())
		}
		return dbError("user", "insert", err)
	}
	shared.Track(ctx, u)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	userPO := po.FromUserDomain(u)
	err := updateVersioned(getDB(ctx, r.db), &po.UserPO{}, u.ID(), u.Version(), map[string]any{
		"name":            userPO.Name,
		"email":           userPO.Email,
		"role":            userPO.Role,
		"organization_id": userPO.OrganizationID,
		"is_active":       userPO.IsActive,
		"updated_at":      userPO.UpdatedAt,
		"updated_by":      userPO.UpdatedBy,
	})
	switch {
	case err == nil:
	case errors.Is(err, errRowMissing):
		return shared.NewNotFoundError("user", u.ID())
	case errors.Is(err, errVersionMismatch):
		return shared.NewConcurrentModificationError("user", u.ID())
	case isDuplicateKeyError(err):
		return user.NewEmailAlreadyExistsError(userPO.Email)
	default:
		return dbError("user", "update", err)
	}

	u.IncrementVersionForSave()
	shared.Track(ctx, u)
	return nil
}

func translateUserSpecification(spec shared.Specification[*user.User]) (string, []any, bool) {
	switch s := spec.(type) {
	case user.ByEmailSpecification:
		email, ok := shared.TryParseEmail(s.Email)
		if !ok {
			return "1 = 0", nil, true
		}
		return "email = ?", []any{email.Value()}, true
	case user.ActiveUserSpecification:
		return "is_active = ?", []any{true}, true
	case user.ByRoleSpecification:
		return "role = ?", []any{string(s.Role)}, true
	default:
		return "", nil, false
	}
}

func toUser(userPO *po.UserPO) (*user.User, error) {
	u, err := userPO.ToDomain()
	if err != nil {
		return nil, shared.NewUnexpectedError("user", "stored user is corrupted: "+userPO.ID, err)
	}
	return u, nil
}

var _ user.Repository = (*UserRepository)(nil)
