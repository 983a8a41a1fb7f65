package gormstore

import (
	"context"
	"errors"

	"servicedesk/domain/organization"
	"servicedesk/domain/shared"
	"servicedesk/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*organization.Organization, error) {
	var orgPO po.OrganizationPO
	if err := getDB(ctx, r.db).First(&orgPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("organization", id)
		}
		return nil, dbError("organization", "query", err)
	}
	return toOrganization(&orgPO)
}

func (r *OrganizationRepository) FindByName(ctx context.Context, name string) (*organization.Organization, error) {
	var orgPO po.OrganizationPO
	if err := getDB(ctx, r.db).First(&orgPO, "name_key = ?", po.NameKey(name)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError("organization", "query", err)
	}
	return toOrganization(&orgPO)
}

func (r *OrganizationRepository) Add(ctx context.Context, o *organization.Organization) error {
	orgPO := po.FromOrganizationDomain(o)
	if err := getDB(ctx, r.db).Create(orgPO).Error; err != nil {
		if isDuplicateKeyError(err) {
			return organization.NewDuplicateNameError(o.Name())
		}
		return dbError("organization", "insert", err)
	}
	shared.Track(ctx, o)
	return nil
}

func (r *OrganizationRepository) Update(ctx context.Context, o *organization.Organization) error {
	orgPO := po.FromOrganizationDomain(o)
	err := updateVersioned(getDB(ctx, r.db), &po.OrganizationPO{}, o.ID(), o.Version(), map[string]any{
		"name":              orgPO.Name,
		"name_key":          orgPO.NameKey,
		"contact_email":     orgPO.ContactEmail,
		"status":            orgPO.Status,
		"suspension_reason": orgPO.SuspensionReason,
		"updated_at":        orgPO.UpdatedAt,
		"updated_by":        orgPO.UpdatedBy,
	})
	switch {
	case err == nil:
	case errors.Is(err, errRowMissing):
		return shared.NewNotFoundError("organization", o.ID())
	case errors.Is(err, errVersionMismatch):
		return shared.NewConcurrentModificationError("organization", o.ID())
	case isDuplicateKeyError(err):
		return organization.NewDuplicateNameError(o.Name())
	default:
		return dbError("organization", "update", err)
	}

	o.IncrementVersionForSave()
	shared.Track(ctx, o)
	return nil
}

func toOrganization(orgPO *po.OrganizationPO) (*organization.Organization, error) {
	o, err := orgPO.ToDomain()
	if err != nil {
		return nil, shared.NewUnexpectedError("organization", "stored organization is corrupted: "+orgPO.ID, err)
	}
	return o, nil
}

var _ organization.Repository = (*OrganizationRepository)(nil)
