package memory

import (
	"context"
	"strings"

	"servicedesk/domain/organization"
	"servicedesk/domain/shared"
)

type OrganizationRepository struct {
	store *Store
}

func NewOrganizationRepository(store *Store) *OrganizationRepository {
	return &OrganizationRepository{store: store}
}

func (r *OrganizationRepository) FindByID(_ context.Context, id string) (*organization.Organization, error) {
	var (
		dto   organization.ReconstructionDTO
		found bool
	)
	r.store.read(func(d *dataset) {
		dto, found = d.organizations[id]
	})
	if !found {
		return nil, shared.NewNotFoundError("organization", id)
	}
	return rebuildOrganization(dto)
}

func (r *OrganizationRepository) FindByName(_ context.Context, name string) (*organization.Organization, error) {
	var (
		dto   organization.ReconstructionDTO
		found bool
	)
	r.store.read(func(d *dataset) {
		dto, found = findOrganizationByName(d, name)
	})
	if !found {
		return nil, nil
	}
	return rebuildOrganization(dto)
}

func (r *OrganizationRepository) Add(ctx context.Context, o *organization.Organization) error {
	dto := organizationToDTO(o)
	err := r.store.write(ctx, func(d *dataset) (func(), error) {
		if _, exists := d.organizations[dto.ID]; exists {
			return nil, shared.NewConflictError("organization", "id", "organization already exists: "+dto.ID)
		}
		if _, taken := findOrganizationByName(d, dto.Name); taken {
			return nil, organization.NewDuplicateNameError(dto.Name)
		}
		d.organizations[dto.ID] = dto
		return nil, nil
	})
	if err != nil {
		return err
	}
	shared.Track(ctx, o)
	return nil
}

func (r *OrganizationRepository) Update(ctx context.Context, o *organization.Organization) error {
	dto := organizationToDTO(o)
	err := r.store.write(ctx, func(d *dataset) (func(), error) {
		current, exists := d.organizations[dto.ID]
		if !exists {
			return nil, shared.NewNotFoundError("organization", dto.ID)
		}
		if current.Version != dto.Version {
			return nil, shared.NewConcurrentModificationError("organization", dto.ID)
		}
		if other, taken := findOrganizationByName(d, dto.Name); taken && other.ID != dto.ID {
			return nil, organization.NewDuplicateNameError(dto.Name)
		}
		dto.Version++
		d.organizations[dto.ID] = dto
		return o.IncrementVersionForSave, nil
	})
	if err != nil {
		return err
	}
	shared.Track(ctx, o)
	return nil
}

// 名称唯一性不区分大小写
func findOrganizationByName(d *dataset, name string) (organization.ReconstructionDTO, bool) {
	name = strings.TrimSpace(name)
	for _, dto := range d.organizations {
		if strings.EqualFold(dto.Name, name) {
			return dto, true
		}
	}
	return organization.ReconstructionDTO{}, false
}

func organizationToDTO(o *organization.Organization) organization.ReconstructionDTO {
	return organization.ReconstructionDTO{
		ID:               o.ID(),
		Name:             o.Name(),
		ContactEmail:     o.ContactEmail().Value(),
		Status:           o.Status(),
		SuspensionReason: o.SuspensionReason(),
		Version:          o.Version(),
		Audit:            o.Audit(),
	}
}

func rebuildOrganization(dto organization.ReconstructionDTO) (*organization.Organization, error) {
	o, err := organization.RebuildFromDTO(dto)
	if err != nil {
		return nil, shared.NewUnexpectedError("organization", "stored organization is corrupted: "+dto.ID, err)
	}
	return o, nil
}

var _ organization.Repository = (*OrganizationRepository)(nil)
