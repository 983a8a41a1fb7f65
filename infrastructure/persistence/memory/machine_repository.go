package memory

import (
	"context"
	"sort"

	"servicedesk/domain/machine"
	"servicedesk/domain/shared"
)

type MachineRepository struct {
	store *Store
}

func NewMachineRepository(store *Store) *MachineRepository {
	return &MachineRepository{store: store}
}

func (r *MachineRepository) FindByID(_ context.Context, id string) (*machine.Machine, error) {
	var (
		dto   machine.ReconstructionDTO
		found bool
	)
	r.store.read(func(d *dataset) {
		dto, found = d.machines[id]
	})
	if !found {
		return nil, shared.NewNotFoundError("machine", id)
	}
	return machine.RebuildFromDTO(dto), nil
}

func (r *MachineRepository) FindBySerialNumber(_ context.Context, serialNumber string) (*machine.Machine, error) {
	var (
		dto   machine.ReconstructionDTO
		found bool
	)
	r.store.read(func(d *dataset) {
		dto, found = findMachineBySerial(d, serialNumber)
	})
	if !found {
		return nil, nil
	}
	return machine.RebuildFromDTO(dto), nil
}

func (r *MachineRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*machine.Machine]) ([]*machine.Machine, error) {
	var all []*machine.Machine
	r.store.read(func(d *dataset) {
		all = make([]*machine.Machine, 0, len(d.machines))
		for _, dto := range d.machines {
			all = append(all, machine.RebuildFromDTO(dto))
		}
	})
	sort.Slice(all, func(i, j int) bool {
		return all[i].Audit().CreatedAt.Before(all[j].Audit().CreatedAt)
	})
	return shared.Filter(ctx, all, spec), nil
}

func (r *MachineRepository) Add(ctx context.Context, m *machine.Machine) error {
	dto := machineToDTO(m)
	err := r.store.write(ctx, func(d *dataset) (func(), error) {
		if _, exists := d.machines[dto.ID]; exists {
			return nil, shared.NewConflictError("machine", "id", "machine already exists: "+dto.ID)
		}
		if _, taken := findMachineBySerial(d, dto.SerialNumber); taken {
			return nil, machine.NewDuplicateSerialNumberError(dto.SerialNumber)
		}
		d.machines[dto.ID] = dto
		return nil, nil
	})
	if err != nil {
		return err
	}
	shared.Track(ctx, m)
	return nil
}

func (r *MachineRepository) Update(ctx context.Context, m *machine.Machine) error {
	dto := machineToDTO(m)
	err := r.store.write(ctx, func(d *dataset) (func(), error) {
		current, exists := d.machines[dto.ID]
		if !exists {
			return nil, shared.NewNotFoundError("machine", dto.ID)
		}
		if current.Version != dto.Version {
			return nil, shared.NewConcurrentModificationError("machine", dto.ID)
		}
		dto.Version++
		d.machines[dto.ID] = dto
		return m.IncrementVersionForSave, nil
	})
	if err != nil {
		return err
	}
	shared.Track(ctx, m)
	return nil
}

func findMachineBySerial(d *dataset, serialNumber string) (machine.ReconstructionDTO, bool) {
	serialNumber = machine.NormalizeSerialNumber(serialNumber)
	for _, dto := range d.machines {
		if dto.SerialNumber == serialNumber {
			return dto, true
		}
	}
	return machine.ReconstructionDTO{}, false
}

func machineToDTO(m *machine.Machine) machine.ReconstructionDTO {
	return machine.ReconstructionDTO{
		ID:             m.ID(),
		OrganizationID: m.OrganizationID(),
		SerialNumber:   m.SerialNumber(),
		Model:          m.Model(),
		Status:         m.Status(),
		Version:        m.Version(),
		Audit:          m.Audit(),
	}
}

var _ machine.Repository = (*MachineRepository)(nil)
