package gormstore

import (
	"context"
	"errors"

	"servicedesk/domain/machine"
	"servicedesk/domain/shared"
	"servicedesk/infrastructure/persistence/gormstore/po"
	"servicedesk/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

func (r *MachineRepository) FindByID(ctx context.Context, id string) (*machine.Machine, error) {
	var machinePO po.MachinePO
	if err := getDB(ctx, r.db).First(&machinePO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("machine", id)
		}
		return nil, dbError("machine", "query", err)
	}
	return machinePO.ToDomain(), nil
}

func (r *MachineRepository) FindBySerialNumber(ctx context.Context, serialNumber string) (*machine.Machine, error) {
	var machinePO po.MachinePO
	err := getDB(ctx, r.db).First(&machinePO, "serial_number = ?", machine.NormalizeSerialNumber(serialNumber)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError("machine", "query", err)
	}
	return machinePO.ToDomain(), nil
}

func (r *MachineRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*machine.Machine]) ([]*machine.Machine, error) {
	db, err := specification.Apply(getDB(ctx, r.db), spec, translateMachineSpecification)
	if err != nil {
		return nil, shared.NewUnexpectedError("machine", "cannot translate specification", err)
	}

	var machinePOs []po.MachinePO
	if err := db.Order("created_at ASC").Find(&machinePOs).Error; err != nil {
		return nil, dbError("machine", "query", err)
	}
	machines := make([]*machine.Machine, len(machinePOs))
	for i := range machinePOs {
		machines[i] = machinePOs[i].ToDomain()
	}
	return machines, nil
}

func (r *MachineRepository) Add(ctx context.Context, m *machine.Machine) error {
	if err := getDB(ctx, r.db).Create(po.FromMachineDomain(m)).Error; err != nil {
		if isDuplicateKeyError(err) {
			return machine.NewDuplicateSerialNumberError(m.SerialNumber())
		}
		return dbError("machine", "insert", err)
	}
	shared.Track(ctx, m)
	return nil
}

func (r *MachineRepository) Update(ctx context.Context, m *machine.Machine) error {
	machinePO := po.FromMachineDomain(m)
	err := updateVersioned(getDB(ctx, r.db), &po.MachinePO{}, m.ID(), m.Version(), map[string]any{
		"model":      machinePO.Model,
		"status":     machinePO.Status,
		"updated_at": machinePO.UpdatedAt,
		"updated_by": machinePO.UpdatedBy,
	})
	switch {
	case err == nil:
	case errors.Is(err, errRowMissing):
		return shared.NewNotFoundError("machine", m.ID())
	case errors.Is(err, errVersionMismatch):
		return shared.NewConcurrentModificationError("machine", m.ID())
	default:
		return dbError("machine", "update", err)
	}

	m.IncrementVersionForSave()
	shared.Track(ctx, m)
	return nil
}

func translateMachineSpecification(spec shared.Specification[*machine.Machine]) (string, []any, bool) {
	switch s := spec.(type) {
	case machine.ByOrganizationSpecification:
		return "organization_id = ?", []any{s.OrganizationID}, true
	case machine.ByStatusSpecification:
		return "status = ?", []any{string(s.Status)}, true
	case machine.BySerialNumberSpecification:
		return "serial_number = ?", []any{machine.NormalizeSerialNumber(s.SerialNumber)}, true
	default:
		return "", nil, false
	}
}

var _ machine.Repository = (*MachineRepository)(nil)
