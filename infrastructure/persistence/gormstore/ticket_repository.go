package gormstore

import (
	"context"
	"errors"

	"servicedesk/domain/shared"
	"servicedesk/domain/ticket"
	"servicedesk/infrastructure/persistence/gormstore/po"
	"servicedesk/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	var ticketPO po.TicketPO
	if err := getDB(ctx, r.db).First(&ticketPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("ticket", id)
		}
		return nil, dbError("ticket", "query", err)
	}
	return toTicket(&ticketPO)
}

func (r *TicketRepository) FindByNumber(ctx context.Context, number ticket.Number) (*ticket.Ticket, error) {
	var ticketPO po.TicketPO
	if err := getDB(ctx, r.db).First(&ticketPO, "number = ?", number.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError("ticket", "query", err)
	}
	return toTicket(&ticketPO)
}

func (r *TicketRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*ticket.Ticket]) ([]*ticket.Ticket, error) {
	db, err := specification.Apply(getDB(ctx, r.db), spec, translateTicketSpecification)
	if err != nil {
		return nil, shared.NewUnexpectedError("ticket", "cannot translate specification", err)
	}

	var ticketPOs []po.TicketPO
	if err := db.Order("number ASC").Find(&ticketPOs).Error; err != nil {
		return nil, dbError("ticket", "query", err)
	}
	tickets := make([]*ticket.Ticket, 0, len(ticketPOs))
	for i := range ticketPOs {
		t, err := toTicket(&ticketPOs[i])
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// NextNumber 先自增已有计数行，不存在时插入首行。
// 在工作单元事务内执行时，回滚会一并撤销本次预留
func (r *TicketRepository) NextNumber(ctx context.Context, year int) (ticket.Number, error) {
	var sequence int
	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Model(&po.TicketSequencePO{}).
			Where("year = ?", year).
			Update("value", gorm.Expr("value + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := tx.Create(&po.TicketSequencePO{Year: year, Value: 1}).Error; err != nil {
				return err
			}
			sequence = 1
			return nil
		}

		var row po.TicketSequencePO
		if err := tx.First(&row, "year = ?", year).Error; err != nil {
			return err
		}
		sequence = row.Value
		return nil
	})
	if err != nil {
		// 并发插入首行时唯一键冲突，交给重试
		if isDuplicateKeyError(err) {
			return ticket.Number{}, shared.NewConcurrentModificationError("ticket_sequence", "year")
		}
		return ticket.Number{}, dbError("ticket", "sequence", err)
	}
	return ticket.NewNumber(year, sequence)
}

func (r *TicketRepository) Add(ctx context.Context, t *ticket.Ticket) error {
	if err := getDB(ctx, r.db).Create(po.FromTicketDomain(t)).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ticket.NewDuplicateNumberError(t.Number().String())
		}
		return dbError("ticket", "insert", err)
	}
	shared.Track(ctx, t)
	return nil
}

func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	ticketPO := po.FromTicketDomain(t)
	err := updateVersioned(getDB(ctx, r.db), &po.TicketPO{}, t.ID(), t.Version(), map[string]any{
		"title":       ticketPO.Title,
		"description": ticketPO.Description,
		"priority":    ticketPO.Priority,
		"status":      ticketPO.Status,
		"assignee_id": ticketPO.AssigneeID,
		"updated_at":  ticketPO.UpdatedAt,
		"updated_by":  ticketPO.UpdatedBy,
	})
	switch {
	case err == nil:
	case errors.Is(err, errRowMissing):
		return ticket.NewTicketNotFoundError(t.Number().String())
	case errors.Is(err, errVersionMismatch):
		return shared.NewConcurrentModificationError("ticket", t.Number().String())
	default:
		return dbError("ticket", "update", err)
	}

	t.IncrementVersionForSave()
	shared.Track(ctx, t)
	return nil
}

func translateTicketSpecification(spec shared.Specification[*ticket.Ticket]) (string, []any, bool) {
	switch s := spec.(type) {
	case ticket.ByOrganizationSpecification:
		return "organization_id = ?", []any{s.OrganizationID}, true
	case ticket.ByStatusSpecification:
		return "status = ?", []any{string(s.Status)}, true
	default:
		return "", nil, false
	}
}

func toTicket(ticketPO *po.TicketPO) (*ticket.Ticket, error) {
	t, err := ticketPO.ToDomain()
	if err != nil {
		return nil, shared.NewUnexpectedError("ticket", "stored ticket is corrupted: "+ticketPO.ID, err)
	}
	return t, nil
}

var _ ticket.Repository = (*TicketRepository)(nil)
