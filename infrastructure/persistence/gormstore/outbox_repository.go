package gormstore

import (
	"context"
	"fmt"
	"time"

	"servicedesk/domain/shared"
	"servicedesk/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

// OutboxRepository GORM implementation of outbox repository
// Implements transactional outbox pattern for reliable domain event publishing
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// SaveEvent Save domain event to outbox table
// Uses transaction from context when called within a unit of work
// Creates its own transaction when called standalone
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		return r.saveEventWithTx(tx, event)
	})
}

// saveEventWithTx performs the actual event save within a transaction
func (r *OutboxRepository) saveEventWithTx(tx *gorm.DB, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return fmt.Errorf("invalid domain event: %w", err)
	}

	outboxPO, err := po.FromDomainEvent(event)
	if err != nil {
		return fmt.Errorf("failed to convert domain event: %w", err)
	}

	if err := tx.Create(outboxPO).Error; err != nil {
		return fmt.Errorf("failed to save event to outbox: %w", err)
	}
	return nil
}

// GetPendingEvents Get pending events for processing, oldest first
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	var events []*po.OutboxEventPO
	err := getDB(ctx, r.db).
		Where("status = ?", string(po.EventStatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

// MarkEventProcessing Mark event as being processed
// The status condition keeps two workers from claiming the same event
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	result := getDB(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(po.EventStatusPending)).
		Updates(map[string]any{
			"status":     string(po.EventStatusProcessing),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found or already being processed: %s", eventID)
	}
	return nil
}

// MarkEventPublished Mark event as successfully published
func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	result := getDB(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"status":     string(po.EventStatusPublished),
			"last_error": "",
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found: %s", eventID)
	}
	return nil
}

// MarkEventFailed Mark event as failed to publish
// Returns to PENDING until maxRetries is reached, then FAILED
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int, cause error) (po.EventStatus, error) {
	db := getDB(ctx, r.db)

	var event po.OutboxEventPO
	if err := db.First(&event, "id = ?", eventID).Error; err != nil {
		return "", fmt.Errorf("failed to find event: %w", err)
	}

	newRetryCount := event.RetryCount + 1
	newStatus := po.EventStatusFailed
	if newRetryCount < maxRetries {
		newStatus = po.EventStatusPending
	}

	lastError := ""
	if cause != nil {
		lastError = cause.Error()
		if len(lastError) > 1000 {
			lastError = lastError[:1000]
		}
	}

	err := db.Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"status":      string(newStatus),
			"retry_count": newRetryCount,
			"last_error":  lastError,
			"updated_at":  time.Now(),
		}).Error
	if err != nil {
		return "", err
	}
	return newStatus, nil
}

// PurgePublished 删除早于 before 的已发布事件
func (r *OutboxRepository) PurgePublished(ctx context.Context, before time.Time) (int64, error) {
	result := getDB(ctx, r.db).
		Where("status = ? AND updated_at < ?", string(po.EventStatusPublished), before).
		Delete(&po.OutboxEventPO{})
	return result.RowsAffected, result.Error
}

// CountByStatus 各状态的事件数
func (r *OutboxRepository) CountByStatus(ctx context.Context) (map[po.EventStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := getDB(ctx, r.db).Model(&po.OutboxEventPO{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[po.EventStatus]int64, len(rows))
	for _, row := range rows {
		counts[po.EventStatus(row.Status)] = row.Count
	}
	return counts, nil
}
