package repository

import (
	"time"

	"hexaboard_backend/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{DB: db}
}

func (r *OutboxRepository) Enqueue(email *model.OutboxEmail) error {
	return r.DB.Create(email).Error
}

func (r *OutboxRepository) PendingBatch(limit int) ([]model.OutboxEmail, error) {
	var emails []model.OutboxEmail
	err := r.DB.Where("status = ?", model.OutboxPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&emails).Error
	return emails, err
}

func (r *OutboxRepository) MarkSent(id uint) error {
	return r.DB.Model(&model.OutboxEmail{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.OutboxSent,
			"updated_at": time.Now(),
		}).Error
}

// MarkAttemptFailed records a failed delivery attempt; the row flips to
// failed once attempts reach the configured ceiling.
func (r *OutboxRepository) MarkAttemptFailed(id uint, lastError string, final bool) error {
	status := model.OutboxPending
	if final {
		status = model.OutboxFailed
	}
	return r.DB.Model(&model.OutboxEmail{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
			"updated_at": time.Now(),
		}).Error
}
