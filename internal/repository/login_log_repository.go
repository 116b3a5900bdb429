package repository

import (
	"hexaboard_backend/internal/model"

	"gorm.io/gorm"
)

type LoginLogRepository struct {
	DB *gorm.DB
}

func NewLoginLogRepository(db *gorm.DB) *LoginLogRepository {
	return &LoginLogRepository{DB: db}
}

func (r *LoginLogRepository) Create(entry *model.LoginLog) error {
	return r.DB.Create(entry).Error
}

// ListRecent returns the newest entries first, for the admin audit view.
func (r *LoginLogRepository) ListRecent(limit int) ([]model.LoginLog, error) {
	var logs []model.LoginLog
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
