package repository

import (
	"context"

	"duckwheel/internal/model"

	"gorm.io/gorm"
)

type SpinLogRepository struct {
	db *gorm.DB
}

func NewSpinLogRepository(db *gorm.DB) *SpinLogRepository {
	return &SpinLogRepository{db: db}
}

func (r *SpinLogRepository) Create(ctx context.Context, tx *gorm.DB, entry *model.SpinLog) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *SpinLogRepository) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*model.SpinLog, error) {
	if tx == nil {
		tx = r.db
	}
	query := tx.WithContext(ctx).Order("created_at DESC, id DESC")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	var logs []*model.SpinLog
	err := query.Find(&logs).Error
	return logs, err
}
