package repository

import (
	"context"

	"duckwheel/internal/model"

	"gorm.io/gorm"
)

type DuckHistoryRepository struct {
	db *gorm.DB
}

func NewDuckHistoryRepository(db *gorm.DB) *DuckHistoryRepository {
	return &DuckHistoryRepository{db: db}
}

func (r *DuckHistoryRepository) Create(ctx context.Context, tx *gorm.DB, entry *model.DuckHistory) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *DuckHistoryRepository) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*model.DuckHistory, error) {
	if tx == nil {
		tx = r.db
	}
	query := tx.WithContext(ctx).Order("created_at DESC, id DESC")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	var entries []*model.DuckHistory
	err := query.Find(&entries).Error
	return entries, err
}
