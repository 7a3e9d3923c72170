package repository

import (
	"context"
	"errors"

	"duckwheel/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PrizeRepository struct {
	db *gorm.DB
}

func NewPrizeRepository(db *gorm.DB) *PrizeRepository {
	return &PrizeRepository{db: db}
}

func (r *PrizeRepository) GetByPrizeID(ctx context.Context, tx *gorm.DB, prizeID string) (*model.Prize, error) {
	if tx == nil {
		tx = r.db
	}
	var prize model.Prize
	err := tx.WithContext(ctx).Where("prize_id = ?", prizeID).First(&prize).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrizeNotFound
		}
		return nil, err
	}
	return &prize, nil
}

func (r *PrizeRepository) List(ctx context.Context, tx *gorm.DB) ([]*model.Prize, error) {
	if tx == nil {
		tx = r.db
	}
	var prizes []*model.Prize
	err := tx.WithContext(ctx).Order("rarity ASC, id ASC").Find(&prizes).Error
	return prizes, err
}

func (r *PrizeRepository) Save(ctx context.Context, tx *gorm.DB, prize *model.Prize) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "prize_id"}},
			UpdateAll: true,
		}).
		Create(prize).Error
}
