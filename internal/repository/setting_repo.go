package repository

import (
	"context"
	"errors"

	"duckwheel/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WheelSettingRepository struct {
	db *gorm.DB
}

func NewWheelSettingRepository(db *gorm.DB) *WheelSettingRepository {
	return &WheelSettingRepository{db: db}
}

func (r *WheelSettingRepository) GetByLevel(ctx context.Context, tx *gorm.DB, level model.WheelLevel) (*model.WheelSetting, error) {
	if tx == nil {
		tx = r.db
	}
	var setting model.WheelSetting
	err := tx.WithContext(ctx).Where("level = ?", level).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLevelNotFound
		}
		return nil, err
	}
	return &setting, nil
}

func (r *WheelSettingRepository) List(ctx context.Context, tx *gorm.DB) ([]*model.WheelSetting, error) {
	if tx == nil {
		tx = r.db
	}
	var settings []*model.WheelSetting
	err := tx.WithContext(ctx).Order("spin_cost ASC").Find(&settings).Error
	return settings, err
}

func (r *WheelSettingRepository) Save(ctx context.Context, tx *gorm.DB, setting *model.WheelSetting) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "level"}},
			UpdateAll: true,
		}).
		Create(setting).Error
}
