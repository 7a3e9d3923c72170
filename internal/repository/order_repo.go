package repository

import (
	"context"
	"errors"
	"time"

	"duckwheel/internal/model"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, tx *gorm.DB, order *model.ShopOrder) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) GetByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*model.ShopOrder, error) {
	if tx == nil {
		tx = r.db
	}
	var order model.ShopOrder
	err := tx.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*model.ShopOrder, error) {
	if tx == nil {
		tx = r.db
	}
	query := tx.WithContext(ctx).Order("created_at DESC, id DESC")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	var orders []*model.ShopOrder
	err := query.Find(&orders).Error
	return orders, err
}

// UpdateStatus applies the transition with an optimistic status check.
func (r *OrderRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID, fromStatus, toStatus string, at time.Time) error {
	if !model.CanTransitionTo(fromStatus, toStatus) {
		return ErrOrderStatusInvalid
	}
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.ShopOrder{}).
		Where("order_id = ? AND status = ?", orderID, fromStatus).
		Updates(map[string]interface{}{
			"status":     toStatus,
			"updated_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderStatusInvalid
	}
	return nil
}
