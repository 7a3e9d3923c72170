package model

import (
	"time"
)

const (
	OrderStatusCreated   = "created"
	OrderStatusApproved  = "approved"
	OrderStatusDelivered = "delivered"
)

var ValidStatusTransitions = map[string][]string{
	OrderStatusCreated:  {OrderStatusApproved},
	OrderStatusApproved: {OrderStatusDelivered},
}

func CanTransitionTo(currentStatus, targetStatus string) bool {
	allowedStatuses, exists := ValidStatusTransitions[currentStatus]
	if !exists {
		return false
	}
	for _, s := range allowedStatuses {
		if s == targetStatus {
			return true
		}
	}
	return false
}

// ShopOrder is created by a direct purchase and fulfilled by an admin.
type ShopOrder struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"orderId"`
	UserID    string    `gorm:"type:varchar(64);index;not null" json:"userId"`
	PrizeID   string    `gorm:"type:varchar(64);not null" json:"prizeId"`
	Price     int64     `gorm:"not null" json:"price"`
	Status    string    `gorm:"type:varchar(20);index;not null" json:"status"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ShopOrder) TableName() string {
	return "shop_order"
}
