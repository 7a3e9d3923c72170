package economy

import (
	"time"

	"duckwheel/internal/model"
)

type PurchaseRequest struct {
	User  model.User
	Prize model.Prize
	Now   time.Time
	NewID func() string
}

type PurchaseOutcome struct {
	Order    model.ShopOrder
	NextUser model.User
}

// Purchase settles a direct buy of prize by user. The caller flags one-time
// prizes as removed after a successful purchase.
func Purchase(req PurchaseRequest) (PurchaseOutcome, error) {
	user, prize := req.User, req.Prize

	if !prize.DirectBuyEnabled {
		return PurchaseOutcome{}, ErrDirectPurchaseNotAllowed
	}
	if prize.DirectBuyPrice == nil || *prize.DirectBuyPrice <= 0 {
		return PurchaseOutcome{}, ErrDirectPriceNotSet
	}
	if !prize.OnWheel() {
		return PurchaseOutcome{}, ErrPrizeUnavailable
	}

	price := *prize.DirectBuyPrice
	if user.Balance < price {
		return PurchaseOutcome{}, ErrInsufficientBalance
	}

	now := nowOr(req.Now)

	next := user
	next.Balance -= price
	next.UpdatedAt = now

	order := model.ShopOrder{
		OrderID:   newID(req.NewID),
		UserID:    user.UserID,
		PrizeID:   prize.PrizeID,
		Price:     price,
		Status:    model.OrderStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return PurchaseOutcome{Order: order, NextUser: next}, nil
}
