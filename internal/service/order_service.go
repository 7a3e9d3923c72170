package service

import (
	"context"
	"fmt"

	"duckwheel/internal/economy"
	"duckwheel/internal/infrastructure/cache"
	"duckwheel/internal/model"
	"duckwheel/internal/repository"
	"duckwheel/pkg/idgen"

	"github.com/sirupsen/logrus"
)

// OrderService handles direct purchases and the fulfilment of shop orders.
type OrderService struct {
	Deps
}

func NewOrderService(deps Deps) *OrderService {
	return &OrderService{Deps: deps.withDefaults()}
}

type BuyRequest struct {
	UserID  string `json:"userId" binding:"required"`
	PrizeID string `json:"prizeId" binding:"required"`
}

type BuyResponse struct {
	Order model.ShopOrder `json:"order"`
	User  model.User      `json:"user"`
}

func (s *OrderService) Buy(ctx context.Context, req *BuyRequest) (*BuyResponse, error) {
	release, err := s.Locker.LockUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("purchase busy: %w", err)
	}
	defer release()

	user, err := s.Store.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	prize, err := s.Store.GetPrize(ctx, req.PrizeID)
	if err != nil {
		return nil, err
	}

	now := s.Clock()
	outcome, err := economy.Purchase(economy.PurchaseRequest{
		User:  *user,
		Prize: *prize,
		Now:   now,
		NewID: idgen.GenerateOrderID,
	})
	if err != nil {
		return nil, err
	}

	next := outcome.NextUser
	order := outcome.Order
	removed := prize.NeedsRemoval()

	err = s.Store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.SaveUser(ctx, &next); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		if err := tx.AppendShopOrder(ctx, &order); err != nil {
			return fmt.Errorf("append order: %w", err)
		}
		if removed {
			taken := *prize
			taken.RemovedFromWheel = true
			taken.UpdatedAt = now
			if err := tx.SavePrize(ctx, &taken); err != nil {
				return fmt.Errorf("remove prize from wheel: %w", err)
			}
		}
		msg, err := newOutboxMessage(s.Config.Kafka.Topic.ShopOrder, model.EventOrderCreated, next.UserID, now, order)
		if err != nil {
			return err
		}
		return tx.AppendOutbox(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	if removed {
		s.invalidateCatalog(ctx, cache.KeyPrizes)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  next.UserID,
		"prize_id": prize.PrizeID,
		"order_id": order.OrderID,
		"price":    order.Price,
		"balance":  next.Balance,
	}).Info("prize purchased")

	s.Notifier.NotifyAdmin(fmt.Sprintf("New shop order %s: %s bought %q for %d ducks", order.OrderID, next.Name, prize.Name, order.Price))

	return &BuyResponse{Order: order, User: next}, nil
}

// ListOrders returns orders newest first; an empty userID lists everyone's.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*model.ShopOrder, error) {
	return s.Store.ListShopOrders(ctx, userID)
}

type UpdateOrderStatusRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Status  string `json:"status" binding:"required,oneof=approved delivered"`
}

// UpdateStatus advances a shop order along created -> approved -> delivered.
func (s *OrderService) UpdateStatus(ctx context.Context, req *UpdateOrderStatusRequest) (*model.ShopOrder, error) {
	var updated *model.ShopOrder
	now := s.Clock()

	err := s.Store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.GetShopOrder(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if !model.CanTransitionTo(order.Status, req.Status) {
			return repository.ErrOrderStatusInvalid
		}
		if err := tx.UpdateShopOrderStatus(ctx, order.OrderID, order.Status, req.Status, now); err != nil {
			return err
		}
		order.Status = req.Status
		order.UpdatedAt = now

		msg, err := newOutboxMessage(s.Config.Kafka.Topic.ShopOrder, model.EventOrderStatus, order.UserID, now, order)
		if err != nil {
			return err
		}
		if err := tx.AppendOutbox(ctx, msg); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id": updated.OrderID,
		"status":   updated.Status,
	}).Info("shop order status changed")
	return updated, nil
}
