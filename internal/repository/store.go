package repository

import (
	"context"
	"errors"
	"time"

	"duckwheel/internal/model"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrLevelNotFound      = errors.New("wheel level not found")
	ErrPrizeNotFound      = errors.New("prize not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderStatusInvalid = errors.New("order status transition not allowed")
)

// Store is the persistence collaborator of the wheel. Saves are upserts keyed
// by the entity's natural id; List* return current state. List methods taking
// a userID treat "" as "all users" and return newest entries first.
type Store interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	SaveUser(ctx context.Context, user *model.User) error

	GetPrize(ctx context.Context, prizeID string) (*model.Prize, error)
	ListPrizes(ctx context.Context) ([]*model.Prize, error)
	SavePrize(ctx context.Context, prize *model.Prize) error

	GetWheelSetting(ctx context.Context, level model.WheelLevel) (*model.WheelSetting, error)
	ListWheelSettings(ctx context.Context) ([]*model.WheelSetting, error)
	SaveWheelSetting(ctx context.Context, setting *model.WheelSetting) error

	AppendSpinLog(ctx context.Context, entry *model.SpinLog) error
	ListSpinLogs(ctx context.Context, userID string) ([]*model.SpinLog, error)

	AppendShopOrder(ctx context.Context, order *model.ShopOrder) error
	GetShopOrder(ctx context.Context, orderID string) (*model.ShopOrder, error)
	ListShopOrders(ctx context.Context, userID string) ([]*model.ShopOrder, error)
	// UpdateShopOrderStatus moves an order from one status to the next,
	// failing with ErrOrderStatusInvalid if the order is no longer in fromStatus.
	UpdateShopOrderStatus(ctx context.Context, orderID, fromStatus, toStatus string, at time.Time) error

	AppendDuckHistory(ctx context.Context, entry *model.DuckHistory) error
	ListDuckHistory(ctx context.Context, userID string) ([]*model.DuckHistory, error)

	AppendOutbox(ctx context.Context, msg *model.OutboxMessage) error

	// Transaction runs fn against a Store whose writes commit together.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// OutboxStore is the side of the outbox polled by the sender job.
type OutboxStore interface {
	GetPendingMessages(ctx context.Context, limit int) ([]*model.OutboxMessage, error)
	MarkSent(ctx context.Context, id int64) error
	RecordFailure(ctx context.Context, msg *model.OutboxMessage, cause string, maxRetries int) (failed bool, err error)
}

var (
	_ Store       = (*GormStore)(nil)
	_ Store       = (*MemoryStore)(nil)
	_ OutboxStore = (*OutboxRepository)(nil)
	_ OutboxStore = (*MemoryStore)(nil)
)
