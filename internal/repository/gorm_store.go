package repository

import (
	"context"
	"time"

	"duckwheel/internal/model"

	"gorm.io/gorm"
)

// GormStore implements Store over MySQL. Inside Transaction every repository
// call is routed through the transaction handle.
type GormStore struct {
	db *gorm.DB
	tx *gorm.DB

	users    *UserRepository
	prizes   *PrizeRepository
	settings *WheelSettingRepository
	spinLogs *SpinLogRepository
	orders   *OrderRepository
	history  *DuckHistoryRepository
	outbox   *OutboxRepository
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:       db,
		users:    NewUserRepository(db),
		prizes:   NewPrizeRepository(db),
		settings: NewWheelSettingRepository(db),
		spinLogs: NewSpinLogRepository(db),
		orders:   NewOrderRepository(db),
		history:  NewDuckHistoryRepository(db),
		outbox:   NewOutboxRepository(db),
	}
}

// Outbox exposes the polling side of the outbox for the sender job.
func (s *GormStore) Outbox() *OutboxRepository {
	return s.outbox
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bound := *s
		bound.tx = tx
		return fn(&bound)
	})
}

func (s *GormStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByUserID(ctx, s.tx, userID)
}

func (s *GormStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx, s.tx)
}

func (s *GormStore) SaveUser(ctx context.Context, user *model.User) error {
	return s.users.Save(ctx, s.tx, user)
}

func (s *GormStore) GetPrize(ctx context.Context, prizeID string) (*model.Prize, error) {
	return s.prizes.GetByPrizeID(ctx, s.tx, prizeID)
}

func (s *GormStore) ListPrizes(ctx context.Context) ([]*model.Prize, error) {
	return s.prizes.List(ctx, s.tx)
}

func (s *GormStore) SavePrize(ctx context.Context, prize *model.Prize) error {
	return s.prizes.Save(ctx, s.tx, prize)
}

func (s *GormStore) GetWheelSetting(ctx context.Context, level model.WheelLevel) (*model.WheelSetting, error) {
	return s.settings.GetByLevel(ctx, s.tx, level)
}

func (s *GormStore) ListWheelSettings(ctx context.Context) ([]*model.WheelSetting, error) {
	return s.settings.List(ctx, s.tx)
}

func (s *GormStore) SaveWheelSetting(ctx context.Context, setting *model.WheelSetting) error {
	return s.settings.Save(ctx, s.tx, setting)
}

func (s *GormStore) AppendSpinLog(ctx context.Context, entry *model.SpinLog) error {
	return s.spinLogs.Create(ctx, s.tx, entry)
}

func (s *GormStore) ListSpinLogs(ctx context.Context, userID string) ([]*model.SpinLog, error) {
	return s.spinLogs.ListByUser(ctx, s.tx, userID)
}

func (s *GormStore) AppendShopOrder(ctx context.Context, order *model.ShopOrder) error {
	return s.orders.Create(ctx, s.tx, order)
}

func (s *GormStore) GetShopOrder(ctx context.Context, orderID string) (*model.ShopOrder, error) {
	return s.orders.GetByOrderID(ctx, s.tx, orderID)
}

func (s *GormStore) ListShopOrders(ctx context.Context, userID string) ([]*model.ShopOrder, error) {
	return s.orders.ListByUser(ctx, s.tx, userID)
}

func (s *GormStore) UpdateShopOrderStatus(ctx context.Context, orderID, fromStatus, toStatus string, at time.Time) error {
	return s.orders.UpdateStatus(ctx, s.tx, orderID, fromStatus, toStatus, at)
}

func (s *GormStore) AppendDuckHistory(ctx context.Context, entry *model.DuckHistory) error {
	return s.history.Create(ctx, s.tx, entry)
}

func (s *GormStore) ListDuckHistory(ctx context.Context, userID string) ([]*model.DuckHistory, error) {
	return s.history.ListByUser(ctx, s.tx, userID)
}

func (s *GormStore) AppendOutbox(ctx context.Context, msg *model.OutboxMessage) error {
	return s.outbox.Create(ctx, s.tx, msg)
}
