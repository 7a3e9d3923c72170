package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"duckwheel/internal/model"
)

type memoryState struct {
	users    map[string]model.User
	prizes   map[string]model.Prize
	settings map[model.WheelLevel]model.WheelSetting
	spinLogs []model.SpinLog
	orders   []model.ShopOrder
	history  []model.DuckHistory
	outbox   []model.OutboxMessage
	nextID   int64
}

func (st *memoryState) clone() *memoryState {
	c := &memoryState{
		users:    make(map[string]model.User, len(st.users)),
		prizes:   make(map[string]model.Prize, len(st.prizes)),
		settings: make(map[model.WheelLevel]model.WheelSetting, len(st.settings)),
		spinLogs: append([]model.SpinLog(nil), st.spinLogs...),
		orders:   append([]model.ShopOrder(nil), st.orders...),
		history:  append([]model.DuckHistory(nil), st.history...),
		outbox:   append([]model.OutboxMessage(nil), st.outbox...),
		nextID:   st.nextID,
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.prizes {
		c.prizes[k] = v
	}
	for k, v := range st.settings {
		c.settings[k] = v
	}
	return c
}

// MemoryStore keeps everything in process memory. It backs single-instance
// runs without MySQL and the service tests. Transactions are serialized and
// roll back by restoring a snapshot. Writes made outside a transaction wait
// for the running one to finish, so a rollback never discards them.
type MemoryStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *memoryState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: &memoryState{
		users:    make(map[string]model.User),
		prizes:   make(map[string]model.Prize),
		settings: make(map[model.WheelLevel]model.WheelSetting),
	}}
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	if err := fn(memoryTx{s}); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// memoryTx is the Store handed to a transaction body. The caller already holds
// txMu, so its writes go straight to the unguarded helpers.
type memoryTx struct {
	*MemoryStore
}

var _ Store = memoryTx{}

func (t memoryTx) Transaction(_ context.Context, fn func(tx Store) error) error {
	return fn(t)
}

func (t memoryTx) SaveUser(ctx context.Context, user *model.User) error {
	return t.saveUser(ctx, user)
}

func (t memoryTx) SavePrize(ctx context.Context, prize *model.Prize) error {
	return t.savePrize(ctx, prize)
}

func (t memoryTx) SaveWheelSetting(ctx context.Context, setting *model.WheelSetting) error {
	return t.saveWheelSetting(ctx, setting)
}

func (t memoryTx) AppendSpinLog(ctx context.Context, entry *model.SpinLog) error {
	return t.appendSpinLog(ctx, entry)
}

func (t memoryTx) AppendShopOrder(ctx context.Context, order *model.ShopOrder) error {
	return t.appendShopOrder(ctx, order)
}

func (t memoryTx) UpdateShopOrderStatus(ctx context.Context, orderID, fromStatus, toStatus string, at time.Time) error {
	return t.updateShopOrderStatus(ctx, orderID, fromStatus, toStatus, at)
}

func (t memoryTx) AppendDuckHistory(ctx context.Context, entry *model.DuckHistory) error {
	return t.appendDuckHistory(ctx, entry)
}

func (t memoryTx) AppendOutbox(ctx context.Context, msg *model.OutboxMessage) error {
	return t.appendOutbox(ctx, msg)
}

func (t memoryTx) MarkSent(ctx context.Context, id int64) error {
	return t.markSent(ctx, id)
}

func (t memoryTx) RecordFailure(ctx context.Context, msg *model.OutboxMessage, cause string, maxRetries int) (bool, error) {
	return t.recordFailure(ctx, msg, cause, maxRetries)
}

func (s *MemoryStore) id() int64 {
	s.st.nextID++
	return s.st.nextID
}

func (s *MemoryStore) GetUser(_ context.Context, userID string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.st.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.User, 0, len(s.st.users))
	for _, u := range s.st.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) SaveUser(ctx context.Context, user *model.User) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.saveUser(ctx, user)
}

func (s *MemoryStore) saveUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.st.users[user.UserID]; ok {
		user.ID = prev.ID
	} else if user.ID == 0 {
		user.ID = s.id()
	}
	s.st.users[user.UserID] = *user
	return nil
}

func (s *MemoryStore) GetPrize(_ context.Context, prizeID string) (*model.Prize, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.st.prizes[prizeID]
	if !ok {
		return nil, ErrPrizeNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListPrizes(_ context.Context) ([]*model.Prize, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Prize, 0, len(s.st.prizes))
	for _, p := range s.st.prizes {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rarity != out[j].Rarity {
			return out[i].Rarity < out[j].Rarity
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) SavePrize(ctx context.Context, prize *model.Prize) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.savePrize(ctx, prize)
}

func (s *MemoryStore) savePrize(_ context.Context, prize *model.Prize) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.st.prizes[prize.PrizeID]; ok {
		prize.ID = prev.ID
	} else if prize.ID == 0 {
		prize.ID = s.id()
	}
	s.st.prizes[prize.PrizeID] = *prize
	return nil
}

func (s *MemoryStore) GetWheelSetting(_ context.Context, level model.WheelLevel) (*model.WheelSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.st.settings[level]
	if !ok {
		return nil, ErrLevelNotFound
	}
	return &ws, nil
}

func (s *MemoryStore) ListWheelSettings(_ context.Context) ([]*model.WheelSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.WheelSetting, 0, len(s.st.settings))
	for _, ws := range s.st.settings {
		ws := ws
		out = append(out, &ws)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpinCost < out[j].SpinCost })
	return out, nil
}

func (s *MemoryStore) SaveWheelSetting(ctx context.Context, setting *model.WheelSetting) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.saveWheelSetting(ctx, setting)
}

func (s *MemoryStore) saveWheelSetting(_ context.Context, setting *model.WheelSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.st.settings[setting.Level]; ok {
		setting.ID = prev.ID
	} else if setting.ID == 0 {
		setting.ID = s.id()
	}
	s.st.settings[setting.Level] = *setting
	return nil
}

func (s *MemoryStore) AppendSpinLog(ctx context.Context, entry *model.SpinLog) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.appendSpinLog(ctx, entry)
}

func (s *MemoryStore) appendSpinLog(_ context.Context, entry *model.SpinLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.id()
	s.st.spinLogs = append(s.st.spinLogs, *entry)
	return nil
}

func (s *MemoryStore) ListSpinLogs(_ context.Context, userID string) ([]*model.SpinLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.SpinLog
	for i := len(s.st.spinLogs) - 1; i >= 0; i-- {
		if e := s.st.spinLogs[i]; userID == "" || e.UserID == userID {
			out = append(out, &e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) AppendShopOrder(ctx context.Context, order *model.ShopOrder) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.appendShopOrder(ctx, order)
}

func (s *MemoryStore) appendShopOrder(_ context.Context, order *model.ShopOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = s.id()
	s.st.orders = append(s.st.orders, *order)
	return nil
}

func (s *MemoryStore) GetShopOrder(_ context.Context, orderID string) (*model.ShopOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.st.orders {
		if o.OrderID == orderID {
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (s *MemoryStore) ListShopOrders(_ context.Context, userID string) ([]*model.ShopOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.ShopOrder
	for i := len(s.st.orders) - 1; i >= 0; i-- {
		if o := s.st.orders[i]; userID == "" || o.UserID == userID {
			out = append(out, &o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateShopOrderStatus(ctx context.Context, orderID, fromStatus, toStatus string, at time.Time) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.updateShopOrderStatus(ctx, orderID, fromStatus, toStatus, at)
}

func (s *MemoryStore) updateShopOrderStatus(_ context.Context, orderID, fromStatus, toStatus string, at time.Time) error {
	if !model.CanTransitionTo(fromStatus, toStatus) {
		return ErrOrderStatusInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.st.orders {
		o := &s.st.orders[i]
		if o.OrderID != orderID {
			continue
		}
		if o.Status != fromStatus {
			return ErrOrderStatusInvalid
		}
		o.Status = toStatus
		o.UpdatedAt = at
		return nil
	}
	return ErrOrderNotFound
}

func (s *MemoryStore) AppendDuckHistory(ctx context.Context, entry *model.DuckHistory) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.appendDuckHistory(ctx, entry)
}

func (s *MemoryStore) appendDuckHistory(_ context.Context, entry *model.DuckHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.id()
	s.st.history = append(s.st.history, *entry)
	return nil
}

func (s *MemoryStore) ListDuckHistory(_ context.Context, userID string) ([]*model.DuckHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.DuckHistory
	for i := len(s.st.history) - 1; i >= 0; i-- {
		if e := s.st.history[i]; userID == "" || e.UserID == userID {
			out = append(out, &e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) AppendOutbox(ctx context.Context, msg *model.OutboxMessage) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.appendOutbox(ctx, msg)
}

func (s *MemoryStore) appendOutbox(_ context.Context, msg *model.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = s.id()
	if msg.Status == "" {
		msg.Status = model.OutboxStatusPending
	}
	now := time.Now()
	msg.CreatedAt, msg.UpdatedAt = now, now
	s.st.outbox = append(s.st.outbox, *msg)
	return nil
}

func (s *MemoryStore) GetPendingMessages(_ context.Context, limit int) ([]*model.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.OutboxMessage
	for _, m := range s.st.outbox {
		if len(out) >= limit {
			break
		}
		if m.Status == model.OutboxStatusPending {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

func (s *MemoryStore) MarkSent(ctx context.Context, id int64) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.markSent(ctx, id)
}

func (s *MemoryStore) markSent(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := s.outboxByID(id); m != nil && m.Status == model.OutboxStatusPending {
		m.Status = model.OutboxStatusSent
		m.UpdatedAt = time.Now()
	}
	return nil
}

func (s *MemoryStore) RecordFailure(ctx context.Context, msg *model.OutboxMessage, cause string, maxRetries int) (bool, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.recordFailure(ctx, msg, cause, maxRetries)
}

func (s *MemoryStore) recordFailure(_ context.Context, msg *model.OutboxMessage, cause string, maxRetries int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	failed := msg.RetryCount+1 >= maxRetries
	if m := s.outboxByID(msg.ID); m != nil {
		m.RetryCount++
		m.LastError = cause
		m.UpdatedAt = time.Now()
		if failed {
			m.Status = model.OutboxStatusFailed
		}
	}
	return failed, nil
}

// OutboxMessages returns a copy of every outbox row, oldest first.
func (s *MemoryStore) OutboxMessages() []model.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.OutboxMessage(nil), s.st.outbox...)
}

func (s *MemoryStore) outboxByID(id int64) *model.OutboxMessage {
	for i := range s.st.outbox {
		if s.st.outbox[i].ID == id {
			return &s.st.outbox[i]
		}
	}
	return nil
}
