package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"duckwheel/internal/config"
	"duckwheel/internal/model"
	"duckwheel/internal/repository"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) NotifyAdmin(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// mapCache is an in-memory JSONCache that counts deletions.
type mapCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes map[string]int
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}, deletes: map[string]int{}}
}

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *mapCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deletes[k]++
	}
	return nil
}

type fixture struct {
	store    *repository.MemoryStore
	cache    *mapCache
	notifier *recordingNotifier
	deps     Deps
}

func testConfig() *config.Config {
	return &config.Config{
		Kafka: config.KafkaConfig{Topic: config.KafkaTopicConfig{
			SpinResult: "spin",
			ShopOrder:  "order",
			DuckLedger: "ledger",
		}},
		Business: config.BusinessConfig{
			CacheTTLSeconds:   60,
			NotifyMinRarity:   4,
			AllowRequestSeeds: true,
		},
	}
}

func price(v int64) *int64 { return &v }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()

	users := []model.User{
		{UserID: "duck-admin", Name: "Admin", Balance: 120, TotalEarned: 120, Role: model.RoleAdmin},
		{UserID: "duck-alex", Name: "Alex", Balance: 80, TotalEarned: 80, SpinsTotal: 3, LuckModifier: 0.1, Role: model.RoleUser},
		{UserID: "duck-maria", Name: "Maria", Balance: 2, TotalEarned: 45, Role: model.RoleUser},
	}
	for i := range users {
		require.NoError(t, store.SaveUser(ctx, &users[i]))
	}

	prizes := []model.Prize{
		{PrizeID: "stickers", Name: "Stickers", Rarity: 1, Active: true, DirectBuyEnabled: true, DirectBuyPrice: price(10)},
		{PrizeID: "retreat", Name: "Weekend retreat", Rarity: 4, Active: true, RemoveAfterWin: true, DirectBuyEnabled: true, DirectBuyPrice: price(70)},
		{PrizeID: "dayoff", Name: "Half day off", Rarity: 3, Active: false},
	}
	for i := range prizes {
		require.NoError(t, store.SavePrize(ctx, &prizes[i]))
	}

	settings := []model.WheelSetting{
		{Level: model.LevelBasic, SpinCost: 3, RarityUpgrades: model.RarityMap{1: 1, 2: 2, 3: 3, 4: 4}, PityStep: 0.05, PityMax: 0.25, SeriesBonusEvery: 6, SeriesBonusType: model.SeriesBonusLuck},
		{Level: model.LevelEpic, SpinCost: 15, RarityUpgrades: model.RarityMap{1: 2, 2: 3, 3: 3, 4: 4}, PityStep: 0.1, PityMax: 0.5, SeriesBonusEvery: 4, SeriesBonusType: model.SeriesBonusFreeSpin},
	}
	for i := range settings {
		require.NoError(t, store.SaveWheelSetting(ctx, &settings[i]))
	}

	f := &fixture{store: store, cache: newMapCache(), notifier: &recordingNotifier{}}
	f.deps = Deps{
		Store:    store,
		Cache:    f.cache,
		Notifier: f.notifier,
		Config:   testConfig(),
		Clock:    func() time.Time { return testNow },
	}
	return f
}

// onlyPrize deactivates every prize except id.
func (f *fixture) onlyPrize(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()
	prizes, err := f.store.ListPrizes(ctx)
	require.NoError(t, err)
	for _, p := range prizes {
		p.Active = p.PrizeID == id
		require.NoError(t, f.store.SavePrize(ctx, p))
	}
}

func (f *fixture) user(t *testing.T, id string) *model.User {
	t.Helper()
	u, err := f.store.GetUser(context.Background(), id)
	require.NoError(t, err)
	return u
}
