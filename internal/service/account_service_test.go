package service

import (
	"context"
	"testing"
	"time"

	"duckwheel/internal/economy"
	"duckwheel/internal/model"
	"duckwheel/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDucks(t *testing.T) {
	f := newFixture(t)
	svc := NewAccountService(f.deps)
	ctx := context.Background()

	resp, err := svc.AddDucks(ctx, &AddDucksRequest{UserID: "duck-maria", Amount: 30, Note: "demo day"})
	require.NoError(t, err)
	assert.Equal(t, int64(32), resp.User.Balance)
	assert.Equal(t, int64(75), resp.User.TotalEarned)
	assert.Equal(t, "demo day", resp.Entry.Note)

	_, err = svc.AddDucks(ctx, &AddDucksRequest{UserID: "duck-maria", Amount: -40})
	assert.ErrorIs(t, err, economy.ErrInsufficientBalance)

	_, err = svc.AddDucks(ctx, &AddDucksRequest{UserID: "duck-maria", Amount: -2, Note: "typo"})
	require.NoError(t, err)

	history, err := svc.DuckHistory(ctx, "duck-maria")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(-2), history[0].Amount)
	assert.Equal(t, int64(30), history[1].Amount)

	u, err := svc.GetUser(ctx, "duck-maria")
	require.NoError(t, err)
	assert.Equal(t, int64(30), u.Balance)

	_, err = svc.AddDucks(ctx, &AddDucksRequest{UserID: "ghost", Amount: 1})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	ledger := 0
	for _, m := range f.store.OutboxMessages() {
		if m.EventType == model.EventBalanceAdjusted {
			ledger++
		}
	}
	assert.Equal(t, 2, ledger)
}

func TestOverviewAggregatesWins(t *testing.T) {
	f := newFixture(t)
	svc := NewAccountService(f.deps)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	logs := []model.SpinLog{
		{LogID: "1", UserID: "duck-alex", PrizeID: "stickers", PrizeName: "Stickers", Rarity: 1, CreatedAt: base},
		{LogID: "2", UserID: "duck-alex", PrizeID: "retreat", PrizeName: "Weekend retreat", Rarity: 4, CreatedAt: base.Add(time.Hour)},
		{LogID: "3", UserID: "duck-alex", PrizeID: "stickers", PrizeName: "Stickers", Rarity: 1, CreatedAt: base.Add(2 * time.Hour)},
		{LogID: "4", UserID: "duck-maria", PrizeID: "", PrizeName: "Legacy mug", Rarity: 2, CreatedAt: base},
		{LogID: "5", UserID: "duck-maria", PrizeID: "dayoff", PrizeName: "Half day off", Rarity: 3, CreatedAt: base.Add(time.Minute)},
	}
	for i := range logs {
		require.NoError(t, f.store.AppendSpinLog(ctx, &logs[i]))
	}
	require.NoError(t, f.store.SaveUser(ctx, &model.User{UserID: "duck-bob", Name: "bob", Balance: 80}))

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Len(t, overview, 4)

	assert.Equal(t, []string{"duck-admin", "duck-alex", "duck-bob", "duck-maria"},
		[]string{overview[0].UserID, overview[1].UserID, overview[2].UserID, overview[3].UserID})

	alex := overview[1]
	require.Len(t, alex.Wins, 2)
	assert.Equal(t, "stickers", alex.Wins[0].PrizeID)
	assert.Equal(t, 2, alex.Wins[0].Count)
	assert.Equal(t, base.Add(2*time.Hour), alex.Wins[0].LastWonAt)
	assert.Equal(t, 1, alex.Wins[1].Count)

	maria := overview[3]
	require.Len(t, maria.Wins, 2)
	assert.Equal(t, "dayoff", maria.Wins[0].PrizeID, "ties broken by recency")
	assert.Equal(t, "Legacy mug", maria.Wins[1].PrizeName)

	assert.Empty(t, overview[0].Wins)
}
