package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRarityMapAcceptsStringEncodedJSON(t *testing.T) {
	var s WheelSetting
	err := json.Unmarshal([]byte(`{"level":"basic","rarityUpgrades":"{\"1\":2,\"3\":4}","weightsOverrides":"{\"4\":0}"}`), &s)
	require.NoError(t, err)

	assert.Equal(t, RarityMap{1: 2, 3: 4}, s.RarityUpgrades)
	assert.Equal(t, RarityMultipliers{4: 0}, s.WeightsOverrides)

	err = json.Unmarshal([]byte(`{"rarityUpgrades":{"2":3},"weightsOverrides":""}`), &s)
	require.NoError(t, err)
	assert.Equal(t, RarityMap{2: 3}, s.RarityUpgrades)
	assert.Nil(t, s.WeightsOverrides)

	assert.Error(t, json.Unmarshal([]byte(`{"rarityUpgrades":"not json"}`), &s))
}

func TestRarityMapResolve(t *testing.T) {
	m := RarityMap{RarityCommon: RarityRare}
	assert.Equal(t, RarityRare, m.Resolve(RarityCommon))
	assert.Equal(t, RarityEpic, m.Resolve(RarityEpic))
	assert.Equal(t, RarityEpic, RarityMap(nil).Resolve(RarityEpic))
}

func TestWheelSettingNormalize(t *testing.T) {
	s, err := WheelSetting{
		Level:            " Epic ",
		SpinCost:         15,
		RarityUpgrades:   RarityMap{1: 2},
		PityStep:         0.7,
		PityMax:          0.5,
		SeriesBonusEvery: -3,
		SeriesBonusType:  "FreeSpin",
		WeightsOverrides: RarityMultipliers{2: -1, 4: 1.5},
	}.Normalize()
	require.NoError(t, err)

	assert.Equal(t, LevelEpic, s.Level)
	assert.Equal(t, RarityMap{1: 2, 2: 2, 3: 3, 4: 4}, s.RarityUpgrades)
	assert.Equal(t, 0.5, s.PityStep)
	assert.Equal(t, int64(0), s.SeriesBonusEvery)
	assert.Equal(t, SeriesBonusFreeSpin, s.SeriesBonusType)
	assert.Equal(t, RarityMultipliers{2: 0, 4: 1.5}, s.WeightsOverrides)

	s, err = WheelSetting{Level: LevelBasic, SpinCost: 1, PityStep: -1, PityMax: -2, SeriesBonusType: "jackpot"}.Normalize()
	require.NoError(t, err)
	assert.Zero(t, s.PityStep)
	assert.Zero(t, s.PityMax)
	assert.Equal(t, SeriesBonusNone, s.SeriesBonusType)

	_, err = WheelSetting{Level: "mythic", SpinCost: 1}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidWheelSetting)
	_, err = WheelSetting{Level: LevelBasic, SpinCost: 0}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidWheelSetting)
	_, err = WheelSetting{Level: LevelBasic, SpinCost: 1, RarityUpgrades: RarityMap{1: 5}}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidWheelSetting)
}

func TestPrizeNormalize(t *testing.T) {
	zero := int64(0)
	p, err := Prize{PrizeID: " mug ", Name: " Mug ", Rarity: RarityRare, BaseWeight: -4, DirectBuyPrice: &zero}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "mug", p.PrizeID)
	assert.Equal(t, "Mug", p.Name)
	assert.Zero(t, p.BaseWeight)
	assert.Nil(t, p.DirectBuyPrice)

	tests := []Prize{
		{Name: "no id", Rarity: 1},
		{PrizeID: "x", Rarity: 1},
		{PrizeID: "x", Name: "X", Rarity: 0},
		{PrizeID: "x", Name: "X", Rarity: 1, DirectBuyEnabled: true},
		{PrizeID: "x", Name: "X", Rarity: 1, DirectBuyEnabled: true, DirectBuyPrice: &zero},
	}
	for _, tt := range tests {
		_, err := tt.Normalize()
		assert.ErrorIs(t, err, ErrInvalidPrize, "%+v", tt)
	}
}

func TestPrizeOnWheel(t *testing.T) {
	assert.True(t, Prize{Active: true}.OnWheel())
	assert.False(t, Prize{Active: false}.OnWheel())
	assert.True(t, Prize{Active: true, RemovedFromWheel: true}.OnWheel())
	assert.False(t, Prize{Active: true, RemoveAfterWin: true, RemovedFromWheel: true}.OnWheel())

	assert.True(t, Prize{RemoveAfterWin: true}.NeedsRemoval())
	assert.False(t, Prize{RemoveAfterWin: true, RemovedFromWheel: true}.NeedsRemoval())
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, CanTransitionTo(OrderStatusCreated, OrderStatusApproved))
	assert.True(t, CanTransitionTo(OrderStatusApproved, OrderStatusDelivered))
	assert.False(t, CanTransitionTo(OrderStatusCreated, OrderStatusDelivered))
	assert.False(t, CanTransitionTo(OrderStatusDelivered, OrderStatusCreated))
	assert.False(t, CanTransitionTo("cancelled", OrderStatusApproved))
}
