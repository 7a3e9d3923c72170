package economy

import (
	"testing"

	"duckwheel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weightsByID(ws []WeightedPrize) map[string]WeightedPrize {
	out := make(map[string]WeightedPrize, len(ws))
	for _, w := range ws {
		out[w.Prize.PrizeID] = w
	}
	return out
}

func TestComputeWeightsExcludesUnavailablePrizes(t *testing.T) {
	inactive := prize("inactive", 1)
	inactive.Active = false

	won := prize("won", 3)
	won.RemoveAfterWin = true
	won.RemovedFromWheel = true

	oneTime := prize("one-time", 3)
	oneTime.RemoveAfterWin = true

	// RemovedFromWheel only matters for one-time prizes.
	flagged := prize("flagged", 2)
	flagged.RemovedFromWheel = true

	ws := weightsByID(ComputeWeights([]model.Prize{inactive, won, oneTime, flagged}, basicLevel(), 0))

	assert.Len(t, ws, 2)
	assert.Contains(t, ws, "one-time")
	assert.Contains(t, ws, "flagged")
	assert.NotContains(t, ws, "inactive")
	assert.NotContains(t, ws, "won")
}

func TestComputeWeightsBaseTable(t *testing.T) {
	prizes := []model.Prize{prize("c", 1), prize("r", 2), prize("e", 3), prize("l", 4)}
	ws := ComputeWeights(prizes, basicLevel(), 0)

	require.Len(t, ws, 4)
	assert.Equal(t, []float64{60, 25, 10, 5}, []float64{ws[0].Weight, ws[1].Weight, ws[2].Weight, ws[3].Weight})
}

func TestComputeWeightsIgnoresBaseWeight(t *testing.T) {
	p := prize("c", 1)
	p.BaseWeight = 999

	ws := ComputeWeights([]model.Prize{p}, basicLevel(), 0)
	require.Len(t, ws, 1)
	assert.Equal(t, 60.0, ws[0].Weight)
}

func TestComputeWeightsRarityUpgrades(t *testing.T) {
	level := basicLevel()
	level.RarityUpgrades = model.RarityMap{1: 2}

	ws := weightsByID(ComputeWeights([]model.Prize{prize("c", 1), prize("e", 3)}, level, 0))

	assert.Equal(t, model.RarityRare, ws["c"].EffectiveRarity)
	assert.Equal(t, 25.0, ws["c"].Weight)
	// Rarities missing from the table keep their raw value.
	assert.Equal(t, model.RarityEpic, ws["e"].EffectiveRarity)
	assert.Equal(t, 10.0, ws["e"].Weight)
}

func TestComputeWeightsNilUpgradeTable(t *testing.T) {
	level := basicLevel()
	level.RarityUpgrades = nil

	ws := ComputeWeights([]model.Prize{prize("l", 4)}, level, 0)
	require.Len(t, ws, 1)
	assert.Equal(t, model.RarityLegendary, ws[0].EffectiveRarity)
}

func TestComputeWeightsLuck(t *testing.T) {
	prizes := []model.Prize{prize("c", 1), prize("r", 2)}

	ws := weightsByID(ComputeWeights(prizes, basicLevel(), 0.2))
	assert.InDelta(t, 48.0, ws["c"].Weight, 1e-9)
	assert.InDelta(t, 30.0, ws["r"].Weight, 1e-9)

	ws = weightsByID(ComputeWeights(prizes, basicLevel(), 0.95))
	assert.InDelta(t, 6.0, ws["c"].Weight, 1e-9, "common weight floors at 10%")
	assert.InDelta(t, 48.75, ws["r"].Weight, 1e-9)
}

func TestComputeWeightsOverrides(t *testing.T) {
	level := basicLevel()
	level.WeightsOverrides = model.RarityMultipliers{2: 2, 1: 0}

	ws := weightsByID(ComputeWeights([]model.Prize{prize("c", 1), prize("r", 2), prize("e", 3)}, level, 0))

	assert.Equal(t, 0.0, ws["c"].Weight)
	assert.Equal(t, 50.0, ws["r"].Weight)
	assert.Equal(t, 10.0, ws["e"].Weight)
}

func TestComputeWeightsUnknownRarityWeighsNothing(t *testing.T) {
	ws := ComputeWeights([]model.Prize{prize("odd", 7)}, basicLevel(), 0)
	require.Len(t, ws, 1)
	assert.Equal(t, 0.0, ws[0].Weight)
}

func TestComputeWeightsDoesNotTouchInput(t *testing.T) {
	prizes := []model.Prize{prize("c", 1)}
	level := basicLevel()
	level.RarityUpgrades = model.RarityMap{1: 3}

	ComputeWeights(prizes, level, 0.3)
	assert.Equal(t, model.RarityCommon, prizes[0].Rarity)
}
