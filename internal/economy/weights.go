package economy

import (
	"duckwheel/internal/model"
)

// rarityBaseWeights is the fixed weight table per effective rarity. A prize's
// own BaseWeight is informational and does not take part in the draw.
var rarityBaseWeights = map[model.Rarity]float64{
	model.RarityCommon:    60,
	model.RarityRare:      25,
	model.RarityEpic:      10,
	model.RarityLegendary: 5,
}

// minCommonLuckFactor keeps common prizes on the wheel at full pity.
const minCommonLuckFactor = 0.1

type WeightedPrize struct {
	Prize           model.Prize  `json:"prize"`
	EffectiveRarity model.Rarity `json:"effectiveRarity"`
	Weight          float64      `json:"weight"`
}

// EligiblePrizes filters out inactive prizes and one-time prizes already won.
func EligiblePrizes(prizes []model.Prize) []model.Prize {
	eligible := make([]model.Prize, 0, len(prizes))
	for _, p := range prizes {
		if p.OnWheel() {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// ComputeWeights returns the draw weight of every eligible prize for the given
// level and luck modifier, in input order.
func ComputeWeights(prizes []model.Prize, level model.WheelSetting, luck float64) []WeightedPrize {
	eligible := EligiblePrizes(prizes)
	out := make([]WeightedPrize, 0, len(eligible))
	for _, p := range eligible {
		eff := level.RarityUpgrades.Resolve(p.Rarity)
		out = append(out, WeightedPrize{
			Prize:           p,
			EffectiveRarity: eff,
			Weight:          rarityWeight(eff, level, luck),
		})
	}
	return out
}

func rarityWeight(eff model.Rarity, level model.WheelSetting, luck float64) float64 {
	weight := rarityBaseWeights[eff]

	if override, ok := level.WeightsOverrides[eff]; ok {
		weight *= override
	}

	if eff == model.RarityCommon {
		return weight * max(minCommonLuckFactor, 1-luck)
	}
	return weight * (1 + luck)
}
