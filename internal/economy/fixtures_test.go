package economy

import (
	"fmt"
	"time"

	"duckwheel/internal/model"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func prize(id string, rarity model.Rarity) model.Prize {
	return model.Prize{PrizeID: id, Name: "Prize " + id, Rarity: rarity, Active: true}
}

func priced(p model.Prize, price int64) model.Prize {
	p.DirectBuyEnabled = true
	p.DirectBuyPrice = &price
	return p
}

func basicLevel() model.WheelSetting {
	return model.WheelSetting{
		Level:          model.LevelBasic,
		SpinCost:       3,
		RarityUpgrades: model.RarityMap{1: 1, 2: 2, 3: 3, 4: 4},
		PityStep:       0.1,
		PityMax:        0.5,
	}
}

func player(balance int64, luck float64) model.User {
	return model.User{
		UserID:       "duck-alex",
		Name:         "Alex",
		Balance:      balance,
		TotalEarned:  balance,
		LuckModifier: luck,
		Role:         model.RoleUser,
	}
}

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
