package economy

import (
	"time"

	"duckwheel/internal/model"

	"github.com/google/uuid"
)

// SpinRequest is a consistent snapshot of everything a spin needs. The caller
// resolves the entities and serializes spins per user.
type SpinRequest struct {
	User   model.User
	Level  model.WheelSetting
	Prizes []model.Prize

	// RNG takes precedence over Seed; with neither, DefaultRNG is used.
	RNG  RandomSource
	Seed string

	Now   time.Time
	NewID func() string
}

type SpinResult struct {
	Prize              *model.Prize `json:"prize,omitempty"`
	Rarity             model.Rarity `json:"rarity"`
	BalanceBefore      int64        `json:"balanceBefore"`
	BalanceAfter       int64        `json:"balanceAfter"`
	LuckBefore         float64      `json:"luckBefore"`
	LuckAfter          float64      `json:"luckAfter"`
	FreeSpinAwarded    bool         `json:"freeSpinAwarded"`
	SeriesBonusApplied bool         `json:"seriesBonusApplied"`
}

type SpinOutcome struct {
	Result   SpinResult
	NextUser model.User
	LogEntry model.SpinLog
}

// Spin draws a prize for the user at the given level and settles balance,
// pity and series bonus. Inputs are not modified; on error nothing is produced.
func Spin(req SpinRequest) (SpinOutcome, error) {
	user, level := req.User, req.Level

	if user.Balance < level.SpinCost {
		return SpinOutcome{}, ErrInsufficientBalance
	}

	weighted := ComputeWeights(req.Prizes, level, user.LuckModifier)
	if len(weighted) == 0 {
		return SpinOutcome{}, ErrNoPrizesAvailable
	}

	picked, err := PickWeighted(weighted, func(w WeightedPrize) float64 { return w.Weight }, resolveRNG(req.RNG, req.Seed))
	if err != nil {
		return SpinOutcome{}, err
	}

	now := nowOr(req.Now)
	balanceBefore := user.Balance
	luckBefore := user.LuckModifier

	balanceAfter := balanceBefore - level.SpinCost
	spinsTotal := user.SpinsTotal + 1

	var luckAfter float64
	if picked.EffectiveRarity == model.RarityCommon {
		luckAfter = min(level.PityMax, luckBefore+level.PityStep)
	}

	var freeSpin, bonusApplied bool
	if level.SeriesBonusEvery > 0 && spinsTotal%level.SeriesBonusEvery == 0 {
		switch level.SeriesBonusType {
		case model.SeriesBonusFreeSpin:
			balanceAfter += level.SpinCost
			freeSpin = true
			bonusApplied = true
		case model.SeriesBonusLuck:
			if room := level.PityMax - luckAfter; room > 0 {
				luckAfter = min(level.PityMax, luckAfter+min(room, level.PityStep))
				bonusApplied = true
			}
		}
	}

	prize := picked.Prize

	next := user
	next.Balance = balanceAfter
	next.SpinsTotal = spinsTotal
	next.LuckModifier = luckAfter
	next.LastResult = prize.Name
	next.UpdatedAt = now

	result := SpinResult{
		Prize:              &prize,
		Rarity:             picked.EffectiveRarity,
		BalanceBefore:      balanceBefore,
		BalanceAfter:       balanceAfter,
		LuckBefore:         luckBefore,
		LuckAfter:          luckAfter,
		FreeSpinAwarded:    freeSpin,
		SeriesBonusApplied: bonusApplied,
	}

	entry := model.SpinLog{
		LogID:              newID(req.NewID),
		UserID:             user.UserID,
		BetLevel:           level.Level,
		PrizeID:            prize.PrizeID,
		PrizeName:          prize.Name,
		Rarity:             picked.EffectiveRarity,
		BalanceBefore:      balanceBefore,
		BalanceAfter:       balanceAfter,
		LuckModifierBefore: luckBefore,
		LuckModifierAfter:  luckAfter,
		CreatedAt:          now,
	}

	return SpinOutcome{Result: result, NextUser: next, LogEntry: entry}, nil
}

func nowOr(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

func newID(gen func() string) string {
	if gen != nil {
		return gen()
	}
	return uuid.NewString()
}
