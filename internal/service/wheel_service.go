package service

import (
	"context"
	"fmt"

	"duckwheel/internal/economy"
	"duckwheel/internal/infrastructure/cache"
	"duckwheel/internal/model"
	"duckwheel/internal/repository"
	"duckwheel/pkg/idgen"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type WheelService struct {
	Deps
}

func NewWheelService(deps Deps) *WheelService {
	return &WheelService{Deps: deps.withDefaults()}
}

type SpinRequest struct {
	UserID   string           `json:"userId" binding:"required"`
	BetLevel model.WheelLevel `json:"betLevel" binding:"required"`
	Seed     string           `json:"seed"`
}

type SpinResponse struct {
	Result economy.SpinResult `json:"result"`
	User   model.User         `json:"user"`
}

// Spin resolves the user, level and prize pool, settles the spin and persists
// the new user state, the spin log, the one-time prize flag and the outbox
// event in one transaction.
func (s *WheelService) Spin(ctx context.Context, req *SpinRequest) (*SpinResponse, error) {
	release, err := s.Locker.LockUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("spin busy: %w", err)
	}
	defer release()

	user, err := s.Store.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	level, err := s.Store.GetWheelSetting(ctx, req.BetLevel)
	if err != nil {
		return nil, err
	}
	// Prizes are read from the store rather than the cache so that a one-time
	// prize won a moment ago cannot be drawn again.
	prizes, err := s.Store.ListPrizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prizes: %w", err)
	}

	seed := req.Seed
	if !s.Config.Business.AllowRequestSeeds {
		seed = ""
	}

	now := s.Clock()
	outcome, err := economy.Spin(economy.SpinRequest{
		User:   *user,
		Level:  *level,
		Prizes: deref(prizes),
		Seed:   seed,
		Now:    now,
		NewID:  idgen.GenerateSpinLogID,
	})
	if err != nil {
		return nil, err
	}

	next := outcome.NextUser
	entry := outcome.LogEntry
	won := *outcome.Result.Prize
	removed := won.NeedsRemoval()

	err = s.Store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.SaveUser(ctx, &next); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		if err := tx.AppendSpinLog(ctx, &entry); err != nil {
			return fmt.Errorf("append spin log: %w", err)
		}
		if removed {
			won.RemovedFromWheel = true
			won.UpdatedAt = now
			if err := tx.SavePrize(ctx, &won); err != nil {
				return fmt.Errorf("remove prize from wheel: %w", err)
			}
		}
		msg, err := newOutboxMessage(s.Config.Kafka.Topic.SpinResult, model.EventSpinSettled, next.UserID, now, entry)
		if err != nil {
			return err
		}
		return tx.AppendOutbox(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	if removed {
		s.invalidateCatalog(ctx, cache.KeyPrizes)
	}

	result := outcome.Result
	result.Prize = &won

	logrus.WithFields(logrus.Fields{
		"user_id":     next.UserID,
		"level":       level.Level,
		"prize_id":    won.PrizeID,
		"rarity":      int(result.Rarity),
		"balance":     next.Balance,
		"luck":        next.LuckModifier,
		"free_spin":   result.FreeSpinAwarded,
		"bonus":       result.SeriesBonusApplied,
		"one_time":    removed,
		"spin_log_id": entry.LogID,
	}).Info("spin settled")

	if int(result.Rarity) >= s.Config.Business.NotifyMinRarity {
		s.Notifier.NotifyAdmin(fmt.Sprintf("%s won %q (%s) on the %s wheel", next.Name, won.Name, result.Rarity, level.Level))
	}

	return &SpinResponse{Result: result, User: next}, nil
}

type OddsEntry struct {
	PrizeID         string       `json:"prizeId"`
	Name            string       `json:"name"`
	Rarity          model.Rarity `json:"rarity"`
	EffectiveRarity model.Rarity `json:"effectiveRarity"`
	Weight          float64      `json:"weight"`
	ChancePercent   float64      `json:"chancePercent"`
}

type OddsResponse struct {
	Level        model.WheelLevel `json:"level"`
	LuckModifier float64          `json:"luckModifier"`
	TotalWeight  float64          `json:"totalWeight"`
	Prizes       []OddsEntry      `json:"prizes"`
}

// Odds previews the draw distribution of a level, optionally for a given
// user's current luck modifier.
func (s *WheelService) Odds(ctx context.Context, level model.WheelLevel, userID string) (*OddsResponse, error) {
	setting, err := s.Store.GetWheelSetting(ctx, level)
	if err != nil {
		return nil, err
	}

	luck := 0.0
	if userID != "" {
		user, err := s.Store.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		luck = user.LuckModifier
	}

	prizes, err := s.Store.ListPrizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prizes: %w", err)
	}

	weighted := economy.ComputeWeights(deref(prizes), *setting, luck)

	total := decimal.Zero
	for _, w := range weighted {
		if w.Weight > 0 {
			total = total.Add(decimal.NewFromFloat(w.Weight))
		}
	}

	resp := &OddsResponse{
		Level:        setting.Level,
		LuckModifier: luck,
		TotalWeight:  total.InexactFloat64(),
		Prizes:       make([]OddsEntry, 0, len(weighted)),
	}
	hundred := decimal.NewFromInt(100)
	for _, w := range weighted {
		chance := decimal.Zero
		if w.Weight > 0 && total.IsPositive() {
			chance = decimal.NewFromFloat(w.Weight).Div(total).Mul(hundred).Round(2)
		}
		resp.Prizes = append(resp.Prizes, OddsEntry{
			PrizeID:         w.Prize.PrizeID,
			Name:            w.Prize.Name,
			Rarity:          w.Prize.Rarity,
			EffectiveRarity: w.EffectiveRarity,
			Weight:          w.Weight,
			ChancePercent:   chance.InexactFloat64(),
		})
	}
	return resp, nil
}
