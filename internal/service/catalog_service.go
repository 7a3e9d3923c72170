package service

import (
	"context"
	"fmt"

	"duckwheel/internal/infrastructure/cache"
	"duckwheel/internal/model"

	"github.com/sirupsen/logrus"
)

// CatalogService serves and edits prizes and wheel settings. Reads go through
// the JSON cache; writes invalidate it.
type CatalogService struct {
	Deps
}

func NewCatalogService(deps Deps) *CatalogService {
	return &CatalogService{Deps: deps.withDefaults()}
}

func (s *CatalogService) ListPrizes(ctx context.Context) ([]*model.Prize, error) {
	var cached []*model.Prize
	if ok, err := s.Cache.Get(ctx, cache.KeyPrizes, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		logrus.WithError(err).Warn("read prize cache")
	}

	prizes, err := s.Store.ListPrizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prizes: %w", err)
	}
	if err := s.Cache.Set(ctx, cache.KeyPrizes, prizes, s.cacheTTL()); err != nil {
		logrus.WithError(err).Warn("write prize cache")
	}
	return prizes, nil
}

// ListSettings returns every configured level keyed by its name.
func (s *CatalogService) ListSettings(ctx context.Context) (map[model.WheelLevel]*model.WheelSetting, error) {
	var cached map[model.WheelLevel]*model.WheelSetting
	if ok, err := s.Cache.Get(ctx, cache.KeySettings, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		logrus.WithError(err).Warn("read settings cache")
	}

	settings, err := s.Store.ListWheelSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wheel settings: %w", err)
	}
	byLevel := make(map[model.WheelLevel]*model.WheelSetting, len(settings))
	for _, ws := range settings {
		byLevel[ws.Level] = ws
	}
	if err := s.Cache.Set(ctx, cache.KeySettings, byLevel, s.cacheTTL()); err != nil {
		logrus.WithError(err).Warn("write settings cache")
	}
	return byLevel, nil
}

// SavePrize validates and upserts a prize.
func (s *CatalogService) SavePrize(ctx context.Context, prize model.Prize) (*model.Prize, error) {
	normalized, err := prize.Normalize()
	if err != nil {
		return nil, err
	}
	normalized.UpdatedAt = s.Clock()

	if err := s.Store.SavePrize(ctx, &normalized); err != nil {
		return nil, fmt.Errorf("save prize: %w", err)
	}
	s.invalidateCatalog(ctx, cache.KeyPrizes)

	logrus.WithFields(logrus.Fields{
		"prize_id": normalized.PrizeID,
		"rarity":   int(normalized.Rarity),
		"active":   normalized.Active,
	}).Info("prize saved")
	return &normalized, nil
}

// SaveSetting validates and upserts the configuration of one level.
func (s *CatalogService) SaveSetting(ctx context.Context, setting model.WheelSetting) (*model.WheelSetting, error) {
	normalized, err := setting.Normalize()
	if err != nil {
		return nil, err
	}
	normalized.UpdatedAt = s.Clock()

	if err := s.Store.SaveWheelSetting(ctx, &normalized); err != nil {
		return nil, fmt.Errorf("save wheel setting: %w", err)
	}
	s.invalidateCatalog(ctx, cache.KeySettings)

	logrus.WithFields(logrus.Fields{
		"level":     normalized.Level,
		"spin_cost": normalized.SpinCost,
	}).Info("wheel setting saved")
	return &normalized, nil
}
