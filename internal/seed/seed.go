// Package seed loads demo users, prizes and wheel settings from YAML.
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"duckwheel/internal/model"
	"duckwheel/internal/repository"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Data struct {
	Users    []model.User         `yaml:"users"`
	Prizes   []model.Prize        `yaml:"prizes"`
	Settings []model.WheelSetting `yaml:"settings"`
}

// Summary counts the rows written per collection. Zero means the collection
// already had data and was left alone.
type Summary struct {
	Users    int
	Prizes   int
	Settings int
}

func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &data, nil
}

// Apply writes each collection only if the store holds none of it yet.
// Prizes and settings are normalized before they are saved.
func Apply(ctx context.Context, store repository.Store, data *Data, now time.Time) (Summary, error) {
	var sum Summary

	users, err := store.ListUsers(ctx)
	if err != nil {
		return sum, fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		for _, u := range data.Users {
			if u.Role == "" {
				u.Role = model.RoleUser
			}
			u.UpdatedAt = now
			if err := store.SaveUser(ctx, &u); err != nil {
				return sum, fmt.Errorf("seed user %s: %w", u.UserID, err)
			}
			sum.Users++
		}
	} else {
		logrus.WithField("count", len(users)).Info("users already seeded")
	}

	prizes, err := store.ListPrizes(ctx)
	if err != nil {
		return sum, fmt.Errorf("list prizes: %w", err)
	}
	if len(prizes) == 0 {
		for _, p := range data.Prizes {
			normalized, err := p.Normalize()
			if err != nil {
				return sum, fmt.Errorf("seed prize %s: %w", p.PrizeID, err)
			}
			normalized.UpdatedAt = now
			if err := store.SavePrize(ctx, &normalized); err != nil {
				return sum, fmt.Errorf("seed prize %s: %w", p.PrizeID, err)
			}
			sum.Prizes++
		}
	} else {
		logrus.WithField("count", len(prizes)).Info("prizes already seeded")
	}

	settings, err := store.ListWheelSettings(ctx)
	if err != nil {
		return sum, fmt.Errorf("list wheel settings: %w", err)
	}
	if len(settings) == 0 {
		for _, s := range data.Settings {
			normalized, err := s.Normalize()
			if err != nil {
				return sum, fmt.Errorf("seed setting %s: %w", s.Level, err)
			}
			normalized.UpdatedAt = now
			if err := store.SaveWheelSetting(ctx, &normalized); err != nil {
				return sum, fmt.Errorf("seed setting %s: %w", s.Level, err)
			}
			sum.Settings++
		}
	} else {
		logrus.WithField("count", len(settings)).Info("wheel settings already seeded")
	}

	return sum, nil
}
