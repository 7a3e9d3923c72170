package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidWheelSetting = errors.New("invalid wheel setting")

type WheelLevel string

const (
	LevelBasic     WheelLevel = "basic"
	LevelAdvanced  WheelLevel = "advanced"
	LevelEpic      WheelLevel = "epic"
	LevelLegendary WheelLevel = "legendary"
)

var AllLevels = []WheelLevel{LevelBasic, LevelAdvanced, LevelEpic, LevelLegendary}

func (l WheelLevel) Valid() bool {
	for _, level := range AllLevels {
		if l == level {
			return true
		}
	}
	return false
}

type SeriesBonusType string

const (
	SeriesBonusNone     SeriesBonusType = "none"
	SeriesBonusFreeSpin SeriesBonusType = "freeSpin"
	SeriesBonusLuck     SeriesBonusType = "+luck"
)

// ParseSeriesBonusType maps loosely written values onto the known bonus types.
// Anything unrecognised disables the bonus.
func ParseSeriesBonusType(s string) SeriesBonusType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "freespin", "free_spin", "free-spin":
		return SeriesBonusFreeSpin
	case "+luck", "luck":
		return SeriesBonusLuck
	}
	return SeriesBonusNone
}

// WheelSetting is the per-level configuration of the wheel.
type WheelSetting struct {
	ID               int64             `gorm:"primaryKey;autoIncrement" json:"-" yaml:"-"`
	Level            WheelLevel        `gorm:"type:varchar(32);uniqueIndex;not null" json:"level" yaml:"level"`
	SpinCost         int64             `gorm:"not null" json:"spinCost" yaml:"spinCost"`
	RarityUpgrades   RarityMap         `gorm:"type:text;serializer:json" json:"rarityUpgrades" yaml:"rarityUpgrades"`
	PityStep         float64           `gorm:"not null;default:0" json:"pityStep" yaml:"pityStep"`
	PityMax          float64           `gorm:"not null;default:0" json:"pityMax" yaml:"pityMax"`
	WeightsOverrides RarityMultipliers `gorm:"type:text;serializer:json" json:"weightsOverrides,omitempty" yaml:"weightsOverrides"`
	SeriesBonusEvery int64             `gorm:"not null;default:0" json:"seriesBonusEvery" yaml:"seriesBonusEvery"`
	SeriesBonusType  SeriesBonusType   `gorm:"type:varchar(16);not null;default:none" json:"seriesBonusType" yaml:"seriesBonusType"`
	UpdatedAt        time.Time         `json:"updatedAt" yaml:"-"`
}

func (WheelSetting) TableName() string {
	return "wheel_setting"
}

// Normalize completes the rarity upgrade table and clamps the pity
// configuration into a consistent shape.
func (s WheelSetting) Normalize() (WheelSetting, error) {
	s.Level = WheelLevel(strings.ToLower(strings.TrimSpace(string(s.Level))))
	if !s.Level.Valid() {
		return WheelSetting{}, fmt.Errorf("%w: unknown level %q", ErrInvalidWheelSetting, s.Level)
	}
	if s.SpinCost <= 0 {
		return WheelSetting{}, fmt.Errorf("%w: spinCost must be positive", ErrInvalidWheelSetting)
	}

	upgrades := make(RarityMap, len(AllRarities))
	for _, r := range AllRarities {
		upgrades[r] = r
	}
	for from, to := range s.RarityUpgrades {
		if !from.Valid() || !to.Valid() {
			return WheelSetting{}, fmt.Errorf("%w: rarity upgrade %d->%d out of range", ErrInvalidWheelSetting, from, to)
		}
		upgrades[from] = to
	}
	s.RarityUpgrades = upgrades

	if len(s.WeightsOverrides) > 0 {
		overrides := make(RarityMultipliers, len(s.WeightsOverrides))
		for r, m := range s.WeightsOverrides {
			if !r.Valid() {
				return WheelSetting{}, fmt.Errorf("%w: weight override for rarity %d", ErrInvalidWheelSetting, r)
			}
			overrides[r] = max(m, 0)
		}
		s.WeightsOverrides = overrides
	}

	s.PityStep = max(s.PityStep, 0)
	s.PityMax = max(s.PityMax, 0)
	if s.PityStep > s.PityMax {
		s.PityStep = s.PityMax
	}

	s.SeriesBonusEvery = max(s.SeriesBonusEvery, 0)
	s.SeriesBonusType = ParseSeriesBonusType(string(s.SeriesBonusType))
	return s, nil
}
