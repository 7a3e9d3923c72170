package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidPrize = errors.New("invalid prize")

type Prize struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"-" yaml:"-"`
	PrizeID          string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"prizeId" yaml:"prizeId"`
	Name             string    `gorm:"type:varchar(128);not null" json:"name" yaml:"name"`
	Description      string    `gorm:"type:varchar(512)" json:"description" yaml:"description"`
	Rarity           Rarity    `gorm:"not null" json:"rarity" yaml:"rarity"`
	BaseWeight       float64   `gorm:"not null;default:0" json:"baseWeight" yaml:"baseWeight"`
	DirectBuyEnabled bool      `gorm:"not null;default:false" json:"directBuyEnabled" yaml:"directBuyEnabled"`
	DirectBuyPrice   *int64    `json:"directBuyPrice,omitempty" yaml:"directBuyPrice"`
	Active           bool      `gorm:"not null" json:"active" yaml:"active"`
	RemoveAfterWin   bool      `gorm:"not null;default:false" json:"removeAfterWin" yaml:"removeAfterWin"`
	RemovedFromWheel bool      `gorm:"not null;default:false" json:"removedFromWheel" yaml:"removedFromWheel"`
	UpdatedAt        time.Time `json:"updatedAt" yaml:"-"`
}

func (Prize) TableName() string {
	return "prize"
}

// OnWheel reports whether the prize may be drawn or bought.
func (p Prize) OnWheel() bool {
	return p.Active && !(p.RemoveAfterWin && p.RemovedFromWheel)
}

// NeedsRemoval reports whether a one-time prize has to be flagged as removed
// once it is won or bought.
func (p Prize) NeedsRemoval() bool {
	return p.RemoveAfterWin && !p.RemovedFromWheel
}

// Normalize trims text fields and checks the invariants the economy relies on.
func (p Prize) Normalize() (Prize, error) {
	p.PrizeID = strings.TrimSpace(p.PrizeID)
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)

	if p.PrizeID == "" {
		return Prize{}, fmt.Errorf("%w: prizeId is required", ErrInvalidPrize)
	}
	if p.Name == "" {
		return Prize{}, fmt.Errorf("%w: name is required", ErrInvalidPrize)
	}
	if !p.Rarity.Valid() {
		return Prize{}, fmt.Errorf("%w: rarity %d out of range", ErrInvalidPrize, p.Rarity)
	}
	if p.BaseWeight < 0 {
		p.BaseWeight = 0
	}
	if p.DirectBuyEnabled && (p.DirectBuyPrice == nil || *p.DirectBuyPrice <= 0) {
		return Prize{}, fmt.Errorf("%w: directBuyPrice must be positive when direct buy is enabled", ErrInvalidPrize)
	}
	if p.DirectBuyPrice != nil && *p.DirectBuyPrice <= 0 {
		p.DirectBuyPrice = nil
	}
	return p, nil
}
