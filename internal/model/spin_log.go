package model

import (
	"time"
)

// SpinLog is the append-only audit row written for every spin.
type SpinLog struct {
	ID                 int64      `gorm:"primaryKey;autoIncrement" json:"-"`
	LogID              string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"logId"`
	UserID             string     `gorm:"type:varchar(64);index;not null" json:"userId"`
	BetLevel           WheelLevel `gorm:"type:varchar(32);not null" json:"betLevel"`
	PrizeID            string     `gorm:"type:varchar(64)" json:"prizeId"`
	PrizeName          string     `gorm:"type:varchar(128)" json:"prizeName"`
	Rarity             Rarity     `gorm:"not null" json:"rarity"`
	BalanceBefore      int64      `gorm:"not null" json:"balanceBefore"`
	BalanceAfter       int64      `gorm:"not null" json:"balanceAfter"`
	LuckModifierBefore float64    `gorm:"not null" json:"luckModifierBefore"`
	LuckModifierAfter  float64    `gorm:"not null" json:"luckModifierAfter"`
	CreatedAt          time.Time  `gorm:"index" json:"createdAt"`
}

func (SpinLog) TableName() string {
	return "spin_log"
}
