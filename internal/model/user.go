package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User carries a duck balance and the pity state of the wheel.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"-" yaml:"-"`
	UserID       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"userId" yaml:"userId"`
	Name         string    `gorm:"type:varchar(128);not null" json:"name" yaml:"name"`
	Balance      int64     `gorm:"not null;default:0" json:"balance" yaml:"balance"`
	TotalEarned  int64     `gorm:"not null;default:0" json:"totalEarned" yaml:"totalEarned"`
	SpinsTotal   int64     `gorm:"not null;default:0" json:"spinsTotal" yaml:"spinsTotal"`
	LastResult   string    `gorm:"type:varchar(255)" json:"lastResult,omitempty" yaml:"lastResult"`
	LuckModifier float64   `gorm:"not null;default:0" json:"luckModifier" yaml:"luckModifier"`
	Role         string    `gorm:"type:varchar(16);not null;default:user" json:"role" yaml:"role"`
	UpdatedAt    time.Time `json:"updatedAt" yaml:"-"`
}

func (User) TableName() string {
	return "duck_user"
}
