package model

import (
	"time"
)

// DuckHistory records a manual balance adjustment made by an admin.
type DuckHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	EntryID   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"entryId"`
	UserID    string    `gorm:"type:varchar(64);index;not null" json:"userId"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Note      string    `gorm:"type:varchar(255)" json:"note"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (DuckHistory) TableName() string {
	return "duck_history"
}
