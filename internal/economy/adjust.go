package economy

import (
	"strings"
	"time"

	"duckwheel/internal/model"
)

type AdjustRequest struct {
	User   model.User
	Amount int64
	Note   string
	Now    time.Time
	NewID  func() string
}

type AdjustOutcome struct {
	Entry    model.DuckHistory
	NextUser model.User
}

// Adjust applies a manual credit (positive amount) or debit (negative amount).
// Credits also count towards TotalEarned; a debit may not overdraw the balance.
func Adjust(req AdjustRequest) (AdjustOutcome, error) {
	if req.Amount == 0 {
		return AdjustOutcome{}, ErrZeroAmount
	}

	user := req.User
	if user.Balance+req.Amount < 0 {
		return AdjustOutcome{}, ErrInsufficientBalance
	}

	now := nowOr(req.Now)

	next := user
	next.Balance += req.Amount
	if req.Amount > 0 {
		next.TotalEarned += req.Amount
	}
	next.UpdatedAt = now

	entry := model.DuckHistory{
		EntryID:   newID(req.NewID),
		UserID:    user.UserID,
		Amount:    req.Amount,
		Note:      strings.TrimSpace(req.Note),
		CreatedAt: now,
	}

	return AdjustOutcome{Entry: entry, NextUser: next}, nil
}
