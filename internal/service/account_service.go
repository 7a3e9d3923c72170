package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"duckwheel/internal/economy"
	"duckwheel/internal/model"
	"duckwheel/internal/repository"
	"duckwheel/pkg/idgen"

	"github.com/sirupsen/logrus"
)

// AccountService covers user lookups, manual duck adjustments and the
// per-user overview.
type AccountService struct {
	Deps
}

func NewAccountService(deps Deps) *AccountService {
	return &AccountService{Deps: deps.withDefaults()}
}

func (s *AccountService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.Store.GetUser(ctx, userID)
}

type AddDucksRequest struct {
	UserID string `json:"userId" binding:"required"`
	Amount int64  `json:"amount" binding:"required,ne=0"`
	Note   string `json:"note" binding:"max=255"`
}

type AddDucksResponse struct {
	User  model.User        `json:"user"`
	Entry model.DuckHistory `json:"entry"`
}

// AddDucks credits (or, with a negative amount, debits) a user's balance and
// records the adjustment in the duck history.
func (s *AccountService) AddDucks(ctx context.Context, req *AddDucksRequest) (*AddDucksResponse, error) {
	release, err := s.Locker.LockUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("adjust busy: %w", err)
	}
	defer release()

	user, err := s.Store.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	now := s.Clock()
	outcome, err := economy.Adjust(economy.AdjustRequest{
		User:   *user,
		Amount: req.Amount,
		Note:   req.Note,
		Now:    now,
		NewID:  idgen.GenerateLedgerID,
	})
	if err != nil {
		return nil, err
	}

	next := outcome.NextUser
	entry := outcome.Entry

	err = s.Store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.SaveUser(ctx, &next); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		if err := tx.AppendDuckHistory(ctx, &entry); err != nil {
			return fmt.Errorf("append duck history: %w", err)
		}
		msg, err := newOutboxMessage(s.Config.Kafka.Topic.DuckLedger, model.EventBalanceAdjusted, next.UserID, now, entry)
		if err != nil {
			return err
		}
		return tx.AppendOutbox(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  next.UserID,
		"amount":   entry.Amount,
		"balance":  next.Balance,
		"entry_id": entry.EntryID,
	}).Info("ducks adjusted")

	return &AddDucksResponse{User: next, Entry: entry}, nil
}

func (s *AccountService) DuckHistory(ctx context.Context, userID string) ([]*model.DuckHistory, error) {
	return s.Store.ListDuckHistory(ctx, userID)
}

func (s *AccountService) SpinLogs(ctx context.Context, userID string) ([]*model.SpinLog, error) {
	return s.Store.ListSpinLogs(ctx, userID)
}

type PrizeWin struct {
	PrizeID   string       `json:"prizeId,omitempty"`
	PrizeName string       `json:"prizeName"`
	Rarity    model.Rarity `json:"rarity"`
	Count     int          `json:"count"`
	LastWonAt time.Time    `json:"lastWonAt"`
}

type UserOverview struct {
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	Balance     int64      `json:"balance"`
	TotalEarned int64      `json:"totalEarned"`
	SpinsTotal  int64      `json:"spinsTotal"`
	Wins        []PrizeWin `json:"wins"`
}

// Overview aggregates every user's spin history into per-prize win counts.
// Users are ordered by balance (highest first) then name; wins by count then
// recency.
func (s *AccountService) Overview(ctx context.Context) ([]UserOverview, error) {
	users, err := s.Store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	logs, err := s.Store.ListSpinLogs(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list spin logs: %w", err)
	}

	byUser := make(map[string][]*model.SpinLog, len(users))
	for _, l := range logs {
		if l.PrizeName == "" {
			continue
		}
		byUser[l.UserID] = append(byUser[l.UserID], l)
	}

	out := make([]UserOverview, 0, len(users))
	for _, u := range users {
		out = append(out, UserOverview{
			UserID:      u.UserID,
			Name:        u.Name,
			Balance:     u.Balance,
			TotalEarned: u.TotalEarned,
			SpinsTotal:  u.SpinsTotal,
			Wins:        aggregateWins(byUser[u.UserID]),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func aggregateWins(logs []*model.SpinLog) []PrizeWin {
	wins := make(map[string]*PrizeWin)
	var order []string
	for _, l := range logs {
		key := l.PrizeID
		if key == "" {
			key = fmt.Sprintf("%s:%d", l.PrizeName, l.Rarity)
		}
		w, ok := wins[key]
		if !ok {
			w = &PrizeWin{PrizeID: l.PrizeID, PrizeName: l.PrizeName, Rarity: l.Rarity, LastWonAt: l.CreatedAt}
			wins[key] = w
			order = append(order, key)
		}
		w.Count++
		if l.CreatedAt.After(w.LastWonAt) {
			w.LastWonAt = l.CreatedAt
		}
	}

	out := make([]PrizeWin, 0, len(order))
	for _, key := range order {
		out = append(out, *wins[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].LastWonAt.After(out[j].LastWonAt)
	})
	return out
}

