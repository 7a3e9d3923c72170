package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"duckwheel/internal/config"
	"duckwheel/internal/infrastructure/cache"
	"duckwheel/internal/infrastructure/lock"
	"duckwheel/internal/infrastructure/notify"
	"duckwheel/internal/model"
	"duckwheel/internal/repository"

	"github.com/sirupsen/logrus"
)

// Deps bundles the collaborators shared by all services.
type Deps struct {
	Store    repository.Store
	Locker   lock.UserLocker
	Cache    cache.JSONCache
	Notifier notify.Notifier
	Config   *config.Config
	// Clock defaults to time.Now in UTC.
	Clock func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Locker == nil {
		d.Locker = lock.NewLocalUserLocker()
	}
	if d.Cache == nil {
		d.Cache = cache.NopCache{}
	}
	if d.Notifier == nil {
		d.Notifier = notify.NopNotifier{}
	}
	if d.Clock == nil {
		d.Clock = func() time.Time { return time.Now().UTC() }
	}
	return d
}

func (d Deps) cacheTTL() time.Duration {
	return time.Duration(d.Config.Business.CacheTTLSeconds) * time.Second
}

// invalidateCatalog drops cached prize and setting lists after a write.
func (d Deps) invalidateCatalog(ctx context.Context, keys ...string) {
	if err := d.Cache.Delete(ctx, keys...); err != nil {
		logrus.WithError(err).WithField("keys", keys).Warn("invalidate catalog cache")
	}
}

type event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// newOutboxMessage wraps data into an event envelope keyed by user, so all
// events of one user are published in order.
func newOutboxMessage(topic, eventType, userID string, at time.Time, data any) (*model.OutboxMessage, error) {
	payload, err := json.Marshal(event{Type: eventType, OccurredAt: at, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", eventType, err)
	}
	return &model.OutboxMessage{
		MessageKey: userID,
		Topic:      topic,
		EventType:  eventType,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	}, nil
}

func deref[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, *v)
	}
	return out
}
