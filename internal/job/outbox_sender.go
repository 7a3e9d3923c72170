package job

import (
	"context"
	"time"

	"duckwheel/internal/config"
	"duckwheel/internal/infrastructure/mq"
	"duckwheel/internal/model"
	"duckwheel/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	defaultOutboxInterval  = 100 * time.Millisecond
	defaultOutboxBatchSize = 100
	defaultMaxRetryCount   = 5
)

// OutboxSender polls pending outbox rows and publishes them, keeping the
// per-user order in which they were written.
type OutboxSender struct {
	outbox     repository.OutboxStore
	publisher  mq.Publisher
	interval   time.Duration
	batchSize  int
	maxRetries int
	stopCh     chan struct{}
	log        *logrus.Entry
}

func NewOutboxSender(outbox repository.OutboxStore, publisher mq.Publisher, cfg *config.BusinessConfig) *OutboxSender {
	s := &OutboxSender{
		outbox:     outbox,
		publisher:  publisher,
		interval:   defaultOutboxInterval,
		batchSize:  defaultOutboxBatchSize,
		maxRetries: defaultMaxRetryCount,
		stopCh:     make(chan struct{}),
		log:        logrus.WithField("job", "outbox_sender"),
	}
	if cfg != nil {
		if cfg.OutboxIntervalMs > 0 {
			s.interval = time.Duration(cfg.OutboxIntervalMs) * time.Millisecond
		}
		if cfg.OutboxBatchSize > 0 {
			s.batchSize = cfg.OutboxBatchSize
		}
		if cfg.MaxRetryCount > 0 {
			s.maxRetries = cfg.MaxRetryCount
		}
	}
	return s
}

// Start blocks until ctx is cancelled or Stop is called.
func (s *OutboxSender) Start(ctx context.Context) {
	s.log.WithField("interval", s.interval.String()).Info("started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("context done, exiting")
			return
		case <-s.stopCh:
			s.log.Info("stopped")
			return
		case <-ticker.C:
			s.ProcessPending(ctx)
		}
	}
}

func (s *OutboxSender) Stop() {
	close(s.stopCh)
}

// ProcessPending publishes one batch. It stops at the first failure of a key
// so later events of that user are not delivered ahead of it.
func (s *OutboxSender) ProcessPending(ctx context.Context) int {
	messages, err := s.outbox.GetPendingMessages(ctx, s.batchSize)
	if err != nil {
		s.log.WithError(err).Error("load pending messages")
		return 0
	}

	sent := 0
	blocked := make(map[string]bool)
	for _, msg := range messages {
		if blocked[msg.MessageKey] {
			continue
		}
		if s.send(ctx, msg) {
			sent++
			continue
		}
		blocked[msg.MessageKey] = true
	}
	return sent
}

func (s *OutboxSender) send(ctx context.Context, msg *model.OutboxMessage) bool {
	fields := logrus.Fields{"id": msg.ID, "topic": msg.Topic, "key": msg.MessageKey, "event": msg.EventType}

	err := s.publisher.SendMessage(msg.Topic, msg.MessageKey, msg.Payload)
	if err == nil {
		if err := s.outbox.MarkSent(ctx, msg.ID); err != nil {
			s.log.WithFields(fields).WithError(err).Error("mark message sent")
		} else {
			s.log.WithFields(fields).Debug("message sent")
		}
		return true
	}

	s.log.WithFields(fields).WithError(err).Warn("publish failed")
	failed, recErr := s.outbox.RecordFailure(ctx, msg, err.Error(), s.maxRetries)
	if recErr != nil {
		s.log.WithFields(fields).WithError(recErr).Error("record delivery failure")
		return false
	}
	if failed {
		s.log.WithFields(fields).Error("retries exhausted, message parked as FAILED")
	}
	return false
}
