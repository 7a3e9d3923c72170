package job

import (
	"context"
	"errors"
	"testing"

	"duckwheel/internal/config"
	"duckwheel/internal/infrastructure/mq"
	"duckwheel/internal/model"
	"duckwheel/internal/repository"

	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendMessages(t *testing.T, store *repository.MemoryStore, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, store.AppendOutbox(context.Background(), &model.OutboxMessage{
			MessageKey: k,
			Topic:      "duckwheel.spin",
			EventType:  model.EventSpinSettled,
			Payload:    `{"type":"spin.settled"}`,
		}))
	}
}

func statuses(store *repository.MemoryStore) []string {
	var out []string
	for _, m := range store.OutboxMessages() {
		out = append(out, m.Status)
	}
	return out
}

func TestOutboxSenderPublishesPending(t *testing.T) {
	store := repository.NewMemoryStore()
	appendMessages(t, store, "duck-a", "duck-b")

	producer := mocks.NewSyncProducer(t, mq.NewProducerConfig())
	producer.ExpectSendMessageAndSucceed()
	producer.ExpectSendMessageAndSucceed()
	publisher := mq.NewKafkaPublisher(producer)
	defer publisher.Close()

	sender := NewOutboxSender(store, publisher, &config.BusinessConfig{MaxRetryCount: 3})
	assert.Equal(t, 2, sender.ProcessPending(context.Background()))
	assert.Equal(t, []string{model.OutboxStatusSent, model.OutboxStatusSent}, statuses(store))

	assert.Zero(t, sender.ProcessPending(context.Background()))
}

func TestOutboxSenderKeepsKeyOrderOnFailure(t *testing.T) {
	store := repository.NewMemoryStore()
	appendMessages(t, store, "duck-a", "duck-a", "duck-b")
	ctx := context.Background()

	producer := mocks.NewSyncProducer(t, mq.NewProducerConfig())
	publisher := mq.NewKafkaPublisher(producer)
	defer publisher.Close()
	sender := NewOutboxSender(store, publisher, &config.BusinessConfig{MaxRetryCount: 2})

	// duck-a fails, so its second event waits; duck-b still goes out.
	producer.ExpectSendMessageAndFail(errors.New("broker down"))
	producer.ExpectSendMessageAndSucceed()
	assert.Equal(t, 1, sender.ProcessPending(ctx))
	assert.Equal(t, []string{model.OutboxStatusPending, model.OutboxStatusPending, model.OutboxStatusSent}, statuses(store))

	msgs := store.OutboxMessages()
	assert.Equal(t, 1, msgs[0].RetryCount)
	assert.Equal(t, "broker down", msgs[0].LastError)

	// Second failure exhausts the retries and parks the head message.
	producer.ExpectSendMessageAndFail(errors.New("broker down"))
	assert.Zero(t, sender.ProcessPending(ctx))
	assert.Equal(t, model.OutboxStatusFailed, store.OutboxMessages()[0].Status)

	producer.ExpectSendMessageAndSucceed()
	assert.Equal(t, 1, sender.ProcessPending(ctx))
	assert.Equal(t, []string{model.OutboxStatusFailed, model.OutboxStatusSent, model.OutboxStatusSent}, statuses(store))
}

func TestOutboxSenderStop(t *testing.T) {
	sender := NewOutboxSender(repository.NewMemoryStore(), mq.LogPublisher{}, nil)
	done := make(chan struct{})
	go func() {
		sender.Start(context.Background())
		close(done)
	}()
	sender.Stop()
	<-done
}
