package producer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafka "github.com/vogiaan1904/ticketbottle-queuestatus/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
)

func TestPublishTicketNotified(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	sp := mocks.NewSyncProducer(t, cfg)
	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, kafka.TopicTicketNotified, msg.Topic)

		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "bakery", string(key))

		raw, err := msg.Value.Encode()
		require.NoError(t, err)
		var ev kafka.TicketNotifiedEvent
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.Equal(t, "t-1", ev.TicketID)
		assert.False(t, ev.Timestamp.IsZero())
		return nil
	})

	p := producer.NewProducer(sp, logger.InitializeTestZapLogger())
	require.NoError(t, p.PublishTicketNotified(context.Background(), kafka.TicketNotifiedEvent{
		TicketID:  "t-1",
		QueueName: "bakery",
	}))
	require.NoError(t, p.Close())
}

func TestPublishTicketLeftFailure(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	sp := mocks.NewSyncProducer(t, cfg)
	sp.ExpectSendMessageAndFail(errors.New("broker down"))

	p := producer.NewProducer(sp, logger.InitializeTestZapLogger())
	err := p.PublishTicketLeft(context.Background(), kafka.TicketLeftEvent{TicketID: "t-1", QueueName: "bakery"})
	assert.Error(t, err)
	require.NoError(t, p.Close())
}
