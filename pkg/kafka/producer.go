package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/vogiaan1904/ticketbottle-queuestatus/config"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
)

const clientID = "queue-status-watcher"

func NewProducer(ctx context.Context, cfg config.KafkaConfig, l logger.Logger) (sarama.SyncProducer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.ClientID = clientID
	saramaCfg.Producer.RequiredAcks = sarama.RequiredAcks(cfg.ProducerRequiredAcks)
	saramaCfg.Producer.Retry.Max = cfg.ProducerRetryMax
	saramaCfg.Producer.Return.Successes = true

	prod, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	l.Infof(ctx, "Kafka producer connected to brokers: %v", cfg.Brokers)

	return prod, nil
}
