package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	kafka "github.com/vogiaan1904/ticketbottle-queuestatus/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
)

type Producer interface {
	PublishTicketNotified(ctx context.Context, event kafka.TicketNotifiedEvent) error
	PublishTicketLeft(ctx context.Context, event kafka.TicketLeftEvent) error
	Close() error
}

type implProducer struct {
	l    logger.Logger
	prod sarama.SyncProducer
}

func NewProducer(prod sarama.SyncProducer, l logger.Logger) Producer {
	return &implProducer{
		l:    l,
		prod: prod,
	}
}

func (p *implProducer) PublishTicketNotified(ctx context.Context, event kafka.TicketNotifiedEvent) error {
	event.Timestamp = time.Now()
	if err := p.publish(ctx, kafka.TopicTicketNotified, event.QueueName, event); err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.PublishTicketNotified: %v", err)
		return err
	}
	return nil
}

func (p *implProducer) PublishTicketLeft(ctx context.Context, event kafka.TicketLeftEvent) error {
	event.Timestamp = time.Now()
	if err := p.publish(ctx, kafka.TopicTicketLeft, event.QueueName, event); err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.PublishTicketLeft: %v", err)
		return err
	}
	return nil
}

func (p *implProducer) publish(ctx context.Context, topic, key string, event any) error {
	val, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key), // Partition by queue for ordering
		Value: sarama.ByteEncoder(val),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("timestamp"),
				Value: []byte(time.Now().Format(time.RFC3339)),
			},
		},
	}

	partition, offset, err := p.prod.SendMessage(msg)
	if err != nil {
		return err
	}

	p.l.Debugf(ctx, "Kafka message sent topic=%s partition=%d offset=%d", topic, partition, offset)
	return nil
}

func (p *implProducer) Close() error {
	return p.prod.Close()
}

type noopProducer struct{}

// NewNoopProducer drops every event. Used when Kafka is disabled.
func NewNoopProducer() Producer {
	return noopProducer{}
}

func (noopProducer) PublishTicketNotified(context.Context, kafka.TicketNotifiedEvent) error {
	return nil
}

func (noopProducer) PublishTicketLeft(context.Context, kafka.TicketLeftEvent) error {
	return nil
}

func (noopProducer) Close() error {
	return nil
}
