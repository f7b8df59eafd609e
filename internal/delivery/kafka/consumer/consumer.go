package consumer

import (
	"context"
	"sync"

	"github.com/IBM/sarama"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/service"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
)

type handlerFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// Consumer turns queue service events into status refreshes.
type Consumer struct {
	consGr   sarama.ConsumerGroup
	page     service.StatusPage
	l        logger.Logger
	handlers map[string]handlerFunc
	wg       sync.WaitGroup
}

func NewConsumer(
	consGr sarama.ConsumerGroup,
	page service.StatusPage,
	l logger.Logger,
) *Consumer {
	c := &Consumer{
		consGr: consGr,
		page:   page,
		l:      l,
	}
	c.handlers = map[string]handlerFunc{
		kafka.TopicPositionChanged: c.HandlePositionChanged,
	}
	return c
}

func (c *Consumer) topics() []string {
	topics := make([]string, 0, len(c.handlers))
	for t := range c.handlers {
		topics = append(topics, t)
	}
	return topics
}

func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h, ok := c.handlers[msg.Topic]
	if !ok {
		c.l.Warnf(ctx, "Unknown topic: %s", msg.Topic)
		return nil
	}
	return h(ctx, msg)
}

func (c *Consumer) Start(ctx context.Context) error {
	topics := c.topics()
	c.wg.Go(func() {
		for {
			if err := c.consGr.Consume(ctx, topics, c); err != nil {
				c.l.Errorf(ctx, "delivery.kafka.consumer.Consumer.Start: %v", err)
			}

			if ctx.Err() != nil {
				c.l.Infof(ctx, "delivery.kafka.consumer.Consumer.Start: %v", ctx.Err())
				return
			}
		}
	})

	c.wg.Go(func() {
		for err := range c.consGr.Errors() {
			c.l.Errorf(ctx, "delivery.kafka.consumer.Consumer.Start: %v", err)
		}
	})

	c.l.Infof(ctx, "Consumer is consuming topics: %v", topics)
	return nil
}

func (c *Consumer) Close() error {
	if err := c.consGr.Close(); err != nil {
		return err
	}

	c.wg.Wait()
	return nil
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	c.l.Debug(context.Background(), "Consumer group session started")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	c.l.Debug(context.Background(), "Consumer group session ended")
	return nil
}

func (c *Consumer) ConsumeClaim(ss sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := c.processMessage(ss.Context(), message); err != nil {
				c.l.Errorf(ss.Context(), "delivery.kafka.consumer.Consumer.ConsumeClaim: topic=%s offset=%d: %v",
					message.Topic, message.Offset, err)
				continue
			}

			ss.MarkMessage(message, "")

		case <-ss.Context().Done():
			return nil
		}
	}
}
