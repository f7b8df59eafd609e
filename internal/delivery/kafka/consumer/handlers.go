package consumer

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/service"
)

func (c *Consumer) HandlePositionChanged(ctx context.Context, message *sarama.ConsumerMessage) error {
	var e kafka.PositionChangedEvent
	if err := json.Unmarshal(message.Value, &e); err != nil {
		c.l.Errorf(ctx, "delivery.kafka.consumer.HandlePositionChanged: %v", err)
		return err
	}

	if err := c.page.HandlePositionChanged(ctx, service.PositionChangedInput{
		QueueName:  e.QueueName,
		TicketIDs:  e.TicketIDs,
		UpdateType: e.UpdateType,
	}); err != nil {
		c.l.Errorf(ctx, "delivery.kafka.consumer.HandlePositionChanged: %v", err)
		return err
	}

	return nil
}
