package service

import (
	"time"

	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
)

type Config struct {
	PollInterval            time.Duration
	ResetBusyOnLeaveFailure bool
}

type LeaveQueueOutput struct {
	TicketID string              `json:"ticket_id"`
	Status   models.TicketStatus `json:"status"`
	Message  string              `json:"message"`
}

type PositionChangedInput struct {
	QueueName  string
	TicketIDs  []string
	UpdateType string
}
