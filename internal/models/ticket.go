package models

import "time"

type TicketStatus string

const (
	TicketStatusUnknown  TicketStatus = ""
	TicketStatusWaiting  TicketStatus = "WAITING"
	TicketStatusNotified TicketStatus = "NOTIFIED"
	TicketStatusRemoved  TicketStatus = "REMOVED"
)

func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusWaiting, TicketStatusNotified, TicketStatusRemoved:
		return true
	}
	return false
}

// Joiner stepper positions. The stepper counts completed steps, so
// JoinerStepNotified marks every step done.
const (
	JoinerStepWaiting  = 1
	JoinerStepNotified = 3
)

// TicketStatusOutput is the ticket service answer to a status lookup.
type TicketStatusOutput struct {
	TicketID    string       `json:"tokenId"`
	QueueName   string       `json:"queueName,omitempty"`
	AheadCount  int          `json:"aheadCount" validate:"gte=0"`
	TokenStatus TicketStatus `json:"tokenStatus" validate:"required,oneof=WAITING NOTIFIED REMOVED"`
}

// RemoveTicketOutput acknowledges a ticket removal.
type RemoveTicketOutput struct {
	TicketID    string       `json:"tokenId"`
	TokenStatus TicketStatus `json:"tokenStatus,omitempty"`
	RemovedAt   *time.Time   `json:"removedAt,omitempty"`
}

// AppState is the cross-page state shared between the joiner screens.
type AppState struct {
	QueueName  string `json:"queue_name"`
	TicketID   string `json:"ticket_id"`
	AheadCount int    `json:"ahead_count"`
	JoinerStep int    `json:"joiner_step"`
}
