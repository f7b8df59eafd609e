package kafka

import "time"

// Events published BY the status watcher

type TicketNotifiedEvent struct {
	TicketID   string    `json:"ticket_id"`
	QueueName  string    `json:"queue_name"`
	NotifiedAt time.Time `json:"notified_at"`
	Timestamp  time.Time `json:"timestamp"`
}

type TicketLeftEvent struct {
	TicketID  string    `json:"ticket_id"`
	QueueName string    `json:"queue_name"`
	Reason    string    `json:"reason"` // user_left
	LeftAt    time.Time `json:"left_at"`
	Timestamp time.Time `json:"timestamp"`
}

// Events consumed BY the status watcher (from the queue service)

type PositionChangedEvent struct {
	QueueName  string    `json:"queue_name"`
	TicketIDs  []string  `json:"ticket_ids,omitempty"`
	UpdateType string    `json:"update_type"` // ticket_joined, ticket_left, ticket_notified
	Timestamp  time.Time `json:"timestamp"`
}
