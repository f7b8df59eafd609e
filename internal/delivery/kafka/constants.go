package kafka

const (
	TopicTicketNotified = "queue.ticket.notified"
	TopicTicketLeft     = "queue.ticket.left"

	TopicPositionChanged = "queue.position.changed"
)
