package models

import (
	"fmt"
	"time"
)

// ViewState is what the status page shows, in priority order.
type ViewState int

const (
	ViewStateBusy ViewState = iota
	ViewStateRemoved
	ViewStateNotified
	ViewStateZeroAhead
	ViewStateWaitingWithCount
)

func (s ViewState) String() string {
	return [...]string{"busy", "removed", "notified", "zero_ahead", "waiting_with_count"}[s]
}

func (s ViewState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const (
	MessageRemoved   = "You have been removed from the queue"
	MessageNotified  = "Your turn is up"
	MessageZeroAhead = "There is no one ahead of you. Please wait to be notified by the queue manager."
)

// ResolveViewState picks the first matching state: busy, removed, notified,
// nobody ahead, then waiting with a count.
func ResolveViewState(busy bool, status TicketStatus, aheadCount int) ViewState {
	switch {
	case busy:
		return ViewStateBusy
	case status == TicketStatusRemoved:
		return ViewStateRemoved
	case status == TicketStatusNotified:
		return ViewStateNotified
	case aheadCount == 0:
		return ViewStateZeroAhead
	default:
		return ViewStateWaitingWithCount
	}
}

// StatusView is a rendered snapshot of the status page.
type StatusView struct {
	State         ViewState    `json:"state"`
	QueueName     string       `json:"queue_name"`
	TicketID      string       `json:"ticket_id"`
	TicketStatus  TicketStatus `json:"ticket_status,omitempty"`
	AheadCount    int          `json:"ahead_count"`
	JoinerStep    int          `json:"joiner_step"`
	Message       string       `json:"message"`
	ShowActions   bool         `json:"show_actions"`
	LastError     string       `json:"last_error,omitempty"`
	LastCheckedAt *time.Time   `json:"last_checked_at,omitempty"`
}

func NewStatusView(state AppState, status TicketStatus, busy bool) StatusView {
	vs := ResolveViewState(busy, status, state.AheadCount)

	var msg string
	switch vs {
	case ViewStateRemoved:
		msg = MessageRemoved
	case ViewStateNotified:
		msg = MessageNotified
	case ViewStateZeroAhead:
		msg = MessageZeroAhead
	case ViewStateWaitingWithCount:
		msg = fmt.Sprintf("People in front of you: %d", state.AheadCount)
	}

	return StatusView{
		State:        vs,
		QueueName:    state.QueueName,
		TicketID:     state.TicketID,
		TicketStatus: status,
		AheadCount:   state.AheadCount,
		JoinerStep:   state.JoinerStep,
		Message:      msg,
		ShowActions:  status != TicketStatusRemoved && !busy,
	}
}
