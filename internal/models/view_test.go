package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
)

func TestResolveViewStatePriority(t *testing.T) {
	tests := []struct {
		name   string
		busy   bool
		status models.TicketStatus
		ahead  int
		want   models.ViewState
	}{
		{"busy wins over removed", true, models.TicketStatusRemoved, 0, models.ViewStateBusy},
		{"removed wins over notified count", false, models.TicketStatusRemoved, 4, models.ViewStateRemoved},
		{"notified wins over zero ahead", false, models.TicketStatusNotified, 0, models.ViewStateNotified},
		{"zero ahead", false, models.TicketStatusWaiting, 0, models.ViewStateZeroAhead},
		{"waiting with count", false, models.TicketStatusWaiting, 5, models.ViewStateWaitingWithCount},
		{"unknown status with count", false, models.TicketStatusUnknown, 2, models.ViewStateWaitingWithCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.ResolveViewState(tt.busy, tt.status, tt.ahead))
		})
	}
}

func TestNewStatusViewMessages(t *testing.T) {
	st := models.AppState{QueueName: "bakery", TicketID: "t-1", AheadCount: 5}

	v := models.NewStatusView(st, models.TicketStatusWaiting, false)
	assert.Equal(t, "People in front of you: 5", v.Message)
	assert.True(t, v.ShowActions)

	st.AheadCount = 0
	v = models.NewStatusView(st, models.TicketStatusWaiting, false)
	assert.Equal(t, models.MessageZeroAhead, v.Message)

	v = models.NewStatusView(st, models.TicketStatusRemoved, false)
	assert.Equal(t, models.MessageRemoved, v.Message)
	assert.False(t, v.ShowActions)

	v = models.NewStatusView(st, models.TicketStatusWaiting, true)
	assert.Equal(t, models.ViewStateBusy, v.State)
	assert.Empty(t, v.Message)
	assert.False(t, v.ShowActions)
}

func TestTicketStatusIsValid(t *testing.T) {
	assert.True(t, models.TicketStatusWaiting.IsValid())
	assert.True(t, models.TicketStatusNotified.IsValid())
	assert.True(t, models.TicketStatusRemoved.IsValid())
	assert.False(t, models.TicketStatusUnknown.IsValid())
	assert.False(t, models.TicketStatus("SERVED").IsValid())
}
