package http

import (
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/poller"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/util"
)

type statusResp struct {
	State         models.ViewState    `json:"state"`
	QueueName     string              `json:"queue_name"`
	TicketID      string              `json:"ticket_id"`
	TicketStatus  models.TicketStatus `json:"ticket_status,omitempty"`
	AheadCount    int                 `json:"ahead_count"`
	JoinerStep    int                 `json:"joiner_step"`
	Message       string              `json:"message"`
	ShowActions   bool                `json:"show_actions"`
	LastError     string              `json:"last_error,omitempty"`
	LastCheckedAt string              `json:"last_checked_at,omitempty"`
	Poller        pollerResp          `json:"poller"`
}

type pollerResp struct {
	IsRunning bool   `json:"is_running"`
	InFlight  bool   `json:"in_flight"`
	Scheduled bool   `json:"scheduled"`
	Runs      int64  `json:"runs"`
	LastRunAt string `json:"last_run_at,omitempty"`
}

func newStatusResp(v models.StatusView, ps poller.Status) statusResp {
	r := statusResp{
		State:        v.State,
		QueueName:    v.QueueName,
		TicketID:     v.TicketID,
		TicketStatus: v.TicketStatus,
		AheadCount:   v.AheadCount,
		JoinerStep:   v.JoinerStep,
		Message:      v.Message,
		ShowActions:  v.ShowActions,
		LastError:    v.LastError,
		Poller: pollerResp{
			IsRunning: ps.IsRunning,
			InFlight:  ps.InFlight,
			Scheduled: ps.Scheduled,
			Runs:      ps.Runs,
		},
	}
	if v.LastCheckedAt != nil {
		r.LastCheckedAt = util.TimeToISO8601Str(*v.LastCheckedAt)
	}
	if !ps.LastRunAt.IsZero() {
		r.Poller.LastRunAt = util.TimeToISO8601Str(ps.LastRunAt)
	}
	return r
}
