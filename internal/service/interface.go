package service

import (
	"context"

	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/poller"
)

// StatusPage watches one ticket: it polls the ticket service, keeps the
// application state current and lets the holder leave the queue.
type StatusPage interface {
	Mount(ctx context.Context) error
	Unmount()
	CheckStatus()
	LeaveQueue(ctx context.Context) (*LeaveQueueOutput, error)
	View(ctx context.Context) (models.StatusView, error)

	// Changes is signalled after every state change. Signals coalesce, so a
	// single reader should re-read View on each receive.
	Changes() <-chan struct{}
	PollerStatus() poller.Status

	HandlePositionChanged(ctx context.Context, in PositionChangedInput) error
}
