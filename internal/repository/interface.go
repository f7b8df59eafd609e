// Package repository defines the application state shared by the joiner
// screens. The status page reads the queue and ticket it watches from here and
// writes back the ahead count and joiner step.
package repository

import (
	"context"

	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
)

type StateReader interface {
	QueueName(ctx context.Context) (string, error)
	TicketID(ctx context.Context) (string, error)
	AheadCount(ctx context.Context) (int, error)
	JoinerStep(ctx context.Context) (int, error)
	Snapshot(ctx context.Context) (models.AppState, error)
}

type StateWriter interface {
	SetAheadCount(ctx context.Context, count int) error
	SetJoinerStep(ctx context.Context, step int) error
}

type AppStateRepository interface {
	StateReader
	StateWriter
}
