// Package ticketapi talks to the remote ticket service, which owns every
// queue position. Two transports are available: JSON over HTTP and gRPC.
package ticketapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
)

var (
	ErrEmptyTicketID   = errors.New("ticket id is required")
	ErrInvalidResponse = errors.New("invalid ticket service response")
)

const (
	headerRequestID     = "X-Request-ID"
	headerAuthorization = "Authorization"
)

type Client interface {
	GetTicket(ctx context.Context, ticketID string) (*models.TicketStatusOutput, error)
	RemoveTicket(ctx context.Context, ticketID string) (*models.RemoveTicketOutput, error)
}

func validateStatus(v *validator.Validate, out *models.TicketStatusOutput) error {
	if err := v.Struct(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
