package service

import (
	"context"
	"errors"
	"sync"

	pkgErrors "github.com/vogiaan1904/ticketbottle-queuestatus/pkg/errors"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
)

var (
	ErrActionUnavailable = errors.New("action unavailable")
	ErrNoTicket          = errors.New("no ticket to watch")
)

const genericErrorMessage = "Something went wrong"

// APIErrorHandler is the single sink for ticket service failures. It does not
// distinguish between error classes beyond choosing the message to show.
type APIErrorHandler interface {
	HandleError(ctx context.Context, err error)
	LastError() string
	Clear()
}

type apiErrorHandler struct {
	l logger.Logger

	mu   sync.RWMutex
	last string
}

func NewAPIErrorHandler(l logger.Logger) APIErrorHandler {
	return &apiErrorHandler{l: l}
}

func (h *apiErrorHandler) HandleError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	h.l.Errorf(ctx, "service.apiErrorHandler.HandleError: %v", err)

	msg := genericErrorMessage
	var httpErr *pkgErrors.HTTPError
	var grpcErr *pkgErrors.GRPCError
	switch {
	case errors.As(err, &httpErr) && httpErr.Message != "":
		msg = httpErr.Message
	case errors.As(err, &grpcErr) && grpcErr.Message != "":
		msg = grpcErr.Message
	case errors.Is(err, context.DeadlineExceeded):
		msg = "The queue service is not responding"
	}

	h.mu.Lock()
	h.last = msg
	h.mu.Unlock()
}

func (h *apiErrorHandler) LastError() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

func (h *apiErrorHandler) Clear() {
	h.mu.Lock()
	h.last = ""
	h.mu.Unlock()
}
