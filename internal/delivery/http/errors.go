package http

import (
	"errors"
	"net/http"

	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/service"
	pkgErrors "github.com/vogiaan1904/ticketbottle-queuestatus/pkg/errors"
)

var (
	errActionUnavailable = &pkgErrors.HTTPError{Code: 40901, Message: "Action is not available right now", StatusCode: http.StatusConflict}
	errNoTicket          = &pkgErrors.HTTPError{Code: 40401, Message: "No ticket is being watched", StatusCode: http.StatusNotFound}
	errUpstream          = &pkgErrors.HTTPError{Code: 50201, Message: "Queue service request failed", StatusCode: http.StatusBadGateway}
)

func mapHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrActionUnavailable):
		return errActionUnavailable
	case errors.Is(err, service.ErrNoTicket):
		return errNoTicket
	}

	var httpErr *pkgErrors.HTTPError
	var grpcErr *pkgErrors.GRPCError
	if errors.As(err, &httpErr) || errors.As(err, &grpcErr) {
		return errUpstream
	}
	return err
}
