package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/service"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/response"
)

type HTTPHandler struct {
	page service.StatusPage
	l    logger.Logger
}

func NewHTTPHandler(page service.StatusPage, l logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		page: page,
		l:    l,
	}
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logger.HTTPLogger(h.l))

	r.Get("/healthz", h.HealthCheck)
	r.Route("/api/v1/status", func(r chi.Router) {
		r.Get("/", h.GetStatus)
		r.Post("/check", h.CheckStatus)
		r.Post("/leave", h.LeaveQueue)
	})
	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ps := h.page.PollerStatus()
	h.respondJSON(w, r, http.StatusOK, map[string]any{
		"status":         "healthy",
		"service":        "queue-status-watcher",
		"poller_running": ps.IsRunning,
	})
}

func (h *HTTPHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	v, err := h.page.View(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, newStatusResp(v, h.page.PollerStatus()))
}

// CheckStatus polls right away and answers with the refreshed view.
func (h *HTTPHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	v, err := h.page.View(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if !v.ShowActions {
		h.respondError(w, r, service.ErrActionUnavailable)
		return
	}

	h.page.CheckStatus()

	v, err = h.page.View(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, newStatusResp(v, h.page.PollerStatus()))
}

func (h *HTTPHandler) LeaveQueue(w http.ResponseWriter, r *http.Request) {
	out, err := h.page.LeaveQueue(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, r, http.StatusOK, out)
}

func (h *HTTPHandler) respondJSON(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.l.Errorf(r.Context(), "delivery.http.respondJSON: %v", err)
	}
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode, resp := response.ParseHTTPError(mapHTTPError(err))
	if statusCode >= http.StatusInternalServerError {
		h.l.Errorf(r.Context(), "delivery.http.respondError: %v", err)
	}
	h.respondJSON(w, r, statusCode, resp)
}
