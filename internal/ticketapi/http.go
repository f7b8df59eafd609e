package ticketapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vogiaan1904/ticketbottle-queuestatus/config"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
	pkgErrors "github.com/vogiaan1904/ticketbottle-queuestatus/pkg/errors"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
)

const (
	tokenPath       = "/v1/token"
	maxErrorBodyLen = 4 << 10
)

type httpClient struct {
	base      *url.URL
	hc        *http.Client
	tokens    TokenSource
	validator *validator.Validate
	l         logger.Logger
}

func NewHTTPClient(cfg config.ServiceConfig, tokens TokenSource, l logger.Logger) (Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid ticket service base url: %w", err)
	}

	return &httpClient{
		base:      base,
		hc:        &http.Client{Timeout: cfg.RequestTimeout},
		tokens:    tokens,
		validator: validator.New(),
		l:         l,
	}, nil
}

func (c *httpClient) GetTicket(ctx context.Context, ticketID string) (*models.TicketStatusOutput, error) {
	var out models.TicketStatusOutput
	if err := c.do(ctx, http.MethodGet, ticketID, &out); err != nil {
		return nil, err
	}

	if err := validateStatus(c.validator, &out); err != nil {
		c.l.Warnf(ctx, "ticketapi.httpClient.GetTicket: %v", err)
		return nil, err
	}

	return &out, nil
}

func (c *httpClient) RemoveTicket(ctx context.Context, ticketID string) (*models.RemoveTicketOutput, error) {
	var out models.RemoveTicketOutput
	if err := c.do(ctx, http.MethodDelete, ticketID, &out); err != nil {
		return nil, err
	}

	if out.TicketID == "" {
		out.TicketID = ticketID
	}

	return &out, nil
}

func (c *httpClient) do(ctx context.Context, method, ticketID string, out any) error {
	if ticketID == "" {
		return ErrEmptyTicketID
	}

	u := c.base.JoinPath(tokenPath, ticketID)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, reqID)

	if c.tokens != nil {
		token, err := c.tokens.Token(ticketID)
		if err != nil {
			return err
		}
		req.Header.Set(headerAuthorization, "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.l.Warnf(ctx, "ticketapi.httpClient.do %s %s request_id=%s: %v", method, u.Path, reqID, err)
		return fmt.Errorf("ticket service request failed: %w", err)
	}
	defer resp.Body.Close()

	c.l.Debugf(ctx, "ticketapi.httpClient.do %s %s request_id=%s status=%d", method, u.Path, reqID, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pkgErrors.NewHTTPStatusError(resp.StatusCode, readErrorMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return nil
}

// readErrorMessage extracts the message of a JSON error body, falling back to
// the raw text.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodyLen))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	return strings.TrimSpace(string(raw))
}
