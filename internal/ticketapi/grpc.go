package ticketapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
	pkgErrors "github.com/vogiaan1904/ticketbottle-queuestatus/pkg/errors"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// The ticket service exposes the same two operations over gRPC. Messages are
// google.protobuf.Struct values carrying the JSON field names.
const (
	GRPCServiceName       = "simplq.v1.TokenService"
	GRPCMethodGetToken    = "GetToken"
	GRPCMethodRemoveToken = "RemoveToken"
)

type grpcClient struct {
	conn      grpc.ClientConnInterface
	tokens    TokenSource
	validator *validator.Validate
	l         logger.Logger
}

func NewGRPCClient(conn grpc.ClientConnInterface, tokens TokenSource, l logger.Logger) Client {
	return &grpcClient{
		conn:      conn,
		tokens:    tokens,
		validator: validator.New(),
		l:         l,
	}
}

func (c *grpcClient) GetTicket(ctx context.Context, ticketID string) (*models.TicketStatusOutput, error) {
	var out models.TicketStatusOutput
	if err := c.invoke(ctx, GRPCMethodGetToken, ticketID, &out); err != nil {
		return nil, err
	}

	if err := validateStatus(c.validator, &out); err != nil {
		c.l.Warnf(ctx, "ticketapi.grpcClient.GetTicket: %v", err)
		return nil, err
	}

	return &out, nil
}

func (c *grpcClient) RemoveTicket(ctx context.Context, ticketID string) (*models.RemoveTicketOutput, error) {
	var out models.RemoveTicketOutput
	if err := c.invoke(ctx, GRPCMethodRemoveToken, ticketID, &out); err != nil {
		return nil, err
	}

	if out.TicketID == "" {
		out.TicketID = ticketID
	}

	return &out, nil
}

func (c *grpcClient) invoke(ctx context.Context, method, ticketID string, out any) error {
	if ticketID == "" {
		return ErrEmptyTicketID
	}

	req, err := structpb.NewStruct(map[string]any{"tokenId": ticketID})
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	reqID := uuid.NewString()
	md := metadata.Pairs("x-request-id", reqID)
	if c.tokens != nil {
		token, err := c.tokens.Token(ticketID)
		if err != nil {
			return err
		}
		md.Set("authorization", "Bearer "+token)
	}
	ctx = metadata.NewOutgoingContext(ctx, md)

	fullMethod := "/" + GRPCServiceName + "/" + method
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, fullMethod, req, resp); err != nil {
		c.l.Warnf(ctx, "ticketapi.grpcClient.invoke %s request_id=%s: %v", method, reqID, err)
		return pkgErrors.FromGRPCStatus(err)
	}

	raw, err := json.Marshal(resp.AsMap())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return nil
}
