package ticketapi_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/ticketapi"
	pkgErrors "github.com/vogiaan1904/ticketbottle-queuestatus/pkg/errors"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/response"
)

type fakeTokenServer struct {
	tickets map[string]map[string]any
	md      metadata.MD
}

func (s *fakeTokenServer) handler(remove bool) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(_ any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
		in := &structpb.Struct{}
		if err := dec(in); err != nil {
			return nil, err
		}
		s.md, _ = metadata.FromIncomingContext(ctx)

		id := in.GetFields()["tokenId"].GetStringValue()
		ticket, ok := s.tickets[id]
		if !ok {
			return nil, response.ParseGRPCError(pkgErrors.NewGRPCError(codes.NotFound, "TKN001", "Token not found"))
		}
		if remove {
			ticket["tokenStatus"] = "REMOVED"
		}
		return structpb.NewStruct(ticket)
	}
}

func newGRPCClient(t *testing.T, srv *fakeTokenServer) ticketapi.Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	gs.RegisterService(&grpc.ServiceDesc{
		ServiceName: ticketapi.GRPCServiceName,
		HandlerType: (*any)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: ticketapi.GRPCMethodGetToken, Handler: srv.handler(false)},
			{MethodName: ticketapi.GRPCMethodRemoveToken, Handler: srv.handler(true)},
		},
	}, srv)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return ticketapi.NewGRPCClient(conn, nil, logger.InitializeTestZapLogger())
}

func TestGRPCGetAndRemoveTicket(t *testing.T) {
	srv := &fakeTokenServer{tickets: map[string]map[string]any{
		"t-1": {"tokenId": "t-1", "aheadCount": 2, "tokenStatus": "WAITING"},
	}}
	cli := newGRPCClient(t, srv)
	ctx := context.Background()

	out, err := cli.GetTicket(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, 2, out.AheadCount)
	assert.Equal(t, models.TicketStatusWaiting, out.TokenStatus)
	assert.NotEmpty(t, srv.md.Get("x-request-id"))

	removed, err := cli.RemoveTicket(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "t-1", removed.TicketID)
	assert.Equal(t, models.TicketStatusRemoved, removed.TokenStatus)
}

func TestGRPCNotFound(t *testing.T) {
	cli := newGRPCClient(t, &fakeTokenServer{tickets: map[string]map[string]any{}})

	_, err := cli.GetTicket(context.Background(), "missing")

	var grpcErr *pkgErrors.GRPCError
	require.True(t, errors.As(err, &grpcErr))
	assert.Equal(t, codes.NotFound, grpcErr.GrpcCode)
	assert.Contains(t, grpcErr.Message, "Token not found")
}
