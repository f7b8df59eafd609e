package errors

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type GRPCError struct {
	Message  string
	GrpcCode codes.Code
}

func NewGRPCError(grpcCode codes.Code, code string, message string) *GRPCError {
	return &GRPCError{
		Message:  fmt.Sprintf("%s - %s", code, message),
		GrpcCode: grpcCode,
	}
}

// FromGRPCStatus converts an error returned by a gRPC call. Errors that do not
// carry a status are returned unchanged.
func FromGRPCStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	return &GRPCError{
		Message:  st.Message(),
		GrpcCode: st.Code(),
	}
}

func (e GRPCError) Error() string {
	return e.Message
}
