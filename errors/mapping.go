package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var httpStatuses = map[Kind]int{
	KindUnauthenticated: http.StatusUnauthorized,
	KindValidation:      http.StatusBadRequest,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindForbidden:       http.StatusForbidden,
	KindInternal:        http.StatusInternalServerError,
}

var grpcCodes = map[Kind]codes.Code{
	KindUnauthenticated: codes.Unauthenticated,
	KindValidation:      codes.InvalidArgument,
	KindNotFound:        codes.NotFound,
	KindConflict:        codes.AlreadyExists,
	KindForbidden:       codes.PermissionDenied,
	KindInternal:        codes.Internal,
}

func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return httpStatuses[KindOf(err)]
}

// MapToGRPCError converts a domain error into a gRPC status without leaking internal detail.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(grpcCodes[KindOf(err)], PublicMessage(err))
}

// KindFromGRPC is the inverse of MapToGRPCError, used by clients.
func KindFromGRPC(err error) Kind {
	code := status.Code(err)
	for kind, c := range grpcCodes {
		if c == code {
			return kind
		}
	}
	return KindInternal
}
