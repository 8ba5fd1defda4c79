package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type contextKey string

const authorizationKey contextKey = "authorization"

// WithAuthorization stores the raw Authorization header value on the context.
func WithAuthorization(ctx context.Context, header string) context.Context {
	return context.WithValue(ctx, authorizationKey, header)
}

// AuthorizationFrom returns the header value, empty when the request is anonymous.
func AuthorizationFrom(ctx context.Context) string {
	header, _ := ctx.Value(authorizationKey).(string)
	return header
}

// UnaryInterceptor carries the authorization metadata into the context.
// Rejection is left to the operation itself so that anonymous calls fail
// with the same outcome on every transport.
func UnaryInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get("authorization"); len(values) > 0 {
				header = values[0]
			}
		}

		resp, err := handler(WithAuthorization(ctx, header), req)
		log.Debug("grpc call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"latency", time.Since(start))
		return resp, err
	}
}

// Middleware is the HTTP counterpart of UnaryInterceptor.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithAuthorization(r.Context(), r.Header.Get("Authorization"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
