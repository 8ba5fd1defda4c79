package server

import (
	"context"
	"dm-chat/contract"
	"dm-chat/errors"
	"dm-chat/services"
)

type AuthServer struct {
	authService services.IAuthService
}

// NewAuthServer creates a new gRPC server for authentication.
func NewAuthServer(authService services.IAuthService) *AuthServer {
	return &AuthServer{authService: authService}
}

// Register creates the account and returns a session token.
func (s *AuthServer) Register(ctx context.Context, in *contract.RegisterRequest) (*contract.AuthResponse, error) {
	session, err := s.authService.Register(ctx, *in)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &contract.AuthResponse{Token: session.Token.String(), User: session.User}, nil
}

// Login verifies credentials and returns a session token.
func (s *AuthServer) Login(ctx context.Context, in *contract.LoginRequest) (*contract.AuthResponse, error) {
	session, err := s.authService.Login(ctx, *in)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &contract.AuthResponse{Token: session.Token.String(), User: session.User}, nil
}
