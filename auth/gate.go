//go:generate go run go.uber.org/mock/mockgen -source=gate.go -destination=../mocks/mock_gate.go -package=mocks
package auth

import (
	"context"
	"dm-chat/domain"
	"dm-chat/errors"
	"fmt"
	"strings"
)

const bearerScheme = "bearer "

// IGate resolves the acting user for every protected operation.
type IGate interface {
	ResolveCaller(ctx context.Context, authorization string) (domain.User, error)
}

// UserLookup is the identity store as seen by the gate.
// Implementations never return the password credential.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
}

type Gate struct {
	tokens *TokenIssuer
	users  UserLookup
}

func NewGate(tokens *TokenIssuer, users UserLookup) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// ResolveCaller validates an Authorization header value and returns the caller.
// An empty header is the normal anonymous case and never reaches the store.
func (g *Gate) ResolveCaller(ctx context.Context, authorization string) (domain.User, error) {
	token, ok := BearerToken(authorization)
	if !ok {
		return domain.User{}, errors.ErrUnauthenticated
	}

	claims, err := g.tokens.ValidateToken(token)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}

	user, err := g.users.GetUserByID(ctx, claims.Subject)
	switch {
	case errors.Is(err, errors.ErrUserNotFound):
		return domain.User{}, errors.ErrUnauthenticated
	case err != nil:
		return domain.User{}, fmt.Errorf("resolve caller: %w", err)
	}
	return user, nil
}

// BearerToken strips the scheme prefix. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) < len(bearerScheme) || !strings.EqualFold(header[:len(bearerScheme)], bearerScheme) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	return token, token != ""
}
