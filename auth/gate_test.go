package auth_test

import (
	"context"
	"dm-chat/auth"
	"dm-chat/domain"
	"dm-chat/errors"
	"dm-chat/mocks"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGate_ResolveCaller(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewTokenIssuer("gate-secret", time.Hour)
	alice := domain.User{ID: "11111111-1111-1111-1111-111111111111", Name: "Alice", Email: "alice@example.com"}
	token, err := tokens.GenerateToken(alice.ID, alice.Email)
	require.NoError(t, err)

	t.Run("should resolve the caller from a valid token", func(t *testing.T) {
		req := require.New(t)
		users := mocks.NewMockUserLookup(gomock.NewController(t))
		users.EXPECT().GetUserByID(gomock.Any(), alice.ID).Return(alice, nil)

		caller, err := auth.NewGate(tokens, users).ResolveCaller(ctx, "Bearer "+token)
		req.NoError(err)
		req.Equal(alice, caller)
	})

	t.Run("should not consult the store without a credential", func(t *testing.T) {
		req := require.New(t)
		users := mocks.NewMockUserLookup(gomock.NewController(t))

		_, err := auth.NewGate(tokens, users).ResolveCaller(ctx, "")
		req.ErrorIs(err, errors.ErrUnauthenticated)
		req.Equal(errors.KindUnauthenticated, errors.KindOf(err))
	})

	t.Run("should reject a forged token", func(t *testing.T) {
		req := require.New(t)
		users := mocks.NewMockUserLookup(gomock.NewController(t))
		forged, err := auth.NewTokenIssuer("other-secret", time.Hour).GenerateToken(alice.ID, alice.Email)
		req.NoError(err)

		_, err = auth.NewGate(tokens, users).ResolveCaller(ctx, "Bearer "+forged)
		req.ErrorIs(err, errors.ErrInvalidToken)
		req.Equal(errors.KindUnauthenticated, errors.KindOf(err))
	})

	t.Run("should reject a token whose user is gone", func(t *testing.T) {
		req := require.New(t)
		users := mocks.NewMockUserLookup(gomock.NewController(t))
		users.EXPECT().GetUserByID(gomock.Any(), alice.ID).Return(domain.User{}, errors.ErrUserNotFound)

		_, err := auth.NewGate(tokens, users).ResolveCaller(ctx, "Bearer "+token)
		req.ErrorIs(err, errors.ErrUnauthenticated)
	})

	t.Run("should surface store failures as internal", func(t *testing.T) {
		req := require.New(t)
		users := mocks.NewMockUserLookup(gomock.NewController(t))
		users.EXPECT().GetUserByID(gomock.Any(), alice.ID).Return(domain.User{}, fmt.Errorf("disk on fire"))

		_, err := auth.NewGate(tokens, users).ResolveCaller(ctx, "Bearer "+token)
		req.Error(err)
		req.Equal(errors.KindInternal, errors.KindOf(err))
	})
}
