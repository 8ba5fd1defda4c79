package repositories

import (
	"context"
	"dm-chat/errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(t))

	created, err := repo.CreateUser(ctx, NewUser{Name: "Alice", Email: "A@X.com", HashedPassword: "$argon2id$hash"})
	req.NoError(err)
	req.NotEmpty(created.ID)
	req.Equal("a@x.com", created.Email)

	byID, err := repo.GetUserByID(ctx, created.ID)
	req.NoError(err)
	req.Equal(created, byID)

	byEmail, err := repo.GetUserByEmail(ctx, "a@x.com")
	req.NoError(err)
	req.Equal(created.ID, byEmail.ID)
	req.Equal("$argon2id$hash", byEmail.PasswordHash)
}

func TestUserRepository_UnknownUser(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(t))

	_, err := repo.GetUserByID(ctx, "missing")
	req.ErrorIs(err, errors.ErrUserNotFound)

	_, err = repo.GetUserByEmail(ctx, "nobody@x.com")
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(t))

	_, err := repo.CreateUser(ctx, NewUser{Name: "Alice", Email: "a@x.com", HashedPassword: "h"})
	req.NoError(err)

	// Emails are compared case-insensitively
	_, err = repo.CreateUser(ctx, NewUser{Name: "Other Alice", Email: " A@x.COM ", HashedPassword: "h"})
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestUserRepository_ConcurrentRegistrationKeepsEmailUnique(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(t))

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateUser(ctx, NewUser{Name: "Bob", Email: "b@x.com", HashedPassword: "h"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	}
	req.Equal(1, succeeded)
}
