//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"context"
	"dm-chat/domain"
	"dm-chat/errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, user NewUser) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
}

// NewUser is the registration payload. The password is already hashed.
type NewUser struct {
	Name           string
	Email          string
	HashedPassword string
	Avatar         string
}

// User is the credential-bearing record, only handed to the login flow.
type User struct {
	domain.User
	PasswordHash string
}

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// CreateUser persists the user under a fresh id.
// The email index makes duplicate emails fail with ErrUserAlreadyExists,
// including when two registrations race.
func (u *UserRepository) CreateUser(ctx context.Context, user NewUser) (domain.User, error) {
	now := u.store.now().UTC()
	doc := userDocument{
		ID:           uuid.NewString(),
		Name:         user.Name,
		Email:        normalizeEmail(user.Email),
		PasswordHash: user.HashedPassword,
		Avatar:       user.Avatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := u.store.updateWithRetry(ctx, "create user", func(txn *badger.Txn) error {
		indexKey := emailIndexKey(doc.Email)
		_, err := txn.Get(indexKey)
		switch {
		case err == nil:
			return errors.ErrUserAlreadyExists
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		if err = setDocument(txn, userKey(doc.ID), doc); err != nil {
			return err
		}
		return txn.Set(indexKey, []byte(doc.ID))
	})
	if err != nil {
		if errors.Is(err, errors.ErrUserAlreadyExists) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return toProfile(doc), nil
}

// GetUserByEmail returns the record including its password hash.
func (u *UserRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var doc userDocument
	err := u.store.view(ctx, "get user by email", func(txn *badger.Txn) error {
		id, err := getString(txn, emailIndexKey(email))
		if err != nil {
			return err
		}
		return getDocument(txn, userKey(id), &doc)
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return User{}, errors.ErrUserNotFound
	case err != nil:
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return User{User: toProfile(doc), PasswordHash: doc.PasswordHash}, nil
}

// GetUserByID never exposes the credential.
func (u *UserRepository) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	var doc userDocument
	err := u.store.view(ctx, "get user by id", func(txn *badger.Txn) error {
		return getDocument(txn, userKey(id), &doc)
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return domain.User{}, errors.ErrUserNotFound
	case err != nil:
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return toProfile(doc), nil
}

// userRefs resolves names and emails for a set of ids inside an open transaction.
// Missing users yield a reference carrying only the id.
func userRefs(txn *badger.Txn, ids []string) (map[string]domain.UserRef, error) {
	refs := make(map[string]domain.UserRef, len(ids))
	for _, id := range ids {
		if _, ok := refs[id]; ok {
			continue
		}
		var doc userDocument
		err := getDocument(txn, userKey(id), &doc)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			refs[id] = domain.UserRef{ID: id}
		case err != nil:
			return nil, err
		default:
			refs[id] = domain.UserRef{ID: id, Name: doc.Name, Email: doc.Email}
		}
	}
	return refs, nil
}
