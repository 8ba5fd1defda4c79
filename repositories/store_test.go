package repositories

import (
	"context"
	"dm-chat/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	store, err := NewStore(db, slog.Default(), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// fixedClock returns a clock frozen at the given instant, advanced manually.
func fixedClock(at time.Time) (func() time.Time, func(time.Duration)) {
	current := at
	return func() time.Time { return current }, func(d time.Duration) { current = current.Add(d) }
}

func TestStore_Ping(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	req.NoError(store.Ping(context.Background()))
}

func TestStore_Run_TimesOut(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	store.timeout = 20 * time.Millisecond

	release := make(chan struct{})
	defer close(release)

	err := store.run(context.Background(), "slow op", func() error {
		<-release
		return nil
	})
	req.ErrorIs(err, errors.ErrStoreTimeout)
	req.Equal(errors.KindInternal, errors.KindOf(err))
}

func TestStore_Run_CancelledContextDoesNoWork(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.run(ctx, "op", func() error {
		called = true
		return nil
	})
	req.ErrorIs(err, context.Canceled)
	req.False(called)
}

func TestStore_CollectGarbage_NothingToReclaim(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	rewritten, err := store.CollectGarbage(0.5)
	req.NoError(err)
	req.Zero(rewritten)
}

func TestStore_ExpiredWrite_PersistsNothing(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := newTestStore(t)
	users := createUsers(t, store, "alice", "bob")
	messages := NewMessageRepository(store, slog.Default(), nil)
	chats := NewChatRepository(store, slog.Default())
	chatID := uuid.NewString()

	store.timeout = time.Nanosecond
	for i := 0; i < 50; i++ {
		_, err := messages.Create(ctx, chatID, users[0].ID, "late")
		req.ErrorIs(err, errors.ErrStoreTimeout)
	}
	_, err := chats.CreateDirectChat(ctx, users[0].ID, users[1].ID)
	req.ErrorIs(err, errors.ErrStoreTimeout)

	store.timeout = time.Second
	fetched, _, err := messages.ListByChat(ctx, chatID, nil)
	req.NoError(err)
	req.Empty(fetched)
	_, found, err := chats.FindDirectChat(ctx, users[0].ID, users[1].ID)
	req.NoError(err)
	req.False(found)
}

func TestStore_Update_CancelledContextWritesNothing(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.update(ctx, "op", func(txn *badger.Txn) error {
		return txn.Set([]byte("k"), []byte("v"))
	})
	req.ErrorIs(err, context.Canceled)
	err = store.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("k"))
		return err
	})
	req.ErrorIs(err, badger.ErrKeyNotFound)
}
