package repositories

import (
	"context"
	"dm-chat/domain"
	"dm-chat/errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_Record_And_Get_Sorted_Messages(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := newTestStore(t)
	clock, advance := fixedClock(time.Now().UTC())
	store.now = clock
	repository := NewMessageRepository(store, slog.Default(), nil)
	chatID := uuid.NewString()

	var created []domain.Message
	for _, author := range []string{"Alice", "Bob", "Clara"} {
		message, err := repository.Create(ctx, chatID, author, "this message will self destruct in 5 seconds")
		req.NoError(err)
		created = append(created, message)
		advance(time.Minute)
	}

	// When fetching messages
	fetched, cursor, err := repository.ListByChat(ctx, chatID, nil)
	req.NoError(err)
	req.Nil(cursor)

	// Then the newest comes first
	req.Equal(lo.Reverse(created), fetched)
}

func Test_Messages_Sharing_A_Timestamp_Keep_Insertion_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := newTestStore(t)
	clock, _ := fixedClock(time.Now().UTC())
	store.now = clock
	repository := NewMessageRepository(store, slog.Default(), nil)
	chatID := uuid.NewString()

	for i := 1; i <= 5; i++ {
		_, err := repository.Create(ctx, chatID, "alice", fmt.Sprintf("Message %d", i))
		req.NoError(err)
	}

	fetched, _, err := repository.ListByChat(ctx, chatID, nil)
	req.NoError(err)
	req.Equal([]string{"Message 5", "Message 4", "Message 3", "Message 2", "Message 1"},
		lo.Map(fetched, func(m domain.Message, _ int) string { return m.Text }))
}

func Test_Messages_Are_Scoped_To_Their_Chat(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(newTestStore(t), slog.Default(), nil)
	first, second := uuid.NewString(), uuid.NewString()

	_, err := repository.Create(ctx, first, "alice", "for first")
	req.NoError(err)
	_, err = repository.Create(ctx, second, "alice", "for second")
	req.NoError(err)

	fetched, _, err := repository.ListByChat(ctx, first, nil)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("for first", fetched[0].Text)

	empty, cursor, err := repository.ListByChat(ctx, uuid.NewString(), nil)
	req.NoError(err)
	req.Empty(empty)
	req.Nil(cursor)
}

func Test_MessageRepository_Pagination(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store := newTestStore(t)
	clock, advance := fixedClock(time.Now().UTC())
	store.now = clock

	limit := 4
	repo := NewMessageRepository(store, slog.Default(), &limit)
	chatID := uuid.NewString()

	for i := 1; i <= 10; i++ {
		advance(time.Minute)
		_, err := repo.Create(ctx, chatID, fmt.Sprintf("user_%d", i), fmt.Sprintf("Message %d", i))
		req.NoError(err)
	}

	// --- PAGE 1 ---
	msgs1, cursor1, err := repo.ListByChat(ctx, chatID, nil)
	req.NoError(err)
	req.Len(msgs1, 4)
	req.Equal("user_10", msgs1[0].SenderID)
	req.Equal("user_7", msgs1[3].SenderID)
	req.NotNil(cursor1)

	// --- PAGE 2 ---
	msgs2, cursor2, err := repo.ListByChat(ctx, chatID, cursor1)
	req.NoError(err)
	req.Len(msgs2, 4)
	req.Equal("user_6", msgs2[0].SenderID)
	req.Equal("user_3", msgs2[3].SenderID)
	req.NotNil(cursor2)

	// --- PAGE 3 (end) ---
	msgs3, cursor3, err := repo.ListByChat(ctx, chatID, cursor2)
	req.NoError(err)
	req.Len(msgs3, 2)
	req.Equal("user_2", msgs3[0].SenderID)
	req.Equal("user_1", msgs3[1].SenderID)
	req.Nil(cursor3)
}

func Test_MessageRepository_MalformedCursor(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(newTestStore(t), slog.Default(), nil)

	_, _, err := repo.ListByChat(context.Background(), uuid.NewString(), lo.ToPtr("not-a-cursor"))
	req.Equal(errors.KindValidation, errors.KindOf(err))
}

func Test_MessageRepository_FindByID(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMessageRepository(newTestStore(t), slog.Default(), nil)

	created, err := repo.Create(ctx, uuid.NewString(), "alice", "hello")
	req.NoError(err)

	found, err := repo.FindByID(ctx, created.ID)
	req.NoError(err)
	req.Equal(created, found)

	_, err = repo.FindByID(ctx, uuid.NewString())
	req.ErrorIs(err, errors.ErrMessageNotFound)
}
