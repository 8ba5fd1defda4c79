//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	"bytes"
	"context"
	"dm-chat/domain"
	"dm-chat/errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatRepository interface {
	FindDirectChat(ctx context.Context, userA, userB string) (domain.Chat, bool, error)
	CreateDirectChat(ctx context.Context, userA, userB string) (domain.Chat, error)
	GetChat(ctx context.Context, chatID string) (domain.Chat, error)
	ListChatsForUser(ctx context.Context, userID string) ([]domain.ChatSummary, error)
	AttachLastMessage(ctx context.Context, chatID string, last domain.LastMessage) error
}

type ChatRepository struct {
	store *Store
	log   *slog.Logger
}

func NewChatRepository(store *Store, log *slog.Logger) *ChatRepository {
	return &ChatRepository{store: store, log: log}
}

// FindDirectChat looks the pair up through the pair index.
// Only a direct chat whose member set is exactly {userA, userB} matches.
func (c *ChatRepository) FindDirectChat(ctx context.Context, userA, userB string) (domain.Chat, bool, error) {
	var doc chatDocument
	err := c.store.view(ctx, "find direct chat", func(txn *badger.Txn) error {
		chatID, err := getString(txn, pairIndexKey(domain.NewPairKey(userA, userB)))
		if err != nil {
			return err
		}
		return getDocument(txn, chatKey(chatID), &doc)
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return domain.Chat{}, false, nil
	case err != nil:
		return domain.Chat{}, false, fmt.Errorf("find direct chat: %w", err)
	}

	chat := toChat(doc)
	if !chat.IsDirectBetween(userA, userB) {
		c.log.Warn("Pair index points to a chat with another member set", "chat_id", chat.ID)
		return domain.Chat{}, false, nil
	}
	return chat, true, nil
}

// CreateDirectChat inserts the chat together with its pair index entry in one transaction.
// When the pair already has a chat, or a concurrent transaction claimed it first,
// ErrChatPairExists is returned and nothing is written.
func (c *ChatRepository) CreateDirectChat(ctx context.Context, userA, userB string) (domain.Chat, error) {
	if userA == userB {
		return domain.Chat{}, errors.Validation("userId", "a direct chat needs two distinct users")
	}
	chat := domain.NewDirectChat(uuid.NewString(), userA, userB, c.store.now().UTC())
	pair, _ := chat.PairKey()

	err := c.store.update(ctx, "create direct chat", func(txn *badger.Txn) error {
		indexKey := pairIndexKey(pair)
		_, err := txn.Get(indexKey)
		switch {
		case err == nil:
			return errors.ErrChatPairExists
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		if err = setDocument(txn, chatKey(chat.ID), fromChat(chat)); err != nil {
			return err
		}
		if err = txn.Set(indexKey, []byte(chat.ID)); err != nil {
			return err
		}
		for _, member := range chat.Members {
			if err = txn.Set(memberIndexKey(member.UserID, chat.ID), []byte{}); err != nil {
				return err
			}
		}
		return nil
	})
	switch {
	case errors.Is(err, errors.ErrChatPairExists), errors.Is(err, badger.ErrConflict):
		return domain.Chat{}, errors.ErrChatPairExists
	case err != nil:
		return domain.Chat{}, fmt.Errorf("create direct chat: %w", err)
	}
	c.log.Debug("Direct chat created", "chat_id", chat.ID, "pair", pair.String())
	return chat, nil
}

func (c *ChatRepository) GetChat(ctx context.Context, chatID string) (domain.Chat, error) {
	var doc chatDocument
	err := c.store.view(ctx, "get chat", func(txn *badger.Txn) error {
		return getDocument(txn, chatKey(chatID), &doc)
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return domain.Chat{}, errors.ErrChatNotFound
	case err != nil:
		return domain.Chat{}, fmt.Errorf("get chat: %w", err)
	}
	return toChat(doc), nil
}

// ListChatsForUser returns every chat the user belongs to, most recently active first.
// Member and last sender names are joined at read time within the same snapshot.
func (c *ChatRepository) ListChatsForUser(ctx context.Context, userID string) ([]domain.ChatSummary, error) {
	var summaries []domain.ChatSummary
	err := c.store.view(ctx, "list chats", func(txn *badger.Txn) error {
		chatIDs := memberChatIDs(txn, userID)

		chats := make([]domain.Chat, 0, len(chatIDs))
		for _, chatID := range chatIDs {
			var doc chatDocument
			err := getDocument(txn, chatKey(chatID), &doc)
			if errors.Is(err, badger.ErrKeyNotFound) {
				c.log.Warn("Membership index points to a missing chat", "chat_id", chatID, "user_id", userID)
				continue
			}
			if err != nil {
				return err
			}
			chats = append(chats, toChat(doc))
		}

		userIDs := lo.FlatMap(chats, func(chat domain.Chat, _ int) []string {
			ids := chat.MemberIDs()
			if chat.LastMessage != nil {
				ids = append(ids, chat.LastMessage.SenderID)
			}
			return ids
		})
		refs, err := userRefs(txn, lo.Uniq(userIDs))
		if err != nil {
			return err
		}

		summaries = lo.Map(chats, func(chat domain.Chat, _ int) domain.ChatSummary {
			summary := domain.ChatSummary{
				Chat: chat,
				MemberRefs: lo.Map(chat.Members, func(m domain.Member, _ int) domain.UserRef {
					return refs[m.UserID]
				}),
			}
			if chat.LastMessage != nil {
				summary.LastSender = lo.ToPtr(refs[chat.LastMessage.SenderID])
			}
			return summary
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if !summaries[i].UpdatedAt.Equal(summaries[j].UpdatedAt) {
			return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
		}
		return summaries[i].ID < summaries[j].ID
	})
	return lo.Ternary(summaries == nil, []domain.ChatSummary{}, summaries), nil
}

// AttachLastMessage refreshes the snapshot unless a newer one is already stored.
// It runs as a separate write after the message insert.
func (c *ChatRepository) AttachLastMessage(ctx context.Context, chatID string, last domain.LastMessage) error {
	err := c.store.updateWithRetry(ctx, "attach last message", func(txn *badger.Txn) error {
		var doc chatDocument
		if err := getDocument(txn, chatKey(chatID), &doc); err != nil {
			return err
		}
		chat := toChat(doc)
		if !chat.Refresh(last) {
			return nil
		}
		return setDocument(txn, chatKey(chatID), fromChat(chat))
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return errors.ErrChatNotFound
	case err != nil:
		return fmt.Errorf("attach last message: %w", err)
	}
	return nil
}

func memberChatIDs(txn *badger.Txn, userID string) []string {
	prefix := memberIndexPrefix(userID)
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	options.Prefix = prefix
	it := txn.NewIterator(options)
	defer it.Close()

	var ids []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		ids = append(ids, string(bytes.TrimPrefix(it.Item().KeyCopy(nil), prefix)))
	}
	return ids
}
