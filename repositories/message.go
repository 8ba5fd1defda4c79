//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"dm-chat/domain"
	"dm-chat/errors"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	Create(ctx context.Context, chatID, senderID, text string) (domain.Message, error)
	ListByChat(ctx context.Context, chatID string, cursor *string) ([]domain.Message, *string, error)
	FindByID(ctx context.Context, messageID string) (domain.Message, error)
}

type MessageRepository struct {
	store         *Store
	log           *slog.Logger
	limitMessages *int
}

// NewMessageRepository builds the repository. A nil limitMessages means no paging.
func NewMessageRepository(store *Store, log *slog.Logger, limitMessages *int) *MessageRepository {
	return &MessageRepository{store: store, log: log, limitMessages: limitMessages}
}

// Create persists a message. The key is "msg:{chat}:{nanos}:{seq}":
//  1. 19-digit zero padding keeps chronological order lexicographical.
//  2. The store-wide sequence orders messages sharing a nanosecond by insertion.
func (m *MessageRepository) Create(ctx context.Context, chatID, senderID, text string) (domain.Message, error) {
	if m.store.seq == nil {
		return domain.Message{}, fmt.Errorf("create message: store is read-only")
	}
	message := domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		ReadBy:    []domain.ReadReceipt{},
		CreatedAt: m.store.now().UTC(),
	}

	err := m.store.update(ctx, "create message", func(txn *badger.Txn) error {
		seq, err := m.store.seq.Next()
		if err != nil {
			return err
		}
		key := messageKey(chatID, message.CreatedAt.UnixNano(), seq)
		if err = setDocument(txn, key, fromMessage(message, seq)); err != nil {
			return err
		}
		return txn.Set(messageIDIndexKey(message.ID), key)
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("create message: %w", err)
	}
	return message, nil
}

// ListByChat retrieves messages newest first using a reverse prefix scan.
// With a limit configured, the returned cursor resumes after the last message
// and is nil once the chat is exhausted.
func (m *MessageRepository) ListByChat(ctx context.Context, chatID string, cursor *string) ([]domain.Message, *string, error) {
	if cursor != nil && !validCursor(*cursor) {
		return nil, nil, errors.Validation("cursor", "cursor is malformed")
	}

	var docs []messageDocument
	var lastCursor string
	hasMore := false
	err := m.store.view(ctx, "list messages", func(txn *badger.Txn) error {
		prefix := messagePrefix(chatID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// 0xFF sorts after any digit, so the seek lands on the newest message
			seekKey = append(append([]byte{}, prefix...), 0xFF)
		default:
			seekKey = append(append([]byte{}, prefix...), *cursor...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(docs) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				hasMore = true
				break
			}
			item := it.Item()
			lastCursor = string(item.Key()[len(prefix):])
			var doc messageDocument
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list messages: %w", err)
	}

	messages := lo.Map(docs, func(doc messageDocument, _ int) domain.Message {
		return toMessage(doc)
	})
	if !hasMore {
		return messages, nil, nil
	}
	return messages, &lastCursor, nil
}

func (m *MessageRepository) FindByID(ctx context.Context, messageID string) (domain.Message, error) {
	var doc messageDocument
	err := m.store.view(ctx, "find message", func(txn *badger.Txn) error {
		item, err := txn.Get(messageIDIndexKey(messageID))
		if err != nil {
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getDocument(txn, key, &doc)
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return domain.Message{}, errors.ErrMessageNotFound
	case err != nil:
		return domain.Message{}, fmt.Errorf("find message: %w", err)
	}
	return toMessage(doc), nil
}
