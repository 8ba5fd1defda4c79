package repositories

import (
	"dm-chat/domain"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

// Documents are the persisted shapes. They are kept apart from domain types
// so that the Chat variant can be flattened for storage.

type userDocument struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type chatDocument struct {
	ID          string              `json:"id"`
	IsGroup     bool                `json:"isGroup"`
	Name        string              `json:"name,omitempty"`
	Avatar      string              `json:"avatar,omitempty"`
	Members     []domain.Member     `json:"members"`
	LastMessage *domain.LastMessage `json:"lastMessage,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

type messageDocument struct {
	ID        string               `json:"id"`
	ChatID    string               `json:"chatId"`
	SenderID  string               `json:"senderId"`
	Text      string               `json:"text"`
	ReadBy    []domain.ReadReceipt `json:"readBy"`
	Seq       uint64               `json:"seq"`
	CreatedAt time.Time            `json:"createdAt"`
}

func fromChat(chat domain.Chat) chatDocument {
	doc := chatDocument{
		ID:          chat.ID,
		Members:     chat.Members,
		LastMessage: chat.LastMessage,
		CreatedAt:   chat.CreatedAt,
		UpdatedAt:   chat.UpdatedAt,
	}
	if group, ok := chat.Variant.(domain.Group); ok {
		doc.IsGroup = true
		doc.Name = group.Name
		doc.Avatar = group.Avatar
	}
	return doc
}

func toChat(doc chatDocument) domain.Chat {
	var variant domain.Variant = domain.Direct{}
	if doc.IsGroup {
		variant = domain.Group{Name: doc.Name, Avatar: doc.Avatar}
	}
	return domain.Chat{
		ID:          doc.ID,
		Variant:     variant,
		Members:     doc.Members,
		LastMessage: doc.LastMessage,
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}
}

func toProfile(doc userDocument) domain.User {
	return domain.User{
		ID:        doc.ID,
		Name:      doc.Name,
		Email:     doc.Email,
		Avatar:    doc.Avatar,
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}
}

func fromMessage(message domain.Message, seq uint64) messageDocument {
	return messageDocument{
		ID:        message.ID,
		ChatID:    message.ChatID,
		SenderID:  message.SenderID,
		Text:      message.Text,
		ReadBy:    lo.Ternary(message.ReadBy == nil, []domain.ReadReceipt{}, message.ReadBy),
		Seq:       seq,
		CreatedAt: message.CreatedAt,
	}
}

func toMessage(doc messageDocument) domain.Message {
	return domain.Message{
		ID:        doc.ID,
		ChatID:    doc.ChatID,
		SenderID:  doc.SenderID,
		Text:      doc.Text,
		ReadBy:    doc.ReadBy,
		CreatedAt: doc.CreatedAt.UTC(),
	}
}

// getDocument reads key into out. badger.ErrKeyNotFound is returned untouched.
func getDocument(txn *badger.Txn, key []byte, out any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

func setDocument(txn *badger.Txn, key []byte, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

func getString(txn *badger.Txn, key []byte) (string, error) {
	item, err := txn.Get(key)
	if err != nil {
		return "", err
	}
	value, err := item.ValueCopy(nil)
	return string(value), err
}
