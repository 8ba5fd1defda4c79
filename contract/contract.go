// Package contract holds the wire shapes shared by the gRPC and HTTP transports.
package contract

import (
	"dm-chat/domain"
	"time"

	"github.com/samber/lo"
)

const (
	ChatTypeDirect = "direct"
	ChatTypeGroup  = "group"
)

type RegisterRequest = domain.RegisterCommand

type LoginRequest = domain.LoginCommand

type OpenChatRequest = domain.OpenDirectChatCommand

type SendMessageRequest = domain.SendMessageCommand

type RetrieveMessagesRequest = domain.RetrieveMessagesCommand

type ListChatsRequest struct{}

type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type Chat struct {
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	Name        string              `json:"name,omitempty"`
	Avatar      string              `json:"avatar,omitempty"`
	Members     []domain.Member     `json:"members"`
	LastMessage *domain.LastMessage `json:"lastMessage,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// ChatSummary is a chat listing entry with member names resolved.
type ChatSummary struct {
	Chat
	MemberRefs []domain.UserRef `json:"memberRefs"`
	LastSender *domain.UserRef  `json:"lastSender,omitempty"`
}

type ListChatsResponse struct {
	Chats []ChatSummary `json:"chats"`
}

type Message struct {
	ID        string               `json:"id"`
	ChatID    string               `json:"chatId"`
	SenderID  string               `json:"senderId"`
	Text      string               `json:"text"`
	ReadBy    []domain.ReadReceipt `json:"readBy"`
	CreatedAt time.Time            `json:"createdAt"`
}

type MessagePage struct {
	Messages      []Message `json:"messages"`
	NextCursor    *string   `json:"nextCursor,omitempty"`
	NoMessagesYet bool      `json:"noMessagesYet"`
}

func FromChat(c domain.Chat) Chat {
	out := Chat{
		ID:          c.ID,
		Type:        ChatTypeDirect,
		Members:     c.Members,
		LastMessage: c.LastMessage,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if g, ok := c.Variant.(domain.Group); ok {
		out.Type = ChatTypeGroup
		out.Name = g.Name
		out.Avatar = g.Avatar
	}
	if out.Members == nil {
		out.Members = []domain.Member{}
	}
	return out
}

// ToChat rebuilds the domain chat from its wire form, used by clients.
func (c Chat) ToChat() domain.Chat {
	var variant domain.Variant = domain.Direct{}
	if c.Type == ChatTypeGroup {
		variant = domain.Group{Name: c.Name, Avatar: c.Avatar}
	}
	return domain.Chat{
		ID:          c.ID,
		Variant:     variant,
		Members:     c.Members,
		LastMessage: c.LastMessage,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromChatSummaries(summaries []domain.ChatSummary) ListChatsResponse {
	return ListChatsResponse{Chats: lo.Map(summaries, func(s domain.ChatSummary, _ int) ChatSummary {
		return ChatSummary{
			Chat:       FromChat(s.Chat),
			MemberRefs: s.MemberRefs,
			LastSender: s.LastSender,
		}
	})}
}

func FromMessage(m domain.Message) Message {
	readBy := m.ReadBy
	if readBy == nil {
		readBy = []domain.ReadReceipt{}
	}
	return Message{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Text:      m.Text,
		ReadBy:    readBy,
		CreatedAt: m.CreatedAt,
	}
}

func (m Message) ToMessage() domain.Message {
	return domain.Message{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Text:      m.Text,
		ReadBy:    m.ReadBy,
		CreatedAt: m.CreatedAt,
	}
}

func FromMessagePage(p domain.MessagePage) MessagePage {
	return MessagePage{
		Messages:      lo.Map(p.Messages, func(m domain.Message, _ int) Message { return FromMessage(m) }),
		NextCursor:    p.NextCursor,
		NoMessagesYet: p.NoMessagesYet,
	}
}

func (p MessagePage) ToMessagePage() domain.MessagePage {
	return domain.MessagePage{
		Messages:      lo.Map(p.Messages, func(m Message, _ int) domain.Message { return m.ToMessage() }),
		NextCursor:    p.NextCursor,
		NoMessagesYet: p.NoMessagesYet,
	}
}
