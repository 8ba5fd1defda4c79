// Package domain contains core concepts of the direct messaging system.
// This file defines Message entities.
// Messages are immutable except for read receipts.
package domain

import "time"

type MessageID = string

type ReadReceipt struct {
	UserID UserID    `json:"userId"`
	ReadAt time.Time `json:"readAt"`
}

type Message struct {
	ID        MessageID
	ChatID    ChatID
	SenderID  UserID
	Text      string
	ReadBy    []ReadReceipt
	CreatedAt time.Time
}

func (m Message) Snapshot() LastMessage {
	return LastMessage{
		MessageID: m.ID,
		Text:      m.Text,
		SenderID:  m.SenderID,
		CreatedAt: m.CreatedAt,
	}
}

// MessagePage is the result of a retrieval. NoMessagesYet is set when the chat is empty.
type MessagePage struct {
	Messages      []Message
	NextCursor    *string
	NoMessagesYet bool
}
