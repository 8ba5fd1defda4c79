// Package domain contains core concepts of the direct messaging system.
// This file defines the Chat aggregate and its Direct/Group variants.
package domain

import (
	"slices"
	"time"
)

type ChatID = string

// Variant tags a chat as Direct or Group. Only Direct has behavior today.
type Variant interface {
	IsGroup() bool
}

// Direct is a two-member conversation keyed by its member pair.
type Direct struct{}

func (Direct) IsGroup() bool { return false }

// Group carries the display fields that only make sense for group chats.
type Group struct {
	Name   string
	Avatar string
}

func (Group) IsGroup() bool { return true }

// LastMessage is the denormalized snapshot of the most recent message of a chat.
type LastMessage struct {
	MessageID MessageID `json:"messageId"`
	Text      string    `json:"text"`
	SenderID  UserID    `json:"senderId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Chat struct {
	ID          ChatID
	Variant     Variant
	Members     []Member
	LastMessage *LastMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDirectChat builds a direct chat between two distinct users.
func NewDirectChat(id ChatID, a, b UserID, at time.Time) Chat {
	return Chat{
		ID:        id,
		Variant:   Direct{},
		Members:   []Member{NewMember(a), NewMember(b)},
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func (c Chat) IsDirect() bool {
	return c.Variant != nil && !c.Variant.IsGroup()
}

func (c Chat) MemberIDs() []UserID {
	ids := make([]UserID, 0, len(c.Members))
	for _, m := range c.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

func (c Chat) HasMember(userID UserID) bool {
	return slices.ContainsFunc(c.Members, func(m Member) bool { return m.UserID == userID })
}

// IsDirectBetween reports whether the chat is a direct chat whose member set is exactly {a, b}.
func (c Chat) IsDirectBetween(a, b UserID) bool {
	if !c.IsDirect() || len(c.Members) != 2 || a == b {
		return false
	}
	return c.HasMember(a) && c.HasMember(b)
}

// PairKey is only meaningful for direct chats.
func (c Chat) PairKey() (PairKey, bool) {
	if !c.IsDirect() || len(c.Members) != 2 {
		return "", false
	}
	return NewPairKey(c.Members[0].UserID, c.Members[1].UserID), true
}

// Refresh applies a message snapshot unless the current one is newer.
// Returns false when the snapshot was kept.
func (c *Chat) Refresh(last LastMessage) bool {
	if c.LastMessage != nil && c.LastMessage.CreatedAt.After(last.CreatedAt) {
		return false
	}
	c.LastMessage = &last
	if last.CreatedAt.After(c.UpdatedAt) {
		c.UpdatedAt = last.CreatedAt
	}
	return true
}

// ChatSummary is a chat enriched at read time with member and last sender names.
type ChatSummary struct {
	Chat
	MemberRefs []UserRef
	LastSender *UserRef
}
