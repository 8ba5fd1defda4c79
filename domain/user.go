// Package domain contains core concepts of the direct messaging system.
// This file defines the User entity as the conversation core sees it.
// The password credential never lives on this type.
package domain

import "time"

type UserID = string

// User is a registered account. Read-only from the conversation core.
type User struct {
	ID        UserID    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserRef is the read-time projection of a user embedded in chat listings.
type UserRef struct {
	ID    UserID `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}
