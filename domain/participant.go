// Package domain contains core concepts of the direct messaging system.
// This file defines chat members and the normalized pair key.
package domain

import "strings"

const RoleMember = "member"

// Member references a user by id. Members do not own users.
type Member struct {
	UserID UserID `json:"userId"`
	Role   string `json:"role"`
}

func NewMember(userID UserID) Member {
	return Member{UserID: userID, Role: RoleMember}
}

// PairKey is the order-independent identity of a direct chat.
type PairKey string

// NewPairKey sorts both ids so that (a,b) and (b,a) share a key.
func NewPairKey(a, b UserID) PairKey {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return PairKey(a + ":" + b)
}

func (p PairKey) String() string {
	return string(p)
}
