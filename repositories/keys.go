package repositories

import (
	"dm-chat/domain"
	"fmt"
	"strings"
)

// Key layout:
//
//	user:{id}                            user document
//	idx:user:email:{email}               -> user id (unique)
//	chat:{id}                            chat document
//	idx:chat:pair:{lo}:{hi}              -> chat id (unique per direct pair)
//	idx:chat:member:{user}:{chat}        membership index
//	msg:{chat}:{nanos:19}:{seq:20}       message document, newest last
//	idx:msg:{id}                         -> message key
const (
	PrefixUser        = "user:"
	PrefixChat        = "chat:"
	PrefixMessage     = "msg:"
	PrefixIndex       = "idx:"
	prefixEmailIndex  = "idx:user:email:"
	prefixPairIndex   = "idx:chat:pair:"
	prefixMemberIndex = "idx:chat:member:"
	prefixMessageID   = "idx:msg:"
)

func userKey(id string) []byte {
	return []byte(PrefixUser + id)
}

func emailIndexKey(email string) []byte {
	return []byte(prefixEmailIndex + normalizeEmail(email))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func chatKey(id string) []byte {
	return []byte(PrefixChat + id)
}

func pairIndexKey(pair domain.PairKey) []byte {
	return []byte(prefixPairIndex + pair.String())
}

func memberIndexPrefix(userID string) []byte {
	return []byte(prefixMemberIndex + userID + ":")
}

func memberIndexKey(userID, chatID string) []byte {
	return append(memberIndexPrefix(userID), chatID...)
}

func messagePrefix(chatID string) []byte {
	return []byte(PrefixMessage + chatID + ":")
}

// messageCursor is the part of a message key after the chat prefix.
// Zero padding keeps lexicographical order equal to (createdAt, seq) order.
func messageCursor(nanos int64, seq uint64) string {
	return fmt.Sprintf("%019d:%020d", nanos, seq)
}

func messageKey(chatID string, nanos int64, seq uint64) []byte {
	return append(messagePrefix(chatID), messageCursor(nanos, seq)...)
}

func messageIDIndexKey(id string) []byte {
	return []byte(prefixMessageID + id)
}

func validCursor(cursor string) bool {
	parts := strings.Split(cursor, ":")
	if len(parts) != 2 || len(parts[0]) != 19 || len(parts[1]) != 20 {
		return false
	}
	for _, part := range parts {
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
