package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies every failure a caller can observe.
type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindValidation      Kind = "VALIDATION_FAILURE"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindForbidden       Kind = "FORBIDDEN"
	KindInternal        Kind = "INTERNAL_FAULT"
)

var (
	ErrUnauthenticated    = fmt.Errorf("authentication required")
	ErrInvalidToken       = fmt.Errorf("invalid or expired token")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrUserAlreadyExists  = fmt.Errorf("email already registered")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrChatNotFound       = fmt.Errorf("chat not found")
	ErrMessageNotFound    = fmt.Errorf("message not found")
	ErrChatPairExists     = fmt.Errorf("direct chat already exists for this pair")
	ErrNotChatMember      = fmt.Errorf("user is not a member of this chat")
	ErrStoreTimeout       = fmt.Errorf("store operation timed out")
	ErrInvalidRequest     = fmt.Errorf("invalid request")
)

var kinds = map[error]Kind{
	ErrUnauthenticated:    KindUnauthenticated,
	ErrInvalidToken:       KindUnauthenticated,
	ErrInvalidCredentials: KindUnauthenticated,
	ErrInvalidPassword:    KindValidation,
	ErrInvalidRequest:     KindValidation,
	ErrUserAlreadyExists:  KindConflict,
	ErrChatPairExists:     KindConflict,
	ErrUserNotFound:       KindNotFound,
	ErrChatNotFound:       KindNotFound,
	ErrMessageNotFound:    KindNotFound,
	ErrNotChatMember:      KindForbidden,
	ErrTokenGeneration:    KindInternal,
	ErrStoreTimeout:       KindInternal,
}

// DomainError carries a kind, a caller-safe message and the wrapped cause.
// Err is for logs only.
type DomainError struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Validation reports a missing or malformed field.
func Validation(field, message string) error {
	return &DomainError{Kind: KindValidation, Field: field, Message: message, Err: ErrInvalidRequest}
}

// Internal hides the cause behind a fixed message.
func Internal(err error) error {
	return &DomainError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf resolves the kind of any error. Unknown errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	for sentinel, kind := range kinds {
		if stderrors.Is(err, sentinel) {
			return kind
		}
	}
	return KindInternal
}

// PublicMessage is the message safe to return to a caller.
func PublicMessage(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Message
	}
	if KindOf(err) == KindInternal {
		return "internal server error"
	}
	for sentinel := range kinds {
		if stderrors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal server error"
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}
