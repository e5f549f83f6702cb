package shared

import (
	"errors"
	"fmt"
)

// DomainError is a rule violation or a storage outcome the caller can act on.
// Errors with the same Code match under errors.Is.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Transient errors come from contention, not from the data; the same
	// request may succeed on retry.
	Transient bool `json:"-"`
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Is(target error) bool {
	var de *DomainError
	return errors.As(target, &de) && de.Code == e.Code
}

// NewDomainError creates a domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Errorf creates a domain error with a formatted message
func Errorf(code, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConcurrencyConflict = &DomainError{Code: "CONCURRENCY_CONFLICT", Message: "Resource was modified by another process", Transient: true}
	ErrLockNotAcquired     = &DomainError{Code: "LOCK_NOT_ACQUIRED", Message: "Entity is locked by another operation", Transient: true}
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConcurrencyConflict reports whether err signals a lost optimistic-lock race.
func IsConcurrencyConflict(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}

// AsDomainError unwraps err to a DomainError when it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// RuleViolation returns the message of a non-transient domain error. The
// reconcilers report these in their Result instead of failing the call.
func RuleViolation(err error) (string, bool) {
	de, ok := AsDomainError(err)
	if !ok || de.Transient {
		return "", false
	}
	return de.Message, true
}
