package ordering

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies reorder failures at the API boundary
type Kind int

const (
	KindInternal Kind = iota
	KindAuthenticationRequired
	KindAuthorizationDenied
	KindValidationFailed
	KindNotFound
	KindTransactionFailed
)

func (k Kind) String() string {
	switch k {
	case KindAuthenticationRequired:
		return "authentication_required"
	case KindAuthorizationDenied:
		return "authorization_denied"
	case KindValidationFailed:
		return "validation_failed"
	case KindNotFound:
		return "not_found"
	case KindTransactionFailed:
		return "transaction_failed"
	default:
		return "internal"
	}
}

// Machine-readable reasons carried in error responses
const (
	ReasonAuthenticationRequired = "authentication_required"
	ReasonForbidden              = "forbidden"
	ReasonAccountPending         = "account_pending"
	ReasonInvalidBody            = "invalid_body"
	ReasonEmptyList              = "empty_list"
	ReasonDuplicateIDs           = "duplicate_ids"
	ReasonParentMismatch         = "parent_mismatch"
	ReasonIncompleteSet          = "incomplete_set"
	ReasonNotFound               = "not_found"
	ReasonConflict               = "conflict"
	ReasonTransactionFailed      = "transaction_failed"
	ReasonInternal               = "internal_error"
)

// ErrTransactionFailed is wrapped by every failure of Store.ApplyOrder
var ErrTransactionFailed = errors.New("reorder transaction failed")

// Error is a classified failure
type Error struct {
	Kind    Kind
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unauthenticated reports a missing or unknown caller
func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindAuthenticationRequired, Reason: ReasonAuthenticationRequired, Message: msg}
}

// Forbidden reports a caller without the required role
func Forbidden(reason, msg string) *Error {
	return &Error{Kind: KindAuthorizationDenied, Reason: reason, Message: msg}
}

// Invalid reports malformed input or input that does not match the parent
func Invalid(reason, msg string) *Error {
	return &Error{Kind: KindValidationFailed, Reason: reason, Message: msg}
}

// NotFound reports unknown ids
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Reason: ReasonNotFound, Message: msg}
}

// Conflict reports a write that collides with existing state (duplicate membership)
func Conflict(msg string) *Error {
	return &Error{Kind: KindValidationFailed, Reason: ReasonConflict, Message: msg}
}

// TransactionFailed wraps a store failure. Sub-reasons are deliberately opaque.
func TransactionFailed(err error) *Error {
	return &Error{
		Kind:    KindTransactionFailed,
		Reason:  ReasonTransactionFailed,
		Message: "reorder could not be committed",
		Err:     fmt.Errorf("%w: %w", ErrTransactionFailed, err),
	}
}

// Internal wraps an unexpected failure outside the reorder transaction
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Reason: ReasonInternal, Message: "internal error", Err: err}
}

// KindOf returns the classification of err, KindInternal for unclassified errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ReasonOf returns the machine-readable reason of err
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonInternal
}

// MessageOf returns the client-safe message of err
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal && e.Kind != KindTransactionFailed {
		return e.Message
	}
	return "something went wrong, nothing was changed"
}

// StatusCode maps a kind to its HTTP status
func StatusCode(kind Kind) int {
	switch kind {
	case KindAuthenticationRequired:
		return http.StatusUnauthorized
	case KindAuthorizationDenied:
		return http.StatusForbidden
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
