package apperr

import (
	"errors"
	"fmt"
)

// Kind groups errors for HTTP status mapping.
type Kind string

const (
	KindInvalid      Kind = "invalid"      // 400
	KindUnauthorized Kind = "unauthorized" // 401
	KindForbidden    Kind = "forbidden"    // 403
	KindNotFound     Kind = "not_found"    // 404
	KindConflict     Kind = "conflict"     // 409
	KindUnavailable  Kind = "unavailable"  // 503
	KindInternal     Kind = "internal"     // 500
)

// Error is the structured error returned by services.
// Code is stable and safe to expose; Cause is kept for logs only.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind Kind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

const (
	CodeInvalidActor      = "invalid_actor"
	CodeNotFound          = "not_found"
	CodeDuplicateIdentity = "duplicate_identity"
	CodeInvalidField      = "invalid_field"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeStoreFailure      = "store_failure"
	CodeUpstream          = "upstream_unavailable"
)

// InvalidActor: neither a user id nor a session id was supplied.
func InvalidActor() *Error {
	return New(KindInvalid, CodeInvalidActor, "either userId or sessionId is required")
}

func NotFound(what string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeNotFound,
		Message: what + " not found",
		Meta:    map[string]string{"resource": what},
	}
}

func DuplicateIdentity(field string) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    CodeDuplicateIdentity,
		Message: field + " already in use",
		Meta:    map[string]string{"field": field},
	}
}

func Invalid(field, reason string) *Error {
	return &Error{
		Kind:    KindInvalid,
		Code:    CodeInvalidField,
		Message: fmt.Sprintf("invalid %s: %s", field, reason),
		Meta:    map[string]string{"field": field, "reason": reason},
	}
}

func Unauthorized() *Error {
	return New(KindUnauthorized, CodeUnauthorized, "invalid credentials")
}

func Forbidden(msg string) *Error {
	return New(KindForbidden, CodeForbidden, msg)
}

func StoreFailure(cause error) *Error {
	return Wrap(KindInternal, CodeStoreFailure, "storage error", cause)
}

func Upstream(cause error) *Error {
	return Wrap(KindUnavailable, CodeUpstream, "catalog service unavailable", cause)
}
