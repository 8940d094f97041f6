// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by the service layer and
// the HTTP handlers. Lower layers wrap their failures in an *Error of the
// right Kind; handlers map the Kind to a status code and a user message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthorized    Kind = "unauthorized"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindExternalService Kind = "external_service"
	KindParse           Kind = "parse"
	KindInternal        Kind = "internal"
)

// Error is an application error with a Kind and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an *Error of the given kind.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

func Unauthorized(message string, cause error) *Error {
	return New(KindUnauthorized, message, cause)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func Conflict(message string, cause error) *Error {
	return New(KindConflict, message, cause)
}

// External wraps a network failure or non-2xx response from a third-party
// service (LLM provider, Google APIs).
func External(service string, cause error) *Error {
	return New(KindExternalService, service+" request failed", cause)
}

// Parse wraps a failure to interpret a third-party response.
func Parse(message string, cause error) *Error {
	return New(KindParse, message, cause)
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindExternalService, KindParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to the user. Validation,
// auth, not-found and conflict messages are shown as-is; external, parse and
// internal failures get a generic message so provider details stay in logs.
func PublicMessage(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "An unexpected error occurred."
	}
	switch appErr.Kind {
	case KindExternalService:
		return "An external service failed. Please try again later."
	case KindParse:
		return "The generated content could not be read. Please try again."
	case KindInternal:
		return "An unexpected error occurred."
	default:
		return appErr.Message
	}
}
