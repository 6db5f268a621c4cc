// Package auth defines the boundary to the hosted identity service.
package auth

import (
	"context"
	"fmt"
	"time"
)

// Session is the authenticated identity context returned by the service.
type Session struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Service is the identity service boundary. Session presence tracking and
// change notification are owned by the session manager, not the adapter.
type Service interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, idToken string) error
}

// Code is a machine-checkable auth failure category.
type Code string

const (
	CodeWrongPassword Code = "wrong-password"
	CodeInvalidEmail  Code = "invalid-email"
	CodeUserNotFound  Code = "user-not-found"
	CodeEmailInUse    Code = "email-in-use"
	CodeWeakPassword  Code = "weak-password"
	CodeNetwork       Code = "network-error"
	CodeUnknown       Code = "unknown"
)

// Error is an auth failure with a machine-checkable code.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("auth: %s", e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns the user-facing text for the failure.
func (e *Error) UserMessage() string {
	switch e.Code {
	case CodeWrongPassword:
		return "The password you entered is incorrect. Please try again."
	case CodeInvalidEmail:
		return "That email address doesn't look right. Please check it."
	case CodeUserNotFound:
		return "No account exists for that email address."
	case CodeEmailInUse:
		return "An account already exists for that email address."
	case CodeWeakPassword:
		return "Please choose a password with at least 6 characters."
	case CodeNetwork:
		return "Could not reach the server. Check your connection and try again."
	default:
		return "Something went wrong. Please try again."
	}
}

// ErrorCode extracts the Code from err, or CodeUnknown for foreign errors.
func ErrorCode(err error) Code {
	if ae, ok := err.(*Error); ok {
		return ae.Code
	}
	return CodeUnknown
}
