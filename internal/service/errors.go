package service

import (
	"errors"
	"fmt"
)

// Domain errors, mapped to HTTP codes by the handlers.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrForbidden          = errors.New("not allowed")
	ErrAlreadyLiked       = errors.New("post already liked")
	ErrNotLiked           = errors.New("post not liked")
	ErrSelfFollow         = errors.New("user cannot follow themselves")
	ErrAlreadyFollowing   = errors.New("user already followed")
	ErrNotFollowing       = errors.New("user not followed")
)

// ValidationError reports invalid user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
