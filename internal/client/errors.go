package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any *APIError with status 401.
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("login failed: check your username and password")
	ErrNoStoredSession    = errors.New("no stored session")
)

const badResponse = "Bad response from the server"

// APIError is a non-2xx answer from a data endpoint.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// ServerError is a non-401 failure of the login endpoint.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("failed to login: bad response from server (status %d)", e.Status)
}

// RegistrationError carries the server's reason for rejecting a sign-up.
type RegistrationError struct {
	Status  int
	Message string
}

func (e *RegistrationError) Error() string {
	if e.Message == "" {
		return "failed to register"
	}
	return e.Message
}
