// Package jwtutil reads access token payloads on the client side. The
// signature is not checked; the server does that on every request.
package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformed = errors.New("malformed token")

// Claims is the subset of the payload the client relies on.
type Claims struct {
	Exp int64 // unix seconds
	UID int
}

type payload struct {
	jwt.RegisteredClaims
	UID int `json:"uid"`
}

var parser = jwt.NewParser()

// Decode extracts {exp, uid} without verifying the token.
func Decode(token string) (Claims, error) {
	var p payload
	if _, _, err := parser.ParseUnverified(token, &p); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if p.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: missing exp", ErrMalformed)
	}
	if p.UID <= 0 {
		return Claims{}, fmt.Errorf("%w: missing uid", ErrMalformed)
	}
	return Claims{Exp: p.ExpiresAt.Unix(), UID: p.UID}, nil
}

// IsExpired reports whether exp lies before now, sub-second part included.
func IsExpired(c Claims, now time.Time) bool {
	return time.Unix(c.Exp, 0).Before(now)
}
