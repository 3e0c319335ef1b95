package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"socialfeed"
	"socialfeed/internal/client/jwtutil"
	"socialfeed/internal/client/localstore"
	"socialfeed/internal/client/validation"
)

// storedSession is the persisted form of a sign-in.
type storedSession struct {
	Token string `json:"token"`
	UID   int    `json:"uid"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// Login signs in and loads the user's profile into the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	resp, err := c.postJSON(ctx, "/auth/login", credentials{Username: username, Password: password})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidCredentials
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &ServerError{Status: resp.StatusCode}
	}

	var tok socialfeed.Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	return c.AuthenticateByToken(ctx, tok.AccessToken)
}

// Register creates an account and signs in. Input is checked locally
// before anything is sent.
func (c *Client) Register(ctx context.Context, username, password, email string) error {
	if err := validation.Registration(username, password, email); err != nil {
		return err
	}

	resp, err := c.postJSON(ctx, "/auth/register", credentials{Username: username, Password: password, Email: email})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RegistrationError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var tok socialfeed.Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("failed to decode register response: %w", err)
	}
	return c.AuthenticateByToken(ctx, tok.AccessToken)
}

// AuthenticateByToken validates token locally, loads the owner's profile
// and persists the session.
func (c *Client) AuthenticateByToken(ctx context.Context, token string) error {
	claims, err := jwtutil.Decode(token)
	if err != nil {
		return err
	}
	if jwtutil.IsExpired(claims, c.now()) {
		c.Logout(ctx)
		return ErrTokenExpired
	}

	u, err := c.FetchUserInfo(ctx, claims.UID)
	if err != nil {
		c.forgetStoredSession(ctx)
		return err
	}

	raw, err := json.Marshal(storedSession{Token: token, UID: claims.UID})
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, localstore.KeySession, string(raw)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	c.session.SetAuthenticated(token, claims.UID, u)
	c.log.Debugw("authenticated", "uid", claims.UID, "username", u.Username)
	return nil
}

// AuthenticateByStorage restores a session saved by an earlier sign-in.
func (c *Client) AuthenticateByStorage(ctx context.Context) error {
	raw, ok, err := c.store.Get(ctx, localstore.KeySession)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoStoredSession
	}

	var saved storedSession
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		c.forgetStoredSession(ctx)
		return fmt.Errorf("failed to read stored session: %w", err)
	}
	if err := c.AuthenticateByToken(ctx, saved.Token); err != nil {
		c.forgetStoredSession(ctx)
		return err
	}
	return nil
}

// IsAuthenticated reports whether the session holds a live token. An
// expired token signs the user out and yields ErrTokenExpired.
func (c *Client) IsAuthenticated(ctx context.Context) (bool, error) {
	token := c.session.Token()
	if token == "" {
		return false, nil
	}
	claims, err := jwtutil.Decode(token)
	if err != nil || jwtutil.IsExpired(claims, c.now()) {
		c.Logout(ctx)
		return false, ErrTokenExpired
	}
	return true, nil
}

// Logout clears persisted and in-memory state and returns to the login view.
func (c *Client) Logout(ctx context.Context) {
	for _, key := range []string{localstore.KeySession, localstore.KeyPostsSort} {
		if err := c.store.Remove(ctx, key); err != nil {
			c.log.Warnw("local storage remove failed", "key", key, "error", err)
		}
	}
	c.session.Reset()
	c.nav.Navigate(loginPath)
}

func (c *Client) forgetStoredSession(ctx context.Context) {
	if err := c.store.Remove(ctx, localstore.KeySession); err != nil {
		c.log.Warnw("local storage remove failed", "key", localstore.KeySession, "error", err)
	}
}

// postJSON sends an unauthenticated JSON POST for the auth endpoints.
func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to post data: %w", err)
	}
	return resp, nil
}

// IsValidation reports whether err came from local input checks.
func IsValidation(err error) bool {
	var v *validation.ValidationError
	return errors.As(err, &v)
}
