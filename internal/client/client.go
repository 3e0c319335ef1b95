// Package client talks to the socialfeed API on behalf of a signed-in user.
package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"socialfeed/internal/client/localstore"
	"socialfeed/internal/client/session"
	"socialfeed/internal/logger"
)

const (
	defaultTimeout = 15 * time.Second
	loginPath      = "/login"
)

// Navigator moves the front end to another view, e.g. "/login" on logout.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
	store   localstore.Store
	nav     Navigator
	log     *logger.Logger
	now     func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.nav = n }
}

// WithLogger sets the client logger; nil keeps the default no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func WithSession(s *session.Store) Option {
	return func(c *Client) { c.session = s }
}

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, store localstore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		session: session.New(),
		store:   store,
		nav:     NavigatorFunc(func(string) {}),
		log:     logger.Nop(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Session exposes the signed-in user's state.
func (c *Client) Session() *session.Store {
	return c.session
}

// SortPreference returns the stored profile post ordering, "" when unset.
func (c *Client) SortPreference(ctx context.Context) (string, error) {
	v, _, err := c.store.Get(ctx, localstore.KeyPostsSort)
	return v, err
}

func (c *Client) SetSortPreference(ctx context.Context, s string) error {
	return c.store.Set(ctx, localstore.KeyPostsSort, s)
}
