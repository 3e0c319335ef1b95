package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"socialfeed"
)

const (
	feedPath         = "/ws/feed"
	feedMessagePosts = "posts"
	feedMessageError = "error"
)

// FeedUpdate is one push from the live feed. Err is set on the final
// update when the stream ends abnormally.
type FeedUpdate struct {
	Posts []socialfeed.Post
	Err   error
}

type feedMessage struct {
	Type  string            `json:"type"`
	Data  []socialfeed.Post `json:"data"`
	Error string            `json:"error"`
}

// WatchFeed streams new posts from the signed-in user's feed. The server
// polls every interval; zero uses the server default. The channel closes
// when ctx is done or the connection ends.
func (c *Client) WatchFeed(ctx context.Context, interval time.Duration) (<-chan FeedUpdate, error) {
	ok, err := c.IsAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
	}

	target, err := c.feedURL(interval)
	if err != nil {
		return nil, err
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.session.Token())

	dialer := websocket.Dialer{HandshakeTimeout: c.http.Timeout}
	conn, resp, err := dialer.DialContext(ctx, target, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			c.Logout(ctx)
			return nil, &APIError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
		}
		return nil, fmt.Errorf("failed to fetch data: %w", err)
	}

	out := make(chan FeedUpdate)
	go c.readFeed(ctx, conn, out)
	return out, nil
}

func (c *Client) readFeed(ctx context.Context, conn *websocket.Conn, out chan<- FeedUpdate) {
	defer close(out)

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				c.send(ctx, out, FeedUpdate{Err: fmt.Errorf("feed connection closed: %w", err)})
			}
			return
		}

		var msg feedMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Warnw("feed message decode failed", "error", err)
			continue
		}
		switch msg.Type {
		case feedMessagePosts:
			if !c.send(ctx, out, FeedUpdate{Posts: msg.Data}) {
				return
			}
		case feedMessageError:
			c.send(ctx, out, FeedUpdate{Err: errors.New(msg.Error)})
			return
		}
	}
}

func (c *Client) send(ctx context.Context, out chan<- FeedUpdate, u FeedUpdate) bool {
	select {
	case out <- u:
		return true
	case <-ctx.Done():
		return false
	}
}

// feedURL turns the http(s) base URL into the ws(s) feed endpoint.
func (c *Client) feedURL(interval time.Duration) (string, error) {
	u, err := url.Parse(c.url(feedPath))
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	if interval > 0 {
		u.RawQuery = "interval=" + url.QueryEscape(interval.String())
	}
	return u.String(), nil
}
