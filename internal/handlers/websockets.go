package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"socialfeed"
	"socialfeed/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	minInterval      = 100 * time.Millisecond
	maxInterval      = time.Minute
	feedPushLimit    = 50
	wsTypePosts      = "posts"
	wsTypeError      = "error"
	maxIntervalMilli = 60_000
)

// wsEnvelope is the frame pushed to feed subscribers.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{CheckOrigin: h.checkOrigin}
}

// checkOrigin applies the CORS allow-list to browser handshakes. Requests
// without an Origin header come from non-browser clients and pass.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.opts.CORSOrigins) == 0 {
		return true
	}
	for _, allowed := range h.opts.CORSOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// @Summary      Live feed
// @Description  Upgrades to a websocket and pushes {"type":"posts","data":[...]} with new posts of followed users.
// @Tags         posts
// @Param        interval     query  string  false  "poll interval, e.g. 5s"
// @Param        interval_ms  query  int     false  "poll interval in ms"
// @Router       /api/ws/feed [get]
// @Security     BearerAuth
func (h *Handler) wsFeed(c *gin.Context) {
	interval := h.parseInterval(c)
	uid := currentUserID(c)

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	lastID, err := h.sendLatest(ctx, conn, uid)
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "uid", uid, "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "uid", uid, "err", err)
				}
				return
			}
		case <-ticker.C:
			next, err := h.sendSince(ctx, conn, uid, lastID)
			if err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "uid", uid, "err", err)
				}
				return
			}
			lastID = next
		}
	}
}

// parseInterval reads ?interval=5s or ?interval_ms=5000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= minInterval && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v <= maxIntervalMilli {
			if d := time.Duration(v) * time.Millisecond; d >= minInterval {
				return d
			}
		}
	}
	return defaultInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendLatest pushes the newest page of the feed and returns the highest id sent.
func (h *Handler) sendLatest(ctx context.Context, conn *websocket.Conn, uid int) (int, error) {
	posts, err := h.services.Posts.Feed(ctx, uid, service.PageQuery{Size: feedPushLimit})
	if err != nil {
		return 0, h.writeWSError(conn, "ws_feed_failed", err)
	}
	lastID := 0
	if len(posts) > 0 {
		lastID = posts[0].ID
	}
	return lastID, h.writeWS(conn, wsEnvelope{Type: wsTypePosts, Data: nonNil(posts)})
}

// sendSince pushes posts newer than lastID, if any.
func (h *Handler) sendSince(ctx context.Context, conn *websocket.Conn, uid, lastID int) (int, error) {
	posts, err := h.services.Posts.FeedSince(ctx, uid, lastID, feedPushLimit)
	if err != nil {
		return lastID, h.writeWSError(conn, "ws_feed_failed", err)
	}
	if len(posts) == 0 {
		return lastID, nil
	}
	return maxPostID(posts, lastID), h.writeWS(conn, wsEnvelope{Type: wsTypePosts, Data: posts})
}

func (h *Handler) writeWS(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}

// writeWSError reports a failed lookup to the peer and returns the lookup error.
func (h *Handler) writeWSError(conn *websocket.Conn, logKey string, err error) error {
	if h.log != nil {
		h.log.Errorw(logKey, "err", err)
	}
	_ = h.writeWS(conn, wsEnvelope{Type: wsTypeError, Error: errInternal})
	return err
}

func maxPostID(posts []socialfeed.Post, floor int) int {
	for _, p := range posts {
		if p.ID > floor {
			floor = p.ID
		}
	}
	return floor
}
