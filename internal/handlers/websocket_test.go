package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"socialfeed"
	"socialfeed/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil, Options{})

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", defaultInterval},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_small", "/ws?interval=10ms", defaultInterval},
		{"interval_too_large", "/ws?interval=2m", defaultInterval},
		{"interval_ms_too_large", "/ws?interval_ms=120000", defaultInterval},
		{"interval_invalid_string", "/ws?interval=bogus", defaultInterval},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", defaultInterval},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tc.u, nil)
			if got := h.parseInterval(c); got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialFeed(t *testing.T, s *service.Service) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(newTestRouter(s))
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/api/ws/feed"
	u.RawQuery = url.Values{"interval_ms": {"100"}}.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), authHeader("tok"))
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readPosts(t *testing.T, conn *websocket.Conn) []socialfeed.Post {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	if env.Type != wsTypePosts {
		t.Fatalf("bad envelope: %+v", env)
	}
	var posts []socialfeed.Post
	if err := json.Unmarshal(env.Data, &posts); err != nil {
		t.Fatalf("unmarshal posts: %v", err)
	}
	return posts
}

func TestWebSocket_FeedPushesNewPosts(t *testing.T) {
	f := newFixture(1)
	f.posts.posts = []socialfeed.Post{{ID: 12, UID: 2}, {ID: 10, UID: 3}}
	f.posts.since = [][]socialfeed.Post{nil, {{ID: 13, UID: 2}, {ID: 15, UID: 3}}}

	conn := dialFeed(t, f.svc)

	initial := readPosts(t, conn)
	if len(initial) != 2 || initial[0].ID != 12 {
		t.Fatalf("unexpected initial push %+v", initial)
	}

	next := readPosts(t, conn)
	if len(next) != 2 || next[1].ID != 15 {
		t.Fatalf("unexpected push %+v", next)
	}

	// the following poll starts after the highest pushed id
	deadline := time.Now().Add(2 * time.Second)
	for f.posts.afterID() != 15 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if got := f.posts.afterID(); got != 15 {
		t.Fatalf("expected poll after 15, got %d", got)
	}
}

func TestWebSocket_InitialFeedError_Closes(t *testing.T) {
	f := newFixture(1)
	f.posts.err = errors.New("boom")

	conn := dialFeed(t, f.svc)

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("expected error frame, got %v", err)
	}
	if env.Type != wsTypeError || env.Error != errInternal {
		t.Fatalf("unexpected frame %+v", env)
	}
	if err := conn.ReadJSON(&env); err == nil {
		t.Fatalf("expected read error (closed), got %+v", env)
	}
}

func TestWebSocket_RequiresAuth(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&service.Service{Authorization: &mockAuth{}}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/api/ws/feed"
	_, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err == nil {
		t.Fatal("expected handshake failure without token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
}

func TestCheckOrigin(t *testing.T) {
	cases := []struct {
		name    string
		origins []string
		origin  string
		want    bool
	}{
		{"no_allow_list", nil, "https://evil.example", true},
		{"no_origin_header", []string{"https://app.example"}, "", true},
		{"listed", []string{"https://app.example"}, "https://app.example", true},
		{"listed_case_insensitive", []string{"https://App.example"}, "https://app.example", true},
		{"wildcard", []string{"*"}, "https://any.example", true},
		{"not_listed", []string{"https://app.example"}, "https://evil.example", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&service.Service{}, nil, Options{CORSOrigins: tc.origins})
			r := httptest.NewRequest(http.MethodGet, "/api/ws/feed", nil)
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}
			if got := h.checkOrigin(r); got != tc.want {
				t.Fatalf("checkOrigin(%q) with %v = %v, want %v", tc.origin, tc.origins, got, tc.want)
			}
		})
	}
}

func TestWebSocket_AllowedOriginHandshake(t *testing.T) {
	f := newFixture(1)
	h := NewHandler(f.svc, nil, Options{CORSOrigins: []string{"https://app.example"}})
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(h.InitRoutes())
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/api/ws/feed"

	header := authHeader("tok")
	header.Set("Origin", "https://app.example")
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		t.Fatalf("dial with allowed origin: %v", err)
	}
	defer conn.Close()
	if posts := readPosts(t, conn); len(posts) != 0 {
		t.Fatalf("expected empty initial push, got %+v", posts)
	}

	header.Set("Origin", "https://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err == nil {
		t.Fatal("expected handshake failure for a foreign origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}
}
