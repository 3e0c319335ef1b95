package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"socialfeed"
	"socialfeed/internal/client/localstore"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type navRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (n *navRecorder) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *navRecorder) calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type fixture struct {
	client *Client
	store  *localstore.MemoryStore
	nav    *navRecorder
	srv    *httptest.Server
	hits   atomic.Int32
}

// newFixture starts h behind a counting test server and points a client at it.
func newFixture(t *testing.T, h http.Handler) *fixture {
	t.Helper()
	f := &fixture{store: localstore.NewMemoryStore(), nav: &navRecorder{}}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	f.client = New(f.srv.URL+"/api", f.store,
		WithNavigator(f.nav),
		WithClock(func() time.Time { return testNow }),
	)
	return f
}

func makeToken(t *testing.T, uid int, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": uid,
		"exp": exp.Unix(),
	}).SignedString([]byte("test"))
	require.NoError(t, err)
	return tok
}

// signIn puts a live session for uid into the client without network calls.
func (f *fixture) signIn(t *testing.T, uid int) string {
	t.Helper()
	tok := makeToken(t, uid, testNow.Add(time.Hour))
	f.client.Session().SetAuthenticated(tok, uid, socialfeed.User{ID: uid, Username: "alice"})
	raw, err := json.Marshal(storedSession{Token: tok, UID: uid})
	require.NoError(t, err)
	require.NoError(t, f.store.Set(context.Background(), localstore.KeySession, string(raw)))
	return tok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestQueryStrings(t *testing.T) {
	var got string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RequestURI()
		writeJSON(w, http.StatusOK, []any{})
	}))
	ctx := context.Background()
	cats, spaced := "cats", "a b&c"
	three, four, nine := 3, 4, 9
	yes := true

	tests := []struct {
		name string
		call func() error
		want string
	}{
		{"posts query", func() error { _, err := f.client.FetchPosts(ctx, 10, nil, &cats, nil); return err }, "/api/posts?page_size=10&query=cats"},
		{"posts all", func() error { _, err := f.client.FetchPosts(ctx, 10, &three, &cats, &nine); return err }, "/api/posts?page_size=10&last_id=3&query=cats&liked_by=9"},
		{"users escaped", func() error { _, err := f.client.FetchUsers(ctx, 5, &four, &spaced); return err }, "/api/users?page_size=5&last_id=4&query=a+b%26c"},
		{"users bare", func() error { _, err := f.client.FetchUsers(ctx, 5, nil, nil); return err }, "/api/users?page_size=5"},
		{"user posts", func() error { _, err := f.client.FetchUserPosts(ctx, 2, 10, &three, &yes, true); return err }, "/api/users/2/posts?page_size=10&last_id=3&has_image=true&descending=true"},
		{"user posts bare", func() error { _, err := f.client.FetchUserPosts(ctx, 2, 10, nil, nil, false); return err }, "/api/users/2/posts?page_size=10&descending=false"},
		{"feed", func() error { _, err := f.client.FetchUserFeedPosts(ctx, 1, 20, &nine); return err }, "/api/users/1/posts/feed?page_size=20&last_id=9"},
		{"following", func() error { _, err := f.client.GetFollowing(ctx, 1, &four); return err }, "/api/users/1/follows?last_follow_id=4"},
		{"following bare", func() error { _, err := f.client.GetFollowing(ctx, 1, nil); return err }, "/api/users/1/follows"},
		{"comments", func() error { _, err := f.client.FetchComments(ctx, 7, 10, nil); return err }, "/api/posts/7/comments?page_size=10"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDo_AuthorizationHeader(t *testing.T) {
	var header string
	var present bool
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		header = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, socialfeed.Post{ID: 1})
	}))
	ctx := context.Background()

	_, err := f.client.FetchPost(ctx, 1)
	require.NoError(t, err)
	assert.False(t, present, "no token means no header")

	tok := f.signIn(t, 1)
	_, err = f.client.FetchPost(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+tok, header)
}

func TestDo_UnauthorizedLogsOutOnce(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
	}))
	ctx := context.Background()
	f.signIn(t, 1)
	require.NoError(t, f.client.SetSortPreference(ctx, "asc"))

	err := f.client.LikePost(ctx, 1, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	assert.Equal(t, []string{"/login"}, f.nav.calls())
	assert.False(t, f.client.Session().Snapshot().IsLoggedIn)
	_, ok, _ := f.store.Get(ctx, localstore.KeySession)
	assert.False(t, ok)
	_, ok, _ = f.store.Get(ctx, localstore.KeyPostsSort)
	assert.False(t, ok)
}

func TestDo_ErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"json error field", http.StatusNotFound, `{"error":"post not found"}`, "post not found"},
		{"plain text", http.StatusInternalServerError, "boom", "boom"},
		{"empty", http.StatusBadGateway, "", badResponse},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			_, err := f.client.FetchPost(context.Background(), 1)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.False(t, errors.Is(err, ErrUnauthorized))
			assert.Empty(t, f.nav.calls())
		})
	}
}

func TestDo_NoContent(t *testing.T) {
	var method string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	f.signIn(t, 1)
	require.NoError(t, f.client.DeletePost(context.Background(), 1, 3))
	assert.Equal(t, http.MethodDelete, method)
}

func TestDo_TransportError(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	f.srv.Close()

	_, err := f.client.FetchPost(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch data:")
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))

	err = f.client.FollowUser(context.Background(), 1, 2)
	assert.Contains(t, err.Error(), "failed to post data:")
}

func TestDo_ExpiredTokenIsCheckedBeforeSending(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	}))
	expired := makeToken(t, 1, testNow.Add(-time.Minute))
	f.client.Session().SetAuthenticated(expired, 1, socialfeed.User{ID: 1})

	_, err := f.client.FetchPosts(context.Background(), 10, nil, nil, nil)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, int32(0), f.hits.Load())
	assert.Equal(t, []string{"/login"}, f.nav.calls())
	assert.Empty(t, f.client.Session().Token())
}

func TestIsAuthenticated(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	ctx := context.Background()

	ok, err := f.client.IsAuthenticated(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)

	f.signIn(t, 1)
	ok, err = f.client.IsAuthenticated(ctx)
	assert.NoError(t, err)
	assert.True(t, ok)

	f.client.Session().SetAuthenticated(makeToken(t, 1, testNow.Add(-time.Second)), 1, socialfeed.User{})
	ok, err = f.client.IsAuthenticated(ctx)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.False(t, ok)
	assert.Equal(t, []string{"/login"}, f.nav.calls())
}

func TestFetchUserInfo_Cache(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/4", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"id": 4, "username": "dora"})
	}))
	ctx := context.Background()

	u, err := f.client.FetchUserInfo(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "dora", u.Username)
	assert.Equal(t, int32(1), f.hits.Load())

	_, err = f.client.FetchUserInfo(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.hits.Load(), "served from cache")

	f.client.FlushUserCache()
	_, err = f.client.FetchUserInfo(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.hits.Load())
}

func TestNewPost_Multipart(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/1/posts", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "hello", r.FormValue("title"))
		assert.Equal(t, "world", r.FormValue("content"))
		_, fh, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, "cat.png", fh.Filename)
		assert.Equal(t, "image/png", fh.Header.Get("Content-Type"))
		writeJSON(w, http.StatusCreated, map[string]int{"id": 5})
	}))
	f.signIn(t, 1)

	id, err := f.client.NewPost(context.Background(), 1, NewPost{
		Title:   "hello",
		Content: "world",
		Image:   &Image{Filename: "cat.png", Data: png},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, id)
}

func TestLocalValidationSkipsNetwork(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	f.signIn(t, 1)
	ctx := context.Background()

	_, err := f.client.NewPost(ctx, 1, NewPost{Title: "", Content: "x"})
	assert.True(t, IsValidation(err))

	_, err = f.client.AddComment(ctx, 1, 2, "   ")
	assert.True(t, IsValidation(err))

	assert.Equal(t, int32(0), f.hits.Load())
}

func TestUpdateUserInfo_SyncsSession(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var upd socialfeed.UserUpdate
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&upd))
		writeJSON(w, http.StatusOK, socialfeed.UserUpdateResult{Username: upd.Username, AboutMe: upd.AboutMe})
	}))
	f.signIn(t, 1)
	f.client.Session().CacheUser(socialfeed.User{ID: 1, Username: "alice"})

	res, err := f.client.UpdateUserInfo(context.Background(), 1, socialfeed.UserUpdate{Username: "alicia", AboutMe: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "alicia", res.Username)

	st := f.client.Session().Snapshot()
	assert.Equal(t, "alicia", st.Username)
	assert.Equal(t, "hi", st.AboutMe)
	_, cached := f.client.Session().CachedUser(1)
	assert.False(t, cached)
}

func TestUpdateProfilePicture(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/users/1/profile-picture", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"profile_picture": "new.png"})
	}))
	f.signIn(t, 1)

	name, err := f.client.UpdateProfilePicture(context.Background(), 1, Image{Filename: "a.png", Data: []byte("\x89PNG\r\n\x1a\n")})
	require.NoError(t, err)
	assert.Equal(t, "new.png", name)
	assert.Equal(t, "new.png", f.client.Session().Snapshot().ProfilePicture)
}

func TestDeleteAccount_LogsOut(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	f.signIn(t, 1)

	require.NoError(t, f.client.DeleteAccount(context.Background(), 1))
	assert.False(t, f.client.Session().Snapshot().IsLoggedIn)
	assert.Equal(t, []string{"/login"}, f.nav.calls())
}
