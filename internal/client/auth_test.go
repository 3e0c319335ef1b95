package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"socialfeed"
	"socialfeed/internal/client/jwtutil"
	"socialfeed/internal/client/localstore"
	"socialfeed/internal/client/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authServer answers login for alice (uid 7) and serves her profile.
func authServer(token string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in credentials
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Username != "alice" || in.Password != "password1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid username or password"})
			return
		}
		writeJSON(w, http.StatusOK, socialfeed.Token{AccessToken: token})
	})
	mux.HandleFunc("/api/users/7", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "username": "alice", "about_me": "hello"})
	})
	return mux
}

func TestLogin(t *testing.T) {
	tok := makeToken(t, 7, testNow.Add(time.Hour))
	f := newFixture(t, authServer(tok))
	ctx := context.Background()

	require.NoError(t, f.client.Login(ctx, "alice", "password1"))

	st := f.client.Session().Snapshot()
	assert.Equal(t, 7, st.UID)
	assert.Equal(t, "alice", st.Username)
	assert.Equal(t, "hello", st.AboutMe)
	assert.True(t, st.IsLoggedIn)
	assert.Equal(t, tok, st.Token)

	raw, ok, err := f.store.Get(ctx, localstore.KeySession)
	require.NoError(t, err)
	require.True(t, ok)
	var saved storedSession
	require.NoError(t, json.Unmarshal([]byte(raw), &saved))
	assert.Equal(t, storedSession{Token: tok, UID: 7}, saved)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t, authServer("unused"))
	err := f.client.Login(context.Background(), "alice", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, f.client.Session().Snapshot().IsLoggedIn)

	f = newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	err = f.client.Login(context.Background(), "alice", "password1")
	var srvErr *ServerError
	require.True(t, errors.As(err, &srvErr))
	assert.Equal(t, http.StatusServiceUnavailable, srvErr.Status)
}

func TestAuthenticateByToken_Expired(t *testing.T) {
	f := newFixture(t, authServer(""))
	expired := makeToken(t, 7, testNow.Add(-time.Hour))

	err := f.client.AuthenticateByToken(context.Background(), expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, int32(0), f.hits.Load())
	assert.Equal(t, []string{"/login"}, f.nav.calls())
}

func TestAuthenticateByToken_Malformed(t *testing.T) {
	f := newFixture(t, authServer(""))
	err := f.client.AuthenticateByToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, jwtutil.ErrMalformed)
	assert.Equal(t, int32(0), f.hits.Load())
}

func TestAuthenticateByToken_FetchFailureForgetsSession(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
	}))
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, localstore.KeySession, `{"token":"old","uid":3}`))

	err := f.client.AuthenticateByToken(ctx, makeToken(t, 3, testNow.Add(time.Hour)))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	_, ok, _ := f.store.Get(ctx, localstore.KeySession)
	assert.False(t, ok)
	assert.False(t, f.client.Session().Snapshot().IsLoggedIn)
}

func TestAuthenticateByStorage(t *testing.T) {
	tok := makeToken(t, 7, testNow.Add(time.Hour))
	ctx := context.Background()

	t.Run("absent", func(t *testing.T) {
		f := newFixture(t, authServer(tok))
		assert.ErrorIs(t, f.client.AuthenticateByStorage(ctx), ErrNoStoredSession)
	})

	t.Run("restores", func(t *testing.T) {
		f := newFixture(t, authServer(tok))
		require.NoError(t, f.store.Set(ctx, localstore.KeySession, `{"token":"`+tok+`","uid":7}`))
		require.NoError(t, f.client.AuthenticateByStorage(ctx))
		assert.Equal(t, 7, f.client.Session().Snapshot().UID)
	})

	t.Run("expired token is removed", func(t *testing.T) {
		f := newFixture(t, authServer(tok))
		old := makeToken(t, 7, testNow.Add(-time.Hour))
		require.NoError(t, f.store.Set(ctx, localstore.KeySession, `{"token":"`+old+`","uid":7}`))
		assert.ErrorIs(t, f.client.AuthenticateByStorage(ctx), ErrTokenExpired)
		_, ok, _ := f.store.Get(ctx, localstore.KeySession)
		assert.False(t, ok)
	})

	t.Run("garbage is removed", func(t *testing.T) {
		f := newFixture(t, authServer(tok))
		require.NoError(t, f.store.Set(ctx, localstore.KeySession, "{"))
		assert.Error(t, f.client.AuthenticateByStorage(ctx))
		_, ok, _ := f.store.Get(ctx, localstore.KeySession)
		assert.False(t, ok)
	})
}

func TestRegister_ShortPasswordMakesNoRequest(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())

	err := f.client.Register(context.Background(), "alice", "12345", "alice@example.com")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, int32(0), f.hits.Load())
}

func TestRegister_ServerRejects(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "username already taken"})
	}))

	err := f.client.Register(context.Background(), "alice", "password1", "alice@example.com")
	var regErr *RegistrationError
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, http.StatusConflict, regErr.Status)
	assert.Equal(t, "username already taken", regErr.Error())
}

func TestLogout(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	ctx := context.Background()
	f.signIn(t, 1)
	require.NoError(t, f.client.SetSortPreference(ctx, "desc"))

	f.client.Logout(ctx)

	for _, key := range []string{localstore.KeySession, localstore.KeyPostsSort} {
		_, ok, err := f.store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
	assert.Equal(t, session.State{}, f.client.Session().Snapshot())
	assert.Equal(t, []string{"/login"}, f.nav.calls())
}

func TestSortPreference(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	ctx := context.Background()

	s, err := f.client.SortPreference(ctx)
	require.NoError(t, err)
	assert.Empty(t, s)

	require.NoError(t, f.client.SetSortPreference(ctx, "asc"))
	s, err = f.client.SortPreference(ctx)
	require.NoError(t, err)
	assert.Equal(t, "asc", s)
}
