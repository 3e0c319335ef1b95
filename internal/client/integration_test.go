package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"socialfeed"
	"socialfeed/internal/client/localstore"
	"socialfeed/internal/handlers"
	"socialfeed/internal/imagestore"
	"socialfeed/internal/logger"
	"socialfeed/internal/repository"
	"socialfeed/internal/repository/db"
	"socialfeed/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAPIServer runs the real router over an in-memory database.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conn, err := db.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	images, err := imagestore.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	svc := service.NewService(repository.NewRepository(conn), images, service.AuthOptions{Secret: "it", TokenTTL: time.Hour})

	srv := httptest.NewServer(handlers.NewHandler(svc, logger.Nop(), handlers.Options{}).InitRoutes())
	t.Cleanup(srv.Close)
	return srv
}

func registeredClient(t *testing.T, srv *httptest.Server, username string) *Client {
	t.Helper()
	c := New(srv.URL+"/api", localstore.NewMemoryStore())
	require.NoError(t, c.Register(context.Background(), username, "password1", username+"@example.com"))
	return c
}

func TestLikeThenCheckLike_RealServer(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()
	alice := registeredClient(t, srv, "alice")
	uid := alice.Session().Snapshot().UID
	require.NotZero(t, uid)

	pid, err := alice.NewPost(ctx, uid, NewPost{Title: "first", Content: "hello world"})
	require.NoError(t, err)

	require.NoError(t, alice.LikePost(ctx, uid, pid))
	st, err := alice.CheckLike(ctx, uid, pid)
	require.NoError(t, err)
	assert.True(t, st.IsLiked)
	require.NotNil(t, st.ID)

	post, err := alice.FetchPost(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 1, post.LikeCount)

	require.NoError(t, alice.UnlikePost(ctx, uid, pid))
	st, err = alice.CheckLike(ctx, uid, pid)
	require.NoError(t, err)
	assert.False(t, st.IsLiked)
}

func TestSocialFlow_RealServer(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()
	alice := registeredClient(t, srv, "alice")
	bob := registeredClient(t, srv, "bob")
	aliceID := alice.Session().Snapshot().UID
	bobID := bob.Session().Snapshot().UID

	require.NoError(t, alice.FollowUser(ctx, aliceID, bobID))
	fs, err := alice.CheckFollow(ctx, aliceID, bobID)
	require.NoError(t, err)
	assert.True(t, fs.IsFollowing)

	following, err := alice.GetFollowing(ctx, aliceID, nil)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)

	pid, err := bob.NewPost(ctx, bobID, NewPost{Title: "bob says", Content: "hi alice"})
	require.NoError(t, err)

	feed, err := alice.FetchUserFeedPosts(ctx, aliceID, 10, nil)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, pid, feed[0].ID)

	cm, err := alice.AddComment(ctx, aliceID, pid, "nice post")
	require.NoError(t, err)
	comments, err := bob.FetchComments(ctx, pid, 10, nil)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, cm.ID, comments[0].ID)

	query := "bo"
	users, err := alice.FetchUsers(ctx, 10, nil, &query)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, bobID, users[0].ID)

	// alice cannot delete bob's post through her own uid
	err = alice.DeletePost(ctx, aliceID, pid)
	assert.True(t, isAPIStatus(err, 404))

	require.NoError(t, alice.UnfollowUser(ctx, aliceID, bobID))
	feed, err = alice.FetchUserFeedPosts(ctx, aliceID, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestCommentsPaging_RealServer(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()
	alice := registeredClient(t, srv, "alice")
	uid := alice.Session().Snapshot().UID

	pid, err := alice.NewPost(ctx, uid, NewPost{Title: "thread", Content: "talk here"})
	require.NoError(t, err)
	for _, text := range []string{"first", "second", "third"} {
		_, err := alice.AddComment(ctx, uid, pid, text)
		require.NoError(t, err)
	}

	page1, err := alice.FetchComments(ctx, pid, 2, nil)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, []string{"third", "second"}, commentTexts(page1))

	last := page1[len(page1)-1].ID
	page2, err := alice.FetchComments(ctx, pid, 2, &last)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, []string{"first"}, commentTexts(page2))

	page3, err := alice.FetchComments(ctx, pid, 2, &page2[0].ID)
	require.NoError(t, err)
	assert.Empty(t, page3)
}

func TestLikesPaging_RealServer(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()
	alice := registeredClient(t, srv, "alice")
	aliceID := alice.Session().Snapshot().UID

	pid, err := alice.NewPost(ctx, aliceID, NewPost{Title: "likeable", Content: "please like"})
	require.NoError(t, err)

	var likers []int
	for _, c := range []*Client{alice, registeredClient(t, srv, "bob"), registeredClient(t, srv, "carol")} {
		uid := c.Session().Snapshot().UID
		require.NoError(t, c.LikePost(ctx, uid, pid))
		likers = append(likers, uid)
	}

	var page1 []socialfeed.Like
	require.NoError(t, alice.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d/likes?page_size=2", pid), nil, &page1))
	require.Len(t, page1, 2)
	assert.Equal(t, []int{likers[2], likers[1]}, likeUIDs(page1))
	assert.Greater(t, page1[0].ID, page1[1].ID)

	var page2 []socialfeed.Like
	path := fmt.Sprintf("/posts/%d/likes?page_size=2&last_id=%d", pid, page1[1].ID)
	require.NoError(t, alice.do(ctx, http.MethodGet, path, nil, &page2))
	assert.Equal(t, []int{likers[0]}, likeUIDs(page2))

	post, err := alice.FetchPost(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, 3, post.LikeCount)
}

func commentTexts(cs []socialfeed.Comment) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Content)
	}
	return out
}

func likeUIDs(ls []socialfeed.Like) []int {
	out := make([]int, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.UID)
	}
	return out
}

func TestLoginAndRestore_RealServer(t *testing.T) {
	srv := newAPIServer(t)
	ctx := context.Background()
	registeredClient(t, srv, "carol")

	store := localstore.NewMemoryStore()
	c := New(srv.URL+"/api", store)
	assert.ErrorIs(t, c.Login(ctx, "carol", "wrong-password"), ErrInvalidCredentials)
	require.NoError(t, c.Login(ctx, "carol", "password1"))

	restored := New(srv.URL+"/api", store)
	require.NoError(t, restored.AuthenticateByStorage(ctx))
	assert.Equal(t, "carol", restored.Session().Snapshot().Username)
}

func TestWatchFeed_RealServer(t *testing.T) {
	srv := newAPIServer(t)
	alice := registeredClient(t, srv, "alice")
	bob := registeredClient(t, srv, "bob")
	aliceID := alice.Session().Snapshot().UID
	bobID := bob.Session().Snapshot().UID

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, alice.FollowUser(ctx, aliceID, bobID))
	first, err := bob.NewPost(ctx, bobID, NewPost{Title: "one", Content: "first post"})
	require.NoError(t, err)

	updates, err := alice.WatchFeed(ctx, 100*time.Millisecond)
	require.NoError(t, err)

	u := <-updates
	require.NoError(t, u.Err)
	require.Len(t, u.Posts, 1)
	assert.Equal(t, first, u.Posts[0].ID)

	second, err := bob.NewPost(ctx, bobID, NewPost{Title: "two", Content: "second post"})
	require.NoError(t, err)

	u = <-updates
	require.NoError(t, u.Err)
	require.Len(t, u.Posts, 1)
	assert.Equal(t, second, u.Posts[0].ID)

	cancel()
	for range updates {
	}
}

func TestWatchFeed_RequiresSession(t *testing.T) {
	srv := newAPIServer(t)
	c := New(srv.URL+"/api", localstore.NewMemoryStore())
	_, err := c.WatchFeed(context.Background(), 0)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func isAPIStatus(err error, status int) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == status
}
