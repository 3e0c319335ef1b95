package handlers

import (
	"context"
	"net/http"
	"sync"

	"socialfeed"
	"socialfeed/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	token    socialfeed.Token
	loginErr error
	regErr   error
	authID   int
	authErr  error

	lastUsername  string
	lastPassword  string
	lastEmail     string
	lastAuthToken string
}

func (m *mockAuth) Register(_ context.Context, username, password, email string) (socialfeed.Token, error) {
	m.lastUsername, m.lastPassword, m.lastEmail = username, password, email
	return m.token, m.regErr
}

func (m *mockAuth) Login(_ context.Context, username, password string) (socialfeed.Token, error) {
	m.lastUsername, m.lastPassword = username, password
	return m.token, m.loginErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastAuthToken = token
	return m.authID, m.authErr
}

func (m *mockAuth) Authenticate(_ context.Context, token string) (int, error) {
	m.lastAuthToken = token
	return m.authID, m.authErr
}

type mockUsers struct {
	user    socialfeed.User
	list    []socialfeed.UserSummary
	update  socialfeed.UserUpdateResult
	picture string
	err     error

	lastUID    int
	lastQuery  service.UserQuery
	lastUpdate socialfeed.UserUpdate
	lastUpload service.Upload
	deleted    int
}

func (m *mockUsers) Get(_ context.Context, uid int) (socialfeed.User, error) {
	m.lastUID = uid
	return m.user, m.err
}

func (m *mockUsers) List(_ context.Context, q service.UserQuery) ([]socialfeed.UserSummary, error) {
	m.lastQuery = q
	return m.list, m.err
}

func (m *mockUsers) Update(_ context.Context, uid int, u socialfeed.UserUpdate) (socialfeed.UserUpdateResult, error) {
	m.lastUID, m.lastUpdate = uid, u
	return m.update, m.err
}

func (m *mockUsers) UpdateProfilePicture(_ context.Context, uid int, up service.Upload) (string, error) {
	m.lastUID, m.lastUpload = uid, up
	return m.picture, m.err
}

func (m *mockUsers) UpdateBannerPicture(_ context.Context, uid int, up service.Upload) (string, error) {
	m.lastUID, m.lastUpload = uid, up
	return m.picture, m.err
}

func (m *mockUsers) Delete(_ context.Context, uid int) error {
	m.deleted = uid
	return m.err
}

type mockPosts struct {
	mu        sync.Mutex
	post      socialfeed.Post
	posts     []socialfeed.Post
	since     [][]socialfeed.Post // successive FeedSince answers
	createdID int
	err       error

	lastPostQuery service.PostQuery
	lastUserQuery service.UserPostQuery
	lastPage      service.PageQuery
	lastNew       service.NewPost
	lastUID       int
	lastPID       int
	lastAfter     int
}

func (m *mockPosts) Get(_ context.Context, pid int) (socialfeed.Post, error) {
	m.lastPID = pid
	return m.post, m.err
}

func (m *mockPosts) List(_ context.Context, q service.PostQuery) ([]socialfeed.Post, error) {
	m.lastPostQuery = q
	return m.posts, m.err
}

func (m *mockPosts) ListByUser(_ context.Context, uid int, q service.UserPostQuery) ([]socialfeed.Post, error) {
	m.lastUID, m.lastUserQuery = uid, q
	return m.posts, m.err
}

func (m *mockPosts) Feed(_ context.Context, uid int, q service.PageQuery) ([]socialfeed.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUID, m.lastPage = uid, q
	return m.posts, m.err
}

func (m *mockPosts) FeedSince(_ context.Context, uid, afterID, _ int) ([]socialfeed.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUID, m.lastAfter = uid, afterID
	if len(m.since) == 0 {
		return nil, m.err
	}
	next := m.since[0]
	m.since = m.since[1:]
	return next, m.err
}

func (m *mockPosts) Create(_ context.Context, uid int, p service.NewPost) (int, error) {
	m.lastUID, m.lastNew = uid, p
	return m.createdID, m.err
}

func (m *mockPosts) Delete(_ context.Context, uid, pid int) error {
	m.lastUID, m.lastPID = uid, pid
	return m.err
}

func (m *mockPosts) afterID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAfter
}

type mockLikes struct {
	status socialfeed.LikeStatus
	like   socialfeed.Like
	likes  []socialfeed.Like
	err    error

	lastUID  int
	lastPID  int
	lastPage service.PageQuery
}

func (m *mockLikes) Status(_ context.Context, uid, pid int) (socialfeed.LikeStatus, error) {
	m.lastUID, m.lastPID = uid, pid
	return m.status, m.err
}

func (m *mockLikes) Like(_ context.Context, uid, pid int) (socialfeed.Like, error) {
	m.lastUID, m.lastPID = uid, pid
	return m.like, m.err
}

func (m *mockLikes) Unlike(_ context.Context, uid, pid int) error {
	m.lastUID, m.lastPID = uid, pid
	return m.err
}

func (m *mockLikes) ListForPost(_ context.Context, pid int, q service.PageQuery) ([]socialfeed.Like, error) {
	m.lastPID, m.lastPage = pid, q
	return m.likes, m.err
}

type mockComments struct {
	comment  socialfeed.Comment
	comments []socialfeed.Comment
	err      error

	lastUID     int
	lastPID     int
	lastContent string
	lastPage    service.PageQuery
}

func (m *mockComments) Create(_ context.Context, uid, pid int, content string) (socialfeed.Comment, error) {
	m.lastUID, m.lastPID, m.lastContent = uid, pid, content
	return m.comment, m.err
}

func (m *mockComments) ListForPost(_ context.Context, pid int, q service.PageQuery) ([]socialfeed.Comment, error) {
	m.lastPID, m.lastPage = pid, q
	return m.comments, m.err
}

func (m *mockComments) ListByUserOnPost(_ context.Context, uid, pid int, q service.PageQuery) ([]socialfeed.Comment, error) {
	m.lastUID, m.lastPID, m.lastPage = uid, pid, q
	return m.comments, m.err
}

type mockFollows struct {
	status socialfeed.FollowStatus
	follow socialfeed.Follow
	users  []socialfeed.UserSummary
	err    error

	lastFollower int
	lastFollowed int
	lastPage     service.PageQuery
}

func (m *mockFollows) Status(_ context.Context, a, b int) (socialfeed.FollowStatus, error) {
	m.lastFollower, m.lastFollowed = a, b
	return m.status, m.err
}

func (m *mockFollows) Follow(_ context.Context, a, b int) (socialfeed.Follow, error) {
	m.lastFollower, m.lastFollowed = a, b
	return m.follow, m.err
}

func (m *mockFollows) Unfollow(_ context.Context, a, b int) error {
	m.lastFollower, m.lastFollowed = a, b
	return m.err
}

func (m *mockFollows) Following(_ context.Context, uid int, q service.PageQuery) ([]socialfeed.UserSummary, error) {
	m.lastFollower, m.lastPage = uid, q
	return m.users, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Options{})
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
