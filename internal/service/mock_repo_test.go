package service

import (
	"bytes"
	"context"
	"io"

	"socialfeed"
	"socialfeed/internal/imagestore"
	"socialfeed/internal/repository"
)

// Lightweight func-field mocks for the repository interfaces.

type mockUsers struct {
	CreateFn        func(u socialfeed.User) (int, error)
	GetByIDFn       func(id int) (*socialfeed.User, error)
	GetByUsernameFn func(username string) (*socialfeed.User, error)
	ListFn          func(f repository.UserFilter) ([]socialfeed.UserSummary, error)
	UpdateFn        func(u socialfeed.User) error
	DeleteFn        func(id int) error

	created []socialfeed.User
	updated []socialfeed.User
}

func (m *mockUsers) Create(_ context.Context, u socialfeed.User) (int, error) {
	m.created = append(m.created, u)
	return m.CreateFn(u)
}

func (m *mockUsers) GetByID(_ context.Context, id int) (*socialfeed.User, error) {
	return m.GetByIDFn(id)
}

func (m *mockUsers) GetByUsername(_ context.Context, username string) (*socialfeed.User, error) {
	return m.GetByUsernameFn(username)
}

func (m *mockUsers) List(_ context.Context, f repository.UserFilter) ([]socialfeed.UserSummary, error) {
	return m.ListFn(f)
}

func (m *mockUsers) Update(_ context.Context, u socialfeed.User) error {
	m.updated = append(m.updated, u)
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(u)
}

func (m *mockUsers) Delete(_ context.Context, id int) error {
	return m.DeleteFn(id)
}

type mockPosts struct {
	CreateFn  func(p socialfeed.Post) (int, error)
	GetByIDFn func(id int) (*socialfeed.Post, error)
	ListFn    func(f repository.PostFilter) ([]socialfeed.Post, error)
	DeleteFn  func(id int) error
}

func (m *mockPosts) Create(_ context.Context, p socialfeed.Post) (int, error) {
	return m.CreateFn(p)
}

func (m *mockPosts) GetByID(_ context.Context, id int) (*socialfeed.Post, error) {
	return m.GetByIDFn(id)
}

func (m *mockPosts) List(_ context.Context, f repository.PostFilter) ([]socialfeed.Post, error) {
	return m.ListFn(f)
}

func (m *mockPosts) Delete(_ context.Context, id int) error {
	return m.DeleteFn(id)
}

type mockLikes struct {
	GetFn    func(uid, pid int) (*socialfeed.Like, error)
	CreateFn func(uid, pid int) (socialfeed.Like, error)
	DeleteFn func(id int) error
	ListFn   func(pid int, p repository.Page) ([]socialfeed.Like, error)
}

func (m *mockLikes) Get(_ context.Context, uid, pid int) (*socialfeed.Like, error) {
	return m.GetFn(uid, pid)
}

func (m *mockLikes) Create(_ context.Context, uid, pid int) (socialfeed.Like, error) {
	return m.CreateFn(uid, pid)
}

func (m *mockLikes) Delete(_ context.Context, id int) error {
	return m.DeleteFn(id)
}

func (m *mockLikes) ListForPost(_ context.Context, pid int, p repository.Page) ([]socialfeed.Like, error) {
	return m.ListFn(pid, p)
}

type mockComments struct {
	CreateFn func(c socialfeed.Comment) (socialfeed.Comment, error)
	ListFn   func(pid int, f repository.CommentFilter) ([]socialfeed.Comment, error)
}

func (m *mockComments) Create(_ context.Context, c socialfeed.Comment) (socialfeed.Comment, error) {
	return m.CreateFn(c)
}

func (m *mockComments) ListForPost(_ context.Context, pid int, f repository.CommentFilter) ([]socialfeed.Comment, error) {
	return m.ListFn(pid, f)
}

type mockFollows struct {
	GetFn    func(followerID, followedID int) (*socialfeed.Follow, error)
	CreateFn func(followerID, followedID int) (socialfeed.Follow, error)
	DeleteFn func(id int) error
	ListFn   func(followerID int, p repository.Page) ([]socialfeed.UserSummary, error)
}

func (m *mockFollows) Get(_ context.Context, a, b int) (*socialfeed.Follow, error) {
	return m.GetFn(a, b)
}

func (m *mockFollows) Create(_ context.Context, a, b int) (socialfeed.Follow, error) {
	return m.CreateFn(a, b)
}

func (m *mockFollows) Delete(_ context.Context, id int) error {
	return m.DeleteFn(id)
}

func (m *mockFollows) ListFollowing(_ context.Context, id int, p repository.Page) ([]socialfeed.UserSummary, error) {
	return m.ListFn(id, p)
}

// memImages is an in-memory imagestore.Store.
type memImages struct {
	files   map[string][]byte
	removed []string
}

func newMemImages() *memImages {
	return &memImages{files: map[string][]byte{}}
}

func (m *memImages) Save(_ context.Context, kind imagestore.Kind, img imagestore.Image) error {
	m.files[string(kind)+"/"+img.Name] = img.Data
	return nil
}

func (m *memImages) Remove(_ context.Context, kind imagestore.Kind, name string) error {
	m.removed = append(m.removed, string(kind)+"/"+name)
	delete(m.files, string(kind)+"/"+name)
	return nil
}

func (m *memImages) Open(_ context.Context, kind imagestore.Kind, name string) (io.ReadCloser, error) {
	data, ok := m.files[string(kind)+"/"+name]
	if !ok {
		return nil, imagestore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
