// Package session holds the signed-in user's state and the user cache.
package session

import (
	"sync"

	"socialfeed"
)

// State is a point-in-time copy of the session.
type State struct {
	Token          string
	UID            int
	Username       string
	IsLoggedIn     bool
	ProfilePicture string
	BannerPicture  string
	AboutMe        string
}

// Store is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	state State
	users map[int]socialfeed.User
}

func New() *Store {
	return &Store{users: make(map[int]socialfeed.User)}
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// SetAuthenticated records a successful sign-in for u.
func (s *Store) SetAuthenticated(token string, uid int, u socialfeed.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{
		Token:          token,
		UID:            uid,
		Username:       u.Username,
		IsLoggedIn:     true,
		ProfilePicture: u.ProfilePicture,
		BannerPicture:  u.BannerPicture,
		AboutMe:        u.AboutMe,
	}
}

// Reset clears the signed-in user. The user cache is kept.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
}

// Profile is a partial profile edit; nil fields are left untouched.
type Profile struct {
	Username       *string
	ProfilePicture *string
	BannerPicture  *string
	AboutMe        *string
}

func (s *Store) SetProfile(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Username != nil {
		s.state.Username = *p.Username
	}
	if p.ProfilePicture != nil {
		s.state.ProfilePicture = *p.ProfilePicture
	}
	if p.BannerPicture != nil {
		s.state.BannerPicture = *p.BannerPicture
	}
	if p.AboutMe != nil {
		s.state.AboutMe = *p.AboutMe
	}
}

func (s *Store) CachedUser(uid int) (socialfeed.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[uid]
	return u, ok
}

func (s *Store) CacheUser(u socialfeed.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) FlushUserCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[int]socialfeed.User)
}

func (s *Store) CacheLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// ForgetUser drops uid from the user cache.
func (s *Store) ForgetUser(uid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, uid)
}
