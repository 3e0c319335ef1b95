package service

import (
	"context"

	"socialfeed"
	"socialfeed/internal/repository"
)

type FollowService struct {
	follows repository.Follows
	users   repository.Users
}

func NewFollowService(follows repository.Follows, users repository.Users) *FollowService {
	return &FollowService{follows: follows, users: users}
}

func (s *FollowService) Status(ctx context.Context, followerID, followedID int) (socialfeed.FollowStatus, error) {
	if err := s.userExists(ctx, followedID); err != nil {
		return socialfeed.FollowStatus{}, err
	}
	f, err := s.follows.Get(ctx, followerID, followedID)
	if err != nil {
		return socialfeed.FollowStatus{}, err
	}
	if f == nil {
		return socialfeed.FollowStatus{}, nil
	}
	date := f.FollowedDate
	return socialfeed.FollowStatus{IsFollowing: true, FollowedDate: &date}, nil
}

func (s *FollowService) Follow(ctx context.Context, followerID, followedID int) (socialfeed.Follow, error) {
	if followerID == followedID {
		return socialfeed.Follow{}, ErrSelfFollow
	}
	if err := s.userExists(ctx, followedID); err != nil {
		return socialfeed.Follow{}, err
	}
	f, err := s.follows.Get(ctx, followerID, followedID)
	if err != nil {
		return socialfeed.Follow{}, err
	}
	if f != nil {
		return socialfeed.Follow{}, ErrAlreadyFollowing
	}
	return s.follows.Create(ctx, followerID, followedID)
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID int) error {
	if err := s.userExists(ctx, followedID); err != nil {
		return err
	}
	f, err := s.follows.Get(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if f == nil {
		return ErrNotFollowing
	}
	return s.follows.Delete(ctx, f.ID)
}

// Following lists the users uid follows, highest user id first.
func (s *FollowService) Following(ctx context.Context, uid int, q PageQuery) ([]socialfeed.UserSummary, error) {
	if err := s.userExists(ctx, uid); err != nil {
		return nil, err
	}
	q.Descending = true
	return s.follows.ListFollowing(ctx, uid, q.page())
}

func (s *FollowService) userExists(ctx context.Context, uid int) error {
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	return nil
}
