package service

import (
	"context"

	"socialfeed"
	"socialfeed/internal/repository"
)

type LikeService struct {
	likes repository.Likes
	posts repository.Posts
}

func NewLikeService(likes repository.Likes, posts repository.Posts) *LikeService {
	return &LikeService{likes: likes, posts: posts}
}

func (s *LikeService) Status(ctx context.Context, uid, pid int) (socialfeed.LikeStatus, error) {
	if err := postExists(ctx, s.posts, pid); err != nil {
		return socialfeed.LikeStatus{}, err
	}
	l, err := s.likes.Get(ctx, uid, pid)
	if err != nil {
		return socialfeed.LikeStatus{}, err
	}
	st := socialfeed.LikeStatus{UID: uid, PID: pid}
	if l != nil {
		st.IsLiked = true
		st.ID = &l.ID
	}
	return st, nil
}

func (s *LikeService) Like(ctx context.Context, uid, pid int) (socialfeed.Like, error) {
	if err := postExists(ctx, s.posts, pid); err != nil {
		return socialfeed.Like{}, err
	}
	l, err := s.likes.Get(ctx, uid, pid)
	if err != nil {
		return socialfeed.Like{}, err
	}
	if l != nil {
		return socialfeed.Like{}, ErrAlreadyLiked
	}
	return s.likes.Create(ctx, uid, pid)
}

func (s *LikeService) Unlike(ctx context.Context, uid, pid int) error {
	if err := postExists(ctx, s.posts, pid); err != nil {
		return err
	}
	l, err := s.likes.Get(ctx, uid, pid)
	if err != nil {
		return err
	}
	if l == nil {
		return ErrNotLiked
	}
	return s.likes.Delete(ctx, l.ID)
}

func (s *LikeService) ListForPost(ctx context.Context, pid int, q PageQuery) ([]socialfeed.Like, error) {
	if err := postExists(ctx, s.posts, pid); err != nil {
		return nil, err
	}
	return s.likes.ListForPost(ctx, pid, q.page())
}

func postExists(ctx context.Context, posts repository.Posts, pid int) error {
	p, err := posts.GetByID(ctx, pid)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPostNotFound
	}
	return nil
}
