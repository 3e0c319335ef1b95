package service

import (
	"context"

	"socialfeed"
	"socialfeed/internal/repository"
)

type CommentService struct {
	comments repository.Comments
	posts    repository.Posts
}

func NewCommentService(comments repository.Comments, posts repository.Posts) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

func (s *CommentService) Create(ctx context.Context, uid, pid int, content string) (socialfeed.Comment, error) {
	if err := checkField("Comment", content, ruleComment); err != nil {
		return socialfeed.Comment{}, err
	}
	if err := postExists(ctx, s.posts, pid); err != nil {
		return socialfeed.Comment{}, err
	}
	return s.comments.Create(ctx, socialfeed.Comment{UID: uid, PID: pid, Content: content})
}

func (s *CommentService) ListForPost(ctx context.Context, pid int, q PageQuery) ([]socialfeed.Comment, error) {
	if err := postExists(ctx, s.posts, pid); err != nil {
		return nil, err
	}
	return s.comments.ListForPost(ctx, pid, repository.CommentFilter{Page: q.page()})
}

// ListByUserOnPost returns only uid's comments on pid.
func (s *CommentService) ListByUserOnPost(ctx context.Context, uid, pid int, q PageQuery) ([]socialfeed.Comment, error) {
	if err := postExists(ctx, s.posts, pid); err != nil {
		return nil, err
	}
	return s.comments.ListForPost(ctx, pid, repository.CommentFilter{AuthorID: uid, Page: q.page()})
}
