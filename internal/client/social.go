package client

import (
	"context"
	"fmt"
	"net/http"

	"socialfeed"
	"socialfeed/internal/client/validation"
)

func followPath(uid, followed int) string {
	return fmt.Sprintf("/users/%d/follows/%d", uid, followed)
}

func (c *Client) FollowUser(ctx context.Context, uid, followed int) error {
	return c.do(ctx, http.MethodPost, followPath(uid, followed), nil, nil)
}

func (c *Client) UnfollowUser(ctx context.Context, uid, followed int) error {
	return c.do(ctx, http.MethodDelete, followPath(uid, followed), nil, nil)
}

func (c *Client) CheckFollow(ctx context.Context, uid, followed int) (socialfeed.FollowStatus, error) {
	var st socialfeed.FollowStatus
	if err := c.do(ctx, http.MethodGet, followPath(uid, followed), nil, &st); err != nil {
		return socialfeed.FollowStatus{}, err
	}
	return st, nil
}

// GetFollowing lists the users uid follows.
func (c *Client) GetFollowing(ctx context.Context, uid int, lastFollowID *int) ([]socialfeed.UserSummary, error) {
	q := newQuery().optInt("last_follow_id", lastFollowID)
	var users []socialfeed.UserSummary
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/follows", uid)+q.String(), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func likePath(uid, pid int) string {
	return fmt.Sprintf("/users/%d/posts/%d/likes", uid, pid)
}

func (c *Client) LikePost(ctx context.Context, uid, pid int) error {
	return c.do(ctx, http.MethodPost, likePath(uid, pid), nil, nil)
}

func (c *Client) UnlikePost(ctx context.Context, uid, pid int) error {
	return c.do(ctx, http.MethodDelete, likePath(uid, pid), nil, nil)
}

func (c *Client) CheckLike(ctx context.Context, uid, pid int) (socialfeed.LikeStatus, error) {
	var st socialfeed.LikeStatus
	if err := c.do(ctx, http.MethodGet, likePath(uid, pid), nil, &st); err != nil {
		return socialfeed.LikeStatus{}, err
	}
	return st, nil
}

// AddComment comments on pid as uid.
func (c *Client) AddComment(ctx context.Context, uid, pid int, content string) (socialfeed.Comment, error) {
	if err := validation.Comment(content); err != nil {
		return socialfeed.Comment{}, err
	}
	body := struct {
		Content string `json:"content"`
	}{content}
	var cm socialfeed.Comment
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/posts/%d/comments", uid, pid), body, &cm); err != nil {
		return socialfeed.Comment{}, err
	}
	return cm, nil
}

func (c *Client) FetchComments(ctx context.Context, pid, pageSize int, lastID *int) ([]socialfeed.Comment, error) {
	q := newQuery().setInt("page_size", pageSize).optInt("last_id", lastID)
	var comments []socialfeed.Comment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d/comments", pid)+q.String(), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
