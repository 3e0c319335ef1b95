package client

import (
	"context"
	"fmt"
	"net/http"

	"socialfeed"
	"socialfeed/internal/client/validation"
)

// FetchPosts searches all posts, oldest first.
func (c *Client) FetchPosts(ctx context.Context, pageSize int, lastID *int, query *string, likedBy *int) ([]socialfeed.Post, error) {
	q := newQuery().setInt("page_size", pageSize).optInt("last_id", lastID).optString("query", query).optInt("liked_by", likedBy)
	return c.getPosts(ctx, "/posts"+q.String())
}

func (c *Client) FetchPost(ctx context.Context, pid int) (socialfeed.Post, error) {
	var p socialfeed.Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", pid), nil, &p); err != nil {
		return socialfeed.Post{}, err
	}
	return p, nil
}

// FetchUserPosts lists the posts written by uid.
func (c *Client) FetchUserPosts(ctx context.Context, uid, pageSize int, lastID *int, hasImage *bool, descending bool) ([]socialfeed.Post, error) {
	q := newQuery().setInt("page_size", pageSize).optInt("last_id", lastID).optBool("has_image", hasImage).setBool("descending", descending)
	return c.getPosts(ctx, fmt.Sprintf("/users/%d/posts", uid)+q.String())
}

// FetchUserFeedPosts lists posts by the users uid follows, newest first.
func (c *Client) FetchUserFeedPosts(ctx context.Context, uid, pageSize int, lastID *int) ([]socialfeed.Post, error) {
	q := newQuery().setInt("page_size", pageSize).optInt("last_id", lastID)
	return c.getPosts(ctx, fmt.Sprintf("/users/%d/posts/feed", uid)+q.String())
}

type NewPost struct {
	Title   string
	Content string
	Image   *Image
}

// NewPost publishes a post and returns its id.
func (c *Client) NewPost(ctx context.Context, uid int, p NewPost) (int, error) {
	if err := validation.Post(p.Title, p.Content); err != nil {
		return 0, err
	}
	form, err := newForm(p.Image, "title", p.Title, "content", p.Content)
	if err != nil {
		return 0, err
	}
	var res struct {
		ID int `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/posts", uid), form, &res); err != nil {
		return 0, err
	}
	return res.ID, nil
}

func (c *Client) DeletePost(ctx context.Context, uid, pid int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d/posts/%d", uid, pid), nil, nil)
}

func (c *Client) getPosts(ctx context.Context, path string) ([]socialfeed.Post, error) {
	var posts []socialfeed.Post
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
