package client

import (
	"context"
	"fmt"
	"net/http"

	"socialfeed"
	"socialfeed/internal/client/session"
)

// FetchUsers searches users, newest account first.
func (c *Client) FetchUsers(ctx context.Context, pageSize int, lastID *int, query *string) ([]socialfeed.UserSummary, error) {
	q := newQuery().setInt("page_size", pageSize).optInt("last_id", lastID).optString("query", query)
	var users []socialfeed.UserSummary
	if err := c.do(ctx, http.MethodGet, "/users"+q.String(), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FetchUserInfo returns a profile, served from the user cache when possible.
func (c *Client) FetchUserInfo(ctx context.Context, uid int) (socialfeed.User, error) {
	if u, ok := c.session.CachedUser(uid); ok {
		return u, nil
	}
	var u socialfeed.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", uid), nil, &u); err != nil {
		return socialfeed.User{}, err
	}
	c.session.CacheUser(u)
	return u, nil
}

func (c *Client) FlushUserCache() {
	c.session.FlushUserCache()
}

// UpdateUserInfo applies a partial profile update. Changes to the signed-in
// user are mirrored into the session.
func (c *Client) UpdateUserInfo(ctx context.Context, uid int, upd socialfeed.UserUpdate) (socialfeed.UserUpdateResult, error) {
	var res socialfeed.UserUpdateResult
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", uid), upd, &res); err != nil {
		return socialfeed.UserUpdateResult{}, err
	}

	var p session.Profile
	if res.Username != "" {
		p.Username = &res.Username
	}
	if res.AboutMe != "" {
		p.AboutMe = &res.AboutMe
	}
	c.syncProfile(uid, p)
	return res, nil
}

// UpdateProfilePicture uploads a new avatar and returns its stored name.
func (c *Client) UpdateProfilePicture(ctx context.Context, uid int, img Image) (string, error) {
	var res struct {
		Name string `json:"profile_picture"`
	}
	if err := c.uploadPicture(ctx, fmt.Sprintf("/users/%d/profile-picture", uid), img, &res); err != nil {
		return "", err
	}
	c.syncProfile(uid, session.Profile{ProfilePicture: &res.Name})
	return res.Name, nil
}

// UpdateBannerPicture uploads a new banner and returns its stored name.
func (c *Client) UpdateBannerPicture(ctx context.Context, uid int, img Image) (string, error) {
	var res struct {
		Name string `json:"banner_picture"`
	}
	if err := c.uploadPicture(ctx, fmt.Sprintf("/users/%d/banner-picture", uid), img, &res); err != nil {
		return "", err
	}
	c.syncProfile(uid, session.Profile{BannerPicture: &res.Name})
	return res.Name, nil
}

// DeleteAccount removes the account and signs out.
func (c *Client) DeleteAccount(ctx context.Context, uid int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", uid), nil, nil); err != nil {
		return err
	}
	c.Logout(ctx)
	return nil
}

func (c *Client) uploadPicture(ctx context.Context, path string, img Image, dst any) error {
	form, err := newForm(&img)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, form, dst)
}

// syncProfile mirrors an edit of uid into the session and drops the stale
// cache entry.
func (c *Client) syncProfile(uid int, p session.Profile) {
	c.session.ForgetUser(uid)
	if c.session.Snapshot().UID == uid {
		c.session.SetProfile(p)
	}
}
