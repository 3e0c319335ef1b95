package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"socialfeed"
)

type FollowSQLite struct {
	db *sql.DB
}

func NewFollowSQLite(db *sql.DB) *FollowSQLite { return &FollowSQLite{db: db} }

var _ Follows = (*FollowSQLite)(nil)

const (
	selectFollowSQL = `SELECT id, follower_id, followed_id, followed_date FROM follows
WHERE follower_id = ? AND followed_id = ?`
	insertFollowSQL = `INSERT INTO follows (follower_id, followed_id, followed_date) VALUES (?, ?, ?)`
	deleteFollowSQL = `DELETE FROM follows WHERE id = ?`
	// listFollowingSQL pages over the followed users' ids.
	listFollowingSQL = `SELECT u.id, u.username, u.profile_picture FROM users u
JOIN follows f ON f.followed_id = u.id`
)

// Get returns (nil, nil) when no relation exists.
func (r *FollowSQLite) Get(ctx context.Context, followerID, followedID int) (*socialfeed.Follow, error) {
	var f socialfeed.Follow
	err := r.db.QueryRowContext(ctx, selectFollowSQL, followerID, followedID).
		Scan(&f.ID, &f.FollowerID, &f.FollowedID, &f.FollowedDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select follow (%d -> %d): %w", followerID, followedID, err)
	}
	f.FollowedDate = f.FollowedDate.UTC()
	return &f, nil
}

func (r *FollowSQLite) Create(ctx context.Context, followerID, followedID int) (socialfeed.Follow, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, insertFollowSQL, followerID, followedID, now)
	if err != nil {
		return socialfeed.Follow{}, fmt.Errorf("insert follow (%d -> %d): %w", followerID, followedID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return socialfeed.Follow{}, fmt.Errorf("get last insert id for follow: %w", err)
	}
	return socialfeed.Follow{ID: int(id), FollowerID: followerID, FollowedID: followedID, FollowedDate: now}, nil
}

func (r *FollowSQLite) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deleteFollowSQL, id); err != nil {
		return fmt.Errorf("delete follow %d: %w", id, err)
	}
	return nil
}

// ListFollowing returns the users followerID follows.
func (r *FollowSQLite) ListFollowing(ctx context.Context, followerID int, p Page) ([]socialfeed.UserSummary, error) {
	var w where
	w.add("f.follower_id = ?", followerID)
	tail := w.cursor("u.id", p)

	rows, err := r.db.QueryContext(ctx, listFollowingSQL+w.String()+tail, w.limitArgs(p)...)
	if err != nil {
		return nil, fmt.Errorf("list following for user %d: %w", followerID, err)
	}
	defer rows.Close()

	out := make([]socialfeed.UserSummary, 0, p.Size)
	for rows.Next() {
		var s socialfeed.UserSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.ProfilePicture); err != nil {
			return nil, fmt.Errorf("scan followed user: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
