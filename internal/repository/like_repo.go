package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"socialfeed"
)

type LikeSQLite struct {
	db *sql.DB
}

func NewLikeSQLite(db *sql.DB) *LikeSQLite { return &LikeSQLite{db: db} }

var _ Likes = (*LikeSQLite)(nil)

const (
	selectLikeSQL = `SELECT id, uid, pid FROM likes WHERE uid = ? AND pid = ?`
	insertLikeSQL = `INSERT INTO likes (uid, pid) VALUES (?, ?)`
	deleteLikeSQL = `DELETE FROM likes WHERE id = ?`
	listLikesSQL  = `SELECT id, uid, pid FROM likes`
)

// Get returns (nil, nil) when uid has not liked pid.
func (r *LikeSQLite) Get(ctx context.Context, uid, pid int) (*socialfeed.Like, error) {
	var l socialfeed.Like
	err := r.db.QueryRowContext(ctx, selectLikeSQL, uid, pid).Scan(&l.ID, &l.UID, &l.PID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select like (%d, %d): %w", uid, pid, err)
	}
	return &l, nil
}

func (r *LikeSQLite) Create(ctx context.Context, uid, pid int) (socialfeed.Like, error) {
	res, err := r.db.ExecContext(ctx, insertLikeSQL, uid, pid)
	if err != nil {
		return socialfeed.Like{}, fmt.Errorf("insert like (%d, %d): %w", uid, pid, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return socialfeed.Like{}, fmt.Errorf("get last insert id for like: %w", err)
	}
	return socialfeed.Like{ID: int(id), UID: uid, PID: pid}, nil
}

func (r *LikeSQLite) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deleteLikeSQL, id); err != nil {
		return fmt.Errorf("delete like %d: %w", id, err)
	}
	return nil
}

func (r *LikeSQLite) ListForPost(ctx context.Context, pid int, p Page) ([]socialfeed.Like, error) {
	var w where
	w.add("pid = ?", pid)
	tail := w.cursor("id", p)

	rows, err := r.db.QueryContext(ctx, listLikesSQL+w.String()+tail, w.limitArgs(p)...)
	if err != nil {
		return nil, fmt.Errorf("list likes for post %d: %w", pid, err)
	}
	defer rows.Close()

	out := make([]socialfeed.Like, 0, p.Size)
	for rows.Next() {
		var l socialfeed.Like
		if err := rows.Scan(&l.ID, &l.UID, &l.PID); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
