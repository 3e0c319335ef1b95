package repository

import (
	"context"
	"database/sql"
	"fmt"

	"socialfeed"
)

type CommentSQLite struct {
	db *sql.DB
}

func NewCommentSQLite(db *sql.DB) *CommentSQLite { return &CommentSQLite{db: db} }

var _ Comments = (*CommentSQLite)(nil)

const (
	insertCommentSQL = `INSERT INTO comments (uid, pid, content) VALUES (?, ?, ?)`
	listCommentsSQL  = `SELECT id, uid, pid, content FROM comments`
)

func (r *CommentSQLite) Create(ctx context.Context, c socialfeed.Comment) (socialfeed.Comment, error) {
	res, err := r.db.ExecContext(ctx, insertCommentSQL, c.UID, c.PID, c.Content)
	if err != nil {
		return socialfeed.Comment{}, fmt.Errorf("insert comment on post %d: %w", c.PID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return socialfeed.Comment{}, fmt.Errorf("get last insert id for comment: %w", err)
	}
	c.ID = int(id)
	return c, nil
}

// ListForPost returns comments on pid, optionally only those written by
// f.AuthorID.
func (r *CommentSQLite) ListForPost(ctx context.Context, pid int, f CommentFilter) ([]socialfeed.Comment, error) {
	var w where
	w.add("pid = ?", pid)
	if f.AuthorID > 0 {
		w.add("uid = ?", f.AuthorID)
	}
	tail := w.cursor("id", f.Page)

	rows, err := r.db.QueryContext(ctx, listCommentsSQL+w.String()+tail, w.limitArgs(f.Page)...)
	if err != nil {
		return nil, fmt.Errorf("list comments for post %d: %w", pid, err)
	}
	defer rows.Close()

	out := make([]socialfeed.Comment, 0, f.Size)
	for rows.Next() {
		var c socialfeed.Comment
		if err := rows.Scan(&c.ID, &c.UID, &c.PID, &c.Content); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
