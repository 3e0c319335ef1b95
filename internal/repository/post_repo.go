package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"socialfeed"
)

type PostSQLite struct {
	db *sql.DB
}

func NewPostSQLite(db *sql.DB) *PostSQLite { return &PostSQLite{db: db} }

var _ Posts = (*PostSQLite)(nil)

const (
	insertPostSQL = `INSERT INTO posts (uid, title, content, image, created_at) VALUES (?, ?, ?, ?, ?)`
	deletePostSQL = `DELETE FROM posts WHERE id = ?`

	// selectPostSQL carries the like/comment counters as correlated subqueries.
	selectPostSQL = `SELECT p.id, p.uid, p.title, p.content, p.image, p.created_at,
(SELECT COUNT(*) FROM likes l WHERE l.pid = p.id),
(SELECT COUNT(*) FROM comments c WHERE c.pid = p.id)
FROM posts p`
	selectPostByIDSQL = selectPostSQL + ` WHERE p.id = ?`
)

// Create inserts a post. CreatedAt defaults to now.
func (r *PostSQLite) Create(ctx context.Context, p socialfeed.Post) (int, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, insertPostSQL, p.UID, p.Title, p.Content, p.Image, p.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("insert post for user %d: %w", p.UID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for post: %w", err)
	}
	return int(lastID), nil
}

// GetByID returns (nil, nil) if not found.
func (r *PostSQLite) GetByID(ctx context.Context, id int) (*socialfeed.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPostByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select post %d: %w", id, err)
	}
	return &p, nil
}

// List returns posts matching f, keyset-paged on id.
func (r *PostSQLite) List(ctx context.Context, f PostFilter) ([]socialfeed.Post, error) {
	var w where
	if f.Query != "" {
		pat := likePattern(f.Query)
		w.add(`(p.title LIKE ? ESCAPE '\' OR p.content LIKE ? ESCAPE '\')`, pat, pat)
	}
	if f.LikedBy > 0 {
		w.add(`p.id IN (SELECT pid FROM likes WHERE uid = ?)`, f.LikedBy)
	}
	if f.AuthorID > 0 {
		w.add(`p.uid = ?`, f.AuthorID)
	}
	if f.FeedOf > 0 {
		w.add(`p.uid IN (SELECT followed_id FROM follows WHERE follower_id = ?)`, f.FeedOf)
	}
	if f.HasImage {
		w.add(`p.image IS NOT NULL`)
	}
	tail := w.cursor("p.id", f.Page)
	q := selectPostSQL + w.String() + tail

	rows, err := r.db.QueryContext(ctx, q, w.limitArgs(f.Page)...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := make([]socialfeed.Post, 0, f.Size)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

func (r *PostSQLite) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deletePostSQL, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (socialfeed.Post, error) {
	var (
		p     socialfeed.Post
		image sql.NullString
	)
	if err := row.Scan(&p.ID, &p.UID, &p.Title, &p.Content, &image, &p.CreatedAt, &p.LikeCount, &p.CommentCount); err != nil {
		return socialfeed.Post{}, err
	}
	if image.Valid {
		s := image.String
		p.Image = &s
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}
