package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"socialfeed"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserSQLite)(nil)

const (
	userColumns = `id, username, email, password_hash, profile_picture, banner_picture, about_me`

	insertUserSQL = `INSERT INTO users (username, email, password_hash, profile_picture, banner_picture, about_me)
VALUES (?, ?, ?, ?, ?, ?)`
	selectUserByIDSQL       = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	selectUserByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	updateUserSQL           = `UPDATE users SET username = ?, email = ?, password_hash = ?, profile_picture = ?, banner_picture = ?, about_me = ?
WHERE id = ?`
	deleteUserSQL     = `DELETE FROM users WHERE id = ?`
	selectUserListSQL = `SELECT id, username, profile_picture FROM users`
)

// Create inserts a new user and returns its ID. Empty pictures fall back to
// the placeholders.
func (r *UserSQLite) Create(ctx context.Context, u socialfeed.User) (int, error) {
	if u.ProfilePicture == "" {
		u.ProfilePicture = socialfeed.PlaceholderProfilePicture
	}
	if u.BannerPicture == "" {
		u.BannerPicture = socialfeed.PlaceholderBannerPicture
	}
	res, err := r.db.ExecContext(ctx, insertUserSQL,
		u.Username, u.Email, u.PasswordHash, u.ProfilePicture, u.BannerPicture, u.AboutMe)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", u.Username, err)
	}
	return int(lastID), nil
}

// GetByID returns (nil, nil) if not found.
func (r *UserSQLite) GetByID(ctx context.Context, id int) (*socialfeed.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

// GetByUsername returns (nil, nil) if not found.
func (r *UserSQLite) GetByUsername(ctx context.Context, username string) (*socialfeed.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*socialfeed.User, error) {
	var u socialfeed.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ProfilePicture, &u.BannerPicture, &u.AboutMe)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// List searches usernames (case-insensitive substring) with keyset paging.
func (r *UserSQLite) List(ctx context.Context, f UserFilter) ([]socialfeed.UserSummary, error) {
	var w where
	if f.Query != "" {
		w.add(`username LIKE ? ESCAPE '\'`, likePattern(f.Query))
	}
	tail := w.cursor("id", f.Page)
	q := selectUserListSQL + w.String() + tail

	rows, err := r.db.QueryContext(ctx, q, w.limitArgs(f.Page)...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]socialfeed.UserSummary, 0, f.Size)
	for rows.Next() {
		var s socialfeed.UserSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.ProfilePicture); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// Update overwrites every mutable column of u.
func (r *UserSQLite) Update(ctx context.Context, u socialfeed.User) error {
	_, err := r.db.ExecContext(ctx, updateUserSQL,
		u.Username, u.Email, u.PasswordHash, u.ProfilePicture, u.BannerPicture, u.AboutMe, u.ID)
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}

// Delete removes the user; posts, likes, comments and follows cascade.
func (r *UserSQLite) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deleteUserSQL, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
