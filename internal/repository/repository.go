package repository

import (
	"context"
	"database/sql"

	"socialfeed"
)

// Page is a cursor window: rows after (or before, when Descending) LastID.
// LastID == 0 means "from the start".
type Page struct {
	Size       int
	LastID     int
	Descending bool
}

// UserFilter narrows a user search.
type UserFilter struct {
	Query string
	Page
}

// PostFilter narrows a post listing. Zero values disable a condition.
type PostFilter struct {
	Query    string // substring of title or content
	LikedBy  int    // posts liked by this user
	AuthorID int    // posts written by this user
	FeedOf   int    // posts written by users this user follows
	HasImage bool
	Page
}

// CommentFilter narrows comments on a single post.
type CommentFilter struct {
	AuthorID int
	Page
}

type Users interface {
	Create(ctx context.Context, u socialfeed.User) (int, error)
	GetByID(ctx context.Context, id int) (*socialfeed.User, error)
	GetByUsername(ctx context.Context, username string) (*socialfeed.User, error)
	List(ctx context.Context, f UserFilter) ([]socialfeed.UserSummary, error)
	Update(ctx context.Context, u socialfeed.User) error
	Delete(ctx context.Context, id int) error
}

type Posts interface {
	Create(ctx context.Context, p socialfeed.Post) (int, error)
	GetByID(ctx context.Context, id int) (*socialfeed.Post, error)
	List(ctx context.Context, f PostFilter) ([]socialfeed.Post, error)
	Delete(ctx context.Context, id int) error
}

type Likes interface {
	Get(ctx context.Context, uid, pid int) (*socialfeed.Like, error)
	Create(ctx context.Context, uid, pid int) (socialfeed.Like, error)
	Delete(ctx context.Context, id int) error
	ListForPost(ctx context.Context, pid int, p Page) ([]socialfeed.Like, error)
}

type Comments interface {
	Create(ctx context.Context, c socialfeed.Comment) (socialfeed.Comment, error)
	ListForPost(ctx context.Context, pid int, f CommentFilter) ([]socialfeed.Comment, error)
}

type Follows interface {
	Get(ctx context.Context, followerID, followedID int) (*socialfeed.Follow, error)
	Create(ctx context.Context, followerID, followedID int) (socialfeed.Follow, error)
	Delete(ctx context.Context, id int) error
	ListFollowing(ctx context.Context, followerID int, p Page) ([]socialfeed.UserSummary, error)
}

type Repository struct {
	Users    Users
	Posts    Posts
	Likes    Likes
	Comments Comments
	Follows  Follows
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:    NewUserSQLite(db),
		Posts:    NewPostSQLite(db),
		Likes:    NewLikeSQLite(db),
		Comments: NewCommentSQLite(db),
		Follows:  NewFollowSQLite(db),
	}
}
