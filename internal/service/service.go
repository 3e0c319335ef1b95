package service

import (
	"context"

	"socialfeed"
	"socialfeed/internal/imagestore"
	"socialfeed/internal/repository"
)

type Authorization interface {
	Register(ctx context.Context, username, password, email string) (socialfeed.Token, error)
	Login(ctx context.Context, username, password string) (socialfeed.Token, error)
	ParseToken(accessToken string) (int, error)
	// Authenticate parses the token and checks that its user still exists.
	Authenticate(ctx context.Context, accessToken string) (int, error)
}

type Users interface {
	Get(ctx context.Context, uid int) (socialfeed.User, error)
	List(ctx context.Context, q UserQuery) ([]socialfeed.UserSummary, error)
	Update(ctx context.Context, uid int, u socialfeed.UserUpdate) (socialfeed.UserUpdateResult, error)
	UpdateProfilePicture(ctx context.Context, uid int, up Upload) (string, error)
	UpdateBannerPicture(ctx context.Context, uid int, up Upload) (string, error)
	Delete(ctx context.Context, uid int) error
}

type Posts interface {
	Get(ctx context.Context, pid int) (socialfeed.Post, error)
	List(ctx context.Context, q PostQuery) ([]socialfeed.Post, error)
	ListByUser(ctx context.Context, uid int, q UserPostQuery) ([]socialfeed.Post, error)
	Feed(ctx context.Context, uid int, q PageQuery) ([]socialfeed.Post, error)
	// FeedSince returns followed users' posts with id > afterID, oldest first.
	FeedSince(ctx context.Context, uid, afterID, limit int) ([]socialfeed.Post, error)
	Create(ctx context.Context, uid int, p NewPost) (int, error)
	Delete(ctx context.Context, uid, pid int) error
}

type Likes interface {
	Status(ctx context.Context, uid, pid int) (socialfeed.LikeStatus, error)
	Like(ctx context.Context, uid, pid int) (socialfeed.Like, error)
	Unlike(ctx context.Context, uid, pid int) error
	ListForPost(ctx context.Context, pid int, q PageQuery) ([]socialfeed.Like, error)
}

type Comments interface {
	Create(ctx context.Context, uid, pid int, content string) (socialfeed.Comment, error)
	ListForPost(ctx context.Context, pid int, q PageQuery) ([]socialfeed.Comment, error)
	ListByUserOnPost(ctx context.Context, uid, pid int, q PageQuery) ([]socialfeed.Comment, error)
}

type Follows interface {
	Status(ctx context.Context, followerID, followedID int) (socialfeed.FollowStatus, error)
	Follow(ctx context.Context, followerID, followedID int) (socialfeed.Follow, error)
	Unfollow(ctx context.Context, followerID, followedID int) error
	Following(ctx context.Context, uid int, q PageQuery) ([]socialfeed.UserSummary, error)
}

// Service aggregates all sub-services consumed by the HTTP layer.
type Service struct {
	Authorization Authorization
	Users         Users
	Posts         Posts
	Likes         Likes
	Comments      Comments
	Follows       Follows
	Images        imagestore.Store
}

// NewService wires the repository layer and the image store into concrete
// services.
func NewService(repos *repository.Repository, images imagestore.Store, auth AuthOptions) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, auth),
		Users:         NewUserService(repos.Users, repos.Posts, images),
		Posts:         NewPostService(repos.Posts, repos.Users, images),
		Likes:         NewLikeService(repos.Likes, repos.Posts),
		Comments:      NewCommentService(repos.Comments, repos.Posts),
		Follows:       NewFollowService(repos.Follows, repos.Users),
		Images:        images,
	}
}
