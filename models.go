package socialfeed

import "time"

// Placeholder pictures assigned to new accounts.
const (
	PlaceholderProfilePicture = "placeholder-profile.jpg"
	PlaceholderBannerPicture  = "placeholder-banner.jpg"
)

// User is a public profile.
type User struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"-"`
	PasswordHash   string `json:"-"` // don’t expose hash
	ProfilePicture string `json:"profile_picture"`
	BannerPicture  string `json:"banner_picture"`
	AboutMe        string `json:"about_me"`
}

// UserSummary is the shape returned by user search and follow listings.
type UserSummary struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// Post is a single post with its aggregated counters.
type Post struct {
	ID           int       `json:"id"`
	UID          int       `json:"uid"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Image        *string   `json:"image"` // nil when the post has no image
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type Comment struct {
	ID      int    `json:"id"`
	UID     int    `json:"uid"`
	PID     int    `json:"pid"`
	Content string `json:"content"`
}

type Like struct {
	ID  int `json:"id"`
	UID int `json:"uid"`
	PID int `json:"pid"`
}

// LikeStatus answers "has uid liked pid".
type LikeStatus struct {
	IsLiked bool `json:"is_liked"`
	ID      *int `json:"id"`
	UID     int  `json:"uid"`
	PID     int  `json:"pid"`
}

// Follow is a follower -> followed relation.
type Follow struct {
	ID           int       `json:"id"`
	FollowerID   int       `json:"follower_id"`
	FollowedID   int       `json:"followed_id"`
	FollowedDate time.Time `json:"followed_date"`
}

// FollowStatus answers "does follower follow followed".
type FollowStatus struct {
	IsFollowing  bool       `json:"is_following"`
	FollowedDate *time.Time `json:"followed_date,omitempty"`
}

// Token is returned by login and registration.
type Token struct {
	AccessToken string `json:"access_token"`
	Expiration  int64  `json:"expiration"` // unix seconds
}

// UserUpdate is a partial profile update. Empty fields are left untouched.
type UserUpdate struct {
	Username    string `json:"username,omitempty"`
	AboutMe     string `json:"about_me,omitempty"`
	Email       string `json:"email,omitempty"`
	OldPassword string `json:"old_password,omitempty"`
	NewPassword string `json:"new_password,omitempty"`
}

// UserUpdateResult echoes the fields that were changed.
type UserUpdateResult struct {
	Username string `json:"username,omitempty"`
	AboutMe  string `json:"about_me,omitempty"`
	Email    string `json:"email,omitempty"`
}
