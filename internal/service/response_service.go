package service

import "socialfeed/internal/repository"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageQuery is a keyset window as received from the API.
type PageQuery struct {
	Size       int
	LastID     int
	Descending bool
}

func (q PageQuery) page() repository.Page {
	size := q.Size
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	lastID := q.LastID
	if lastID < 0 {
		lastID = 0
	}
	return repository.Page{Size: size, LastID: lastID, Descending: q.Descending}
}

// UserQuery searches users by username substring.
type UserQuery struct {
	Query string
	PageQuery
}

// PostQuery filters the global post listing.
type PostQuery struct {
	Query   string
	LikedBy int
	PageQuery
}

// UserPostQuery filters one user's posts.
type UserPostQuery struct {
	HasImage bool
	PageQuery
}

// Upload is a raw image as received from a multipart form.
type Upload struct {
	ContentType string
	Data        []byte
}

// NewPost is the payload for creating a post. Image is optional.
type NewPost struct {
	Title   string
	Content string
	Image   *Upload
}
