package service

import (
	"context"
	"strings"

	"socialfeed"
	"socialfeed/internal/imagestore"
	"socialfeed/internal/repository"
)

type PostService struct {
	posts  repository.Posts
	users  repository.Users
	images imagestore.Store
}

func NewPostService(posts repository.Posts, users repository.Users, images imagestore.Store) *PostService {
	return &PostService{posts: posts, users: users, images: images}
}

func (s *PostService) Get(ctx context.Context, pid int) (socialfeed.Post, error) {
	p, err := s.posts.GetByID(ctx, pid)
	if err != nil {
		return socialfeed.Post{}, err
	}
	if p == nil {
		return socialfeed.Post{}, ErrPostNotFound
	}
	return *p, nil
}

// List pages through all posts in ascending id order.
func (s *PostService) List(ctx context.Context, q PostQuery) ([]socialfeed.Post, error) {
	pq := q.PageQuery
	pq.Descending = false
	return s.posts.List(ctx, repository.PostFilter{
		Query:   strings.TrimSpace(q.Query),
		LikedBy: q.LikedBy,
		Page:    pq.page(),
	})
}

func (s *PostService) ListByUser(ctx context.Context, uid int, q UserPostQuery) ([]socialfeed.Post, error) {
	if err := s.userExists(ctx, uid); err != nil {
		return nil, err
	}
	return s.posts.List(ctx, repository.PostFilter{
		AuthorID: uid,
		HasImage: q.HasImage,
		Page:     q.PageQuery.page(),
	})
}

// Feed returns posts of followed users, newest first.
func (s *PostService) Feed(ctx context.Context, uid int, q PageQuery) ([]socialfeed.Post, error) {
	q.Descending = true
	return s.posts.List(ctx, repository.PostFilter{FeedOf: uid, Page: q.page()})
}

func (s *PostService) FeedSince(ctx context.Context, uid, afterID, limit int) ([]socialfeed.Post, error) {
	q := PageQuery{Size: limit, LastID: afterID}
	return s.posts.List(ctx, repository.PostFilter{FeedOf: uid, Page: q.page()})
}

func (s *PostService) Create(ctx context.Context, uid int, np NewPost) (int, error) {
	if err := s.userExists(ctx, uid); err != nil {
		return 0, err
	}
	if err := checkField("Title", np.Title, ruleTitle); err != nil {
		return 0, err
	}
	if err := checkField("Content", np.Content, ruleContent); err != nil {
		return 0, err
	}

	post := socialfeed.Post{UID: uid, Title: np.Title, Content: np.Content}
	if np.Image != nil {
		img, err := imagestore.Validate(np.Image.ContentType, np.Image.Data, imagestore.PostTypes)
		if err != nil {
			return 0, err
		}
		if err := s.images.Save(ctx, imagestore.KindPosts, img); err != nil {
			return 0, err
		}
		post.Image = &img.Name
	}

	id, err := s.posts.Create(ctx, post)
	if err != nil {
		if post.Image != nil {
			removeImage(ctx, s.images, imagestore.KindPosts, *post.Image)
		}
		return 0, err
	}
	return id, nil
}

// Delete removes a post owned by uid together with its image.
func (s *PostService) Delete(ctx context.Context, uid, pid int) error {
	p, err := s.posts.GetByID(ctx, pid)
	if err != nil {
		return err
	}
	if p == nil || p.UID != uid {
		return ErrPostNotFound
	}
	if err := s.posts.Delete(ctx, pid); err != nil {
		return err
	}
	if p.Image != nil {
		removeImage(ctx, s.images, imagestore.KindPosts, *p.Image)
	}
	return nil
}

func (s *PostService) userExists(ctx context.Context, uid int) error {
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	return nil
}
