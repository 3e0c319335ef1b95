package service

import (
	"context"
	"strings"

	"socialfeed"
	"socialfeed/internal/imagestore"
	"socialfeed/internal/logger"
	"socialfeed/internal/repository"
)

type UserService struct {
	users  repository.Users
	posts  repository.Posts
	images imagestore.Store
}

func NewUserService(users repository.Users, posts repository.Posts, images imagestore.Store) *UserService {
	return &UserService{users: users, posts: posts, images: images}
}

func (s *UserService) Get(ctx context.Context, uid int) (socialfeed.User, error) {
	u, err := s.mustGet(ctx, uid)
	if err != nil {
		return socialfeed.User{}, err
	}
	return *u, nil
}

func (s *UserService) List(ctx context.Context, q UserQuery) ([]socialfeed.UserSummary, error) {
	pq := q.PageQuery
	pq.Descending = true
	return s.users.List(ctx, repository.UserFilter{Query: strings.TrimSpace(q.Query), Page: pq.page()})
}

// Update applies the non-empty fields of upd. A password change needs both
// the old and the new password.
func (s *UserService) Update(ctx context.Context, uid int, upd socialfeed.UserUpdate) (socialfeed.UserUpdateResult, error) {
	u, err := s.mustGet(ctx, uid)
	if err != nil {
		return socialfeed.UserUpdateResult{}, err
	}

	var res socialfeed.UserUpdateResult
	if upd.Username != "" && upd.Username != u.Username {
		if err := checkField("Username", upd.Username, ruleUsername); err != nil {
			return res, err
		}
		other, err := s.users.GetByUsername(ctx, upd.Username)
		if err != nil {
			return res, err
		}
		if other != nil {
			return res, ErrUsernameTaken
		}
		u.Username = upd.Username
		res.Username = upd.Username
	}
	if upd.AboutMe != "" {
		if err := checkField("About me", upd.AboutMe, ruleAboutMe); err != nil {
			return res, err
		}
		u.AboutMe = upd.AboutMe
		res.AboutMe = upd.AboutMe
	}
	if upd.Email != "" {
		if err := checkField("Email", upd.Email, ruleEmail); err != nil {
			return res, err
		}
		u.Email = upd.Email
		res.Email = upd.Email
	}
	passwordChanged := false
	if upd.OldPassword != "" || upd.NewPassword != "" {
		if upd.OldPassword == "" || upd.NewPassword == "" {
			return res, invalid("Password", "Both old and new password are required")
		}
		if err := verifyPassword(u.PasswordHash, upd.OldPassword); err != nil {
			return res, ErrIncorrectPassword
		}
		if err := checkField("Password", upd.NewPassword, "required,"+rulePassword); err != nil {
			return res, err
		}
		hash, err := hashPassword(upd.NewPassword)
		if err != nil {
			return res, err
		}
		u.PasswordHash = hash
		passwordChanged = true
	}

	if res == (socialfeed.UserUpdateResult{}) && !passwordChanged {
		return res, nil
	}
	if err := s.users.Update(ctx, *u); err != nil {
		return socialfeed.UserUpdateResult{}, err
	}
	return res, nil
}

func (s *UserService) UpdateProfilePicture(ctx context.Context, uid int, up Upload) (string, error) {
	return s.replacePicture(ctx, uid, up, imagestore.ProfileTypes, func(u *socialfeed.User) *string {
		return &u.ProfilePicture
	})
}

func (s *UserService) UpdateBannerPicture(ctx context.Context, uid int, up Upload) (string, error) {
	return s.replacePicture(ctx, uid, up, imagestore.BannerTypes, func(u *socialfeed.User) *string {
		return &u.BannerPicture
	})
}

// replacePicture stores the new image, points the user at it and removes
// the previous file unless it is a placeholder.
func (s *UserService) replacePicture(ctx context.Context, uid int, up Upload, allowed []string, field func(*socialfeed.User) *string) (string, error) {
	u, err := s.mustGet(ctx, uid)
	if err != nil {
		return "", err
	}
	img, err := imagestore.Validate(up.ContentType, up.Data, allowed)
	if err != nil {
		return "", err
	}
	if err := s.images.Save(ctx, imagestore.KindUsers, img); err != nil {
		return "", err
	}

	slot := field(u)
	old := *slot
	*slot = img.Name
	if err := s.users.Update(ctx, *u); err != nil {
		_ = s.images.Remove(ctx, imagestore.KindUsers, img.Name)
		return "", err
	}
	s.removeImage(ctx, imagestore.KindUsers, old)
	return img.Name, nil
}

// Delete removes the account; rows cascade, stored images are removed
// best effort.
func (s *UserService) Delete(ctx context.Context, uid int) error {
	u, err := s.mustGet(ctx, uid)
	if err != nil {
		return err
	}
	withImages, err := s.posts.List(ctx, repository.PostFilter{
		AuthorID: uid,
		HasImage: true,
		Page:     repository.Page{},
	})
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, uid); err != nil {
		return err
	}
	s.removeImage(ctx, imagestore.KindUsers, u.ProfilePicture)
	s.removeImage(ctx, imagestore.KindUsers, u.BannerPicture)
	for _, p := range withImages {
		if p.Image != nil {
			s.removeImage(ctx, imagestore.KindPosts, *p.Image)
		}
	}
	return nil
}

func (s *UserService) mustGet(ctx context.Context, uid int) (*socialfeed.User, error) {
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) removeImage(ctx context.Context, kind imagestore.Kind, name string) {
	removeImage(ctx, s.images, kind, name)
}

func removeImage(ctx context.Context, store imagestore.Store, kind imagestore.Kind, name string) {
	if name == "" || imagestore.IsPlaceholder(name) {
		return
	}
	if err := store.Remove(ctx, kind, name); err != nil {
		logger.Get("").Warnw("image_remove_failed", "kind", kind, "name", name, "error", err)
	}
}
