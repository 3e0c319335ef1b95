package service

import (
	"context"
	"errors"
	"testing"

	"socialfeed"
	"socialfeed/internal/imagestore"
	"socialfeed/internal/repository"
)

func newUserFixture(t *testing.T) (*UserService, *mockUsers, *memImages) {
	t.Helper()
	hash, err := hashPassword("old-password")
	if err != nil {
		t.Fatal(err)
	}
	users := &mockUsers{
		GetByIDFn: func(id int) (*socialfeed.User, error) {
			if id != 1 {
				return nil, nil
			}
			return &socialfeed.User{
				ID:             1,
				Username:       "alice",
				Email:          "alice@example.com",
				PasswordHash:   hash,
				ProfilePicture: "old.png",
				BannerPicture:  socialfeed.PlaceholderBannerPicture,
			}, nil
		},
		GetByUsernameFn: func(name string) (*socialfeed.User, error) {
			if name == "bob" {
				return &socialfeed.User{ID: 2, Username: "bob"}, nil
			}
			return nil, nil
		},
	}
	images := newMemImages()
	return NewUserService(users, &mockPosts{}, images), users, images
}

func TestUserService_Update(t *testing.T) {
	tests := []struct {
		name      string
		upd       socialfeed.UserUpdate
		want      socialfeed.UserUpdateResult
		wantErr   error
		wantValid bool
		wantWrite bool
	}{
		{name: "no changes", upd: socialfeed.UserUpdate{}, want: socialfeed.UserUpdateResult{}},
		{name: "same username is a no-op", upd: socialfeed.UserUpdate{Username: "alice"}},
		{name: "rename", upd: socialfeed.UserUpdate{Username: "alicia"}, want: socialfeed.UserUpdateResult{Username: "alicia"}, wantWrite: true},
		{name: "taken username", upd: socialfeed.UserUpdate{Username: "bob"}, wantErr: ErrUsernameTaken},
		{name: "about me", upd: socialfeed.UserUpdate{AboutMe: "hello"}, want: socialfeed.UserUpdateResult{AboutMe: "hello"}, wantWrite: true},
		{name: "bad email", upd: socialfeed.UserUpdate{Email: "nope"}, wantValid: true},
		{name: "wrong old password", upd: socialfeed.UserUpdate{OldPassword: "bad", NewPassword: "new-password"}, wantErr: ErrIncorrectPassword},
		{name: "only new password", upd: socialfeed.UserUpdate{NewPassword: "new-password"}, wantValid: true},
		{name: "password change", upd: socialfeed.UserUpdate{OldPassword: "old-password", NewPassword: "new-password"}, wantWrite: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _ := newUserFixture(t)
			got, err := svc.Update(context.Background(), 1, tt.upd)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			case tt.wantValid:
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
			if wrote := len(users.updated) > 0; wrote != tt.wantWrite {
				t.Errorf("expected write=%v, got %v", tt.wantWrite, wrote)
			}
			if tt.upd.NewPassword != "" && tt.wantWrite {
				if err := verifyPassword(users.updated[0].PasswordHash, tt.upd.NewPassword); err != nil {
					t.Errorf("new password not stored: %v", err)
				}
			}
		})
	}
}

func TestUserService_UpdateProfilePictureReplacesOldImage(t *testing.T) {
	svc, users, images := newUserFixture(t)
	images.files["users/old.png"] = []byte("old")

	name, err := svc.UpdateProfilePicture(context.Background(), 1, Upload{ContentType: "image/png", Data: pngHeader})
	if err != nil {
		t.Fatalf("UpdateProfilePicture: %v", err)
	}
	if _, ok := images.files["users/"+name]; !ok {
		t.Errorf("expected new image %q to be stored", name)
	}
	if _, ok := images.files["users/old.png"]; ok {
		t.Error("expected old image to be removed")
	}
	if users.updated[0].ProfilePicture != name {
		t.Errorf("expected user to point at %q, got %q", name, users.updated[0].ProfilePicture)
	}
}

func TestUserService_UpdateBannerKeepsPlaceholder(t *testing.T) {
	svc, _, images := newUserFixture(t)

	if _, err := svc.UpdateBannerPicture(context.Background(), 1, Upload{ContentType: "image/png", Data: pngHeader}); err != nil {
		t.Fatalf("UpdateBannerPicture: %v", err)
	}
	for _, r := range images.removed {
		if r == "users/"+socialfeed.PlaceholderBannerPicture {
			t.Error("placeholder must never be removed")
		}
	}
}

func TestUserService_UpdatePictureRejectsMismatchedType(t *testing.T) {
	svc, users, images := newUserFixture(t)

	_, err := svc.UpdateProfilePicture(context.Background(), 1, Upload{ContentType: "image/jpeg", Data: pngHeader})
	var verr *imagestore.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected imagestore.ValidationError, got %v", err)
	}
	if len(users.updated) != 0 || len(images.files) != 0 {
		t.Error("nothing should be written on invalid upload")
	}
}

func TestUserService_DeleteRemovesImages(t *testing.T) {
	svc, users, images := newUserFixture(t)
	img := "p.png"
	svc.posts = &mockPosts{
		ListFn: func(f repository.PostFilter) ([]socialfeed.Post, error) {
			if f.AuthorID != 1 || !f.HasImage {
				t.Errorf("unexpected filter %+v", f)
			}
			return []socialfeed.Post{{ID: 3, UID: 1, Image: &img}}, nil
		},
	}
	deleted := 0
	users.DeleteFn = func(id int) error { deleted = id; return nil }

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected user 1 deleted, got %d", deleted)
	}
	want := map[string]bool{"users/old.png": true, "posts/p.png": true}
	for _, r := range images.removed {
		delete(want, r)
	}
	if len(want) != 0 {
		t.Errorf("images not removed: %v (removed %v)", want, images.removed)
	}
}

func TestUserService_ListIsDescendingAndCapped(t *testing.T) {
	var got repository.UserFilter
	users := &mockUsers{ListFn: func(f repository.UserFilter) ([]socialfeed.UserSummary, error) {
		got = f
		return nil, nil
	}}
	svc := NewUserService(users, &mockPosts{}, newMemImages())

	_, _ = svc.List(context.Background(), UserQuery{Query: " al ", PageQuery: PageQuery{Size: 500, LastID: 9}})
	want := repository.UserFilter{Query: "al", Page: repository.Page{Size: MaxPageSize, LastID: 9, Descending: true}}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
