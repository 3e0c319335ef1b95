package service

import (
	"context"
	"errors"
	"testing"

	"socialfeed"
	"socialfeed/internal/repository"
)

func TestPageQuery_page(t *testing.T) {
	tests := []struct {
		in   PageQuery
		want repository.Page
	}{
		{PageQuery{}, repository.Page{Size: DefaultPageSize}},
		{PageQuery{Size: 3, LastID: 4, Descending: true}, repository.Page{Size: 3, LastID: 4, Descending: true}},
		{PageQuery{Size: 1000, LastID: -2}, repository.Page{Size: MaxPageSize}},
	}
	for _, tt := range tests {
		if got := tt.in.page(); got != tt.want {
			t.Errorf("%+v.page() = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func existingUser(id int) (*socialfeed.User, error) {
	return &socialfeed.User{ID: id}, nil
}

func TestPostService_Create(t *testing.T) {
	var stored socialfeed.Post
	posts := &mockPosts{CreateFn: func(p socialfeed.Post) (int, error) {
		stored = p
		return 11, nil
	}}
	images := newMemImages()
	svc := NewPostService(posts, &mockUsers{GetByIDFn: existingUser}, images)

	id, err := svc.Create(context.Background(), 1, NewPost{
		Title:   "hi",
		Content: "there",
		Image:   &Upload{ContentType: "image/png", Data: pngHeader},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 11 {
		t.Errorf("expected id 11, got %d", id)
	}
	if stored.Image == nil {
		t.Fatal("expected image name on stored post")
	}
	if _, ok := images.files["posts/"+*stored.Image]; !ok {
		t.Errorf("expected image saved under posts/")
	}
}

func TestPostService_CreateValidation(t *testing.T) {
	posts := &mockPosts{CreateFn: func(socialfeed.Post) (int, error) {
		t.Fatal("Create should not be called")
		return 0, nil
	}}
	svc := NewPostService(posts, &mockUsers{GetByIDFn: existingUser}, newMemImages())

	for _, np := range []NewPost{
		{Title: "", Content: "x"},
		{Title: "x", Content: ""},
		{Title: string(make([]byte, 51)), Content: "x"},
	} {
		var verr *ValidationError
		if _, err := svc.Create(context.Background(), 1, np); !errors.As(err, &verr) {
			t.Errorf("expected ValidationError for %+v, got %v", np, err)
		}
	}
}

func TestPostService_DeleteChecksOwner(t *testing.T) {
	img := "a.png"
	deleted := false
	posts := &mockPosts{
		GetByIDFn: func(id int) (*socialfeed.Post, error) {
			return &socialfeed.Post{ID: id, UID: 2, Image: &img}, nil
		},
		DeleteFn: func(int) error { deleted = true; return nil },
	}
	images := newMemImages()
	svc := NewPostService(posts, &mockUsers{}, images)

	if err := svc.Delete(context.Background(), 1, 5); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound for foreign post, got %v", err)
	}
	if deleted {
		t.Fatal("foreign post must not be deleted")
	}
	if err := svc.Delete(context.Background(), 2, 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(images.removed) != 1 || images.removed[0] != "posts/a.png" {
		t.Errorf("expected post image removed, got %v", images.removed)
	}
}

func TestPostService_Filters(t *testing.T) {
	var got []repository.PostFilter
	posts := &mockPosts{ListFn: func(f repository.PostFilter) ([]socialfeed.Post, error) {
		got = append(got, f)
		return nil, nil
	}}
	svc := NewPostService(posts, &mockUsers{GetByIDFn: existingUser}, newMemImages())
	ctx := context.Background()

	_, _ = svc.List(ctx, PostQuery{Query: "go", LikedBy: 3, PageQuery: PageQuery{Descending: true}})
	_, _ = svc.ListByUser(ctx, 4, UserPostQuery{HasImage: true, PageQuery: PageQuery{Descending: true}})
	_, _ = svc.Feed(ctx, 5, PageQuery{LastID: 20})
	_, _ = svc.FeedSince(ctx, 5, 30, 50)

	want := []repository.PostFilter{
		{Query: "go", LikedBy: 3, Page: repository.Page{Size: DefaultPageSize}},
		{AuthorID: 4, HasImage: true, Page: repository.Page{Size: DefaultPageSize, Descending: true}},
		{FeedOf: 5, Page: repository.Page{Size: DefaultPageSize, LastID: 20, Descending: true}},
		{FeedOf: 5, Page: repository.Page{Size: 50, LastID: 30}},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestPostService_ListByUnknownUser(t *testing.T) {
	svc := NewPostService(&mockPosts{}, &mockUsers{GetByIDFn: func(int) (*socialfeed.User, error) { return nil, nil }}, newMemImages())
	if _, err := svc.ListByUser(context.Background(), 9, UserPostQuery{}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
