// Package imagestore validates uploaded pictures and keeps them on disk or
// in an S3-compatible bucket.
package imagestore

import (
	"context"
	"errors"
	"io"
)

// Kind selects the folder (or key prefix) an image lives under.
type Kind string

const (
	KindUsers Kind = "users"
	KindPosts Kind = "posts"
)

// ErrNotFound is returned by Open when no such image exists.
var ErrNotFound = errors.New("image not found")

// Store persists validated images.
type Store interface {
	Save(ctx context.Context, kind Kind, img Image) error
	Remove(ctx context.Context, kind Kind, name string) error
	Open(ctx context.Context, kind Kind, name string) (io.ReadCloser, error)
}

// ParseKind maps a URL segment to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindUsers, KindPosts:
		return Kind(s), true
	}
	return "", false
}
