package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DiskStore keeps images under Root/<kind>/<name>.
type DiskStore struct {
	Root string
}

var _ Store = (*DiskStore)(nil)

// NewDiskStore creates the kind folders under root.
func NewDiskStore(root string) (*DiskStore, error) {
	for _, k := range []Kind{KindUsers, KindPosts} {
		if err := os.MkdirAll(filepath.Join(root, string(k)), 0o755); err != nil {
			return nil, fmt.Errorf("create image dir %q: %w", k, err)
		}
	}
	return &DiskStore{Root: root}, nil
}

func (s *DiskStore) path(kind Kind, name string) (string, error) {
	if !safeName(name) {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	return filepath.Join(s.Root, string(kind), name), nil
}

func (s *DiskStore) Save(_ context.Context, kind Kind, img Image) error {
	p, err := s.path(kind, img.Name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, img.Data, 0o644); err != nil {
		return fmt.Errorf("write image %q: %w", img.Name, err)
	}
	return nil
}

// Remove deletes an image; a missing file is not an error.
func (s *DiskStore) Remove(_ context.Context, kind Kind, name string) error {
	p, err := s.path(kind, name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image %q: %w", name, err)
	}
	return nil
}

func (s *DiskStore) Open(_ context.Context, kind Kind, name string) (io.ReadCloser, error) {
	p, err := s.path(kind, name)
	if err != nil {
		return nil, ErrNotFound
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open image %q: %w", name, err)
	}
	return f, nil
}
