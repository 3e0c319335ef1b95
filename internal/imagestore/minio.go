package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ClientMinio is the subset of *minio.Client the store needs.
type ClientMinio interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// MinioStore keeps images in a bucket under "<kind>/<name>".
type MinioStore struct {
	bucket string
	client ClientMinio
}

var _ Store = (*MinioStore)(nil)

// NewMinioStore connects to an S3-compatible endpoint.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	c, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", endpoint, err)
	}
	return NewMinioStoreWithClient(c, bucket), nil
}

func NewMinioStoreWithClient(c ClientMinio, bucket string) *MinioStore {
	return &MinioStore{bucket: bucket, client: c}
}

func objectKey(kind Kind, name string) string {
	return string(kind) + "/" + name
}

func (s *MinioStore) Save(ctx context.Context, kind Kind, img Image) error {
	if !safeName(img.Name) {
		return fmt.Errorf("invalid image name %q", img.Name)
	}
	_, err := s.client.PutObject(ctx, s.bucket, objectKey(kind, img.Name),
		bytes.NewReader(img.Data), int64(len(img.Data)),
		minio.PutObjectOptions{ContentType: img.ContentType})
	if err != nil {
		return fmt.Errorf("put image %q: %w", img.Name, err)
	}
	return nil
}

func (s *MinioStore) Remove(ctx context.Context, kind Kind, name string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey(kind, name), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove image %q: %w", name, err)
	}
	return nil
}

// Open stats the object first so a missing key maps to ErrNotFound instead
// of failing on the first Read.
func (s *MinioStore) Open(ctx context.Context, kind Kind, name string) (io.ReadCloser, error) {
	if !safeName(name) {
		return nil, ErrNotFound
	}
	key := objectKey(kind, name)
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat image %q: %w", name, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get image %q: %w", name, err)
	}
	return obj, nil
}
