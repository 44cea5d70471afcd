package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageObject is the listing view of one stored blob.
type StorageObject struct {
	Key          string
	LastModified time.Time
}

// StorageService is the blob store behind product images. Keys are paths
// relative to the configured bucket, e.g. products/<productID>/<uuid>.jpg.
type StorageService interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
	KeyFromURL(rawURL string) string
	ListObjects(ctx context.Context, prefix string) ([]StorageObject, error)
	EnsureBucket(ctx context.Context) error
	Ping(ctx context.Context) error
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

func NewStorageService(endpoint, accessKey, secretKey, bucket string, useSSL bool) (StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorage{client: client, bucket: bucket}, nil
}

// Upload writes the object, overwriting any existing blob under the same key.
func (s *minioStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *minioStorage) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// PublicURL builds the stable, non-expiring URL stored on the image row.
func (s *minioStorage) PublicURL(key string) string {
	base := *s.client.EndpointURL()
	base.Path = path.Join("/", s.bucket, key)
	return base.String()
}

// KeyFromURL inverts PublicURL. It returns "" when the URL does not point
// into this bucket.
func (s *minioStorage) KeyFromURL(rawURL string) string {
	prefix := "/" + s.bucket + "/"
	idx := strings.Index(rawURL, prefix)
	if idx < 0 {
		return ""
	}
	return rawURL[idx+len(prefix):]
}

func (s *minioStorage) ListObjects(ctx context.Context, prefix string) ([]StorageObject, error) {
	var objects []StorageObject
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		objects = append(objects, StorageObject{Key: obj.Key, LastModified: obj.LastModified})
	}
	return objects, nil
}

func (s *minioStorage) EnsureBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !found {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (s *minioStorage) Ping(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}
