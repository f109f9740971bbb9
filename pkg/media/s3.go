package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config describes an S3-compatible bucket
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	PublicURL string
	Folder    string
}

type objectAPI interface {
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

// S3 stores assets as objects in a single bucket
type S3 struct {
	cfg    S3Config
	client objectAPI
}

// NewS3 connects to the endpoint and creates the bucket when it is missing
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	cl, err := minio.New(strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://"), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cl.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := cl.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}
	return &S3{cfg: cfg, client: cl}, nil
}

// Upload puts r under a fresh key. A known size lets minio stream the object
// instead of buffering a full multipart part.
func (s *S3) Upload(ctx context.Context, r io.Reader, size int64, filename string, kind Kind) (*Asset, error) {
	if err := CheckFormat(filename, kind); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("put object: unknown size for %s", filename)
	}
	key := path.Join(s.cfg.Folder, uuid.NewString()+strings.ToLower(path.Ext(filename)))
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentTypeFor(filename, kind),
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}
	return &Asset{URL: s.objectURL(key), PublicID: key, Kind: kind}, nil
}

func (s *S3) Delete(ctx context.Context, publicIDOrURL string, _ Kind) error {
	if publicIDOrURL == "" {
		return nil
	}
	key := strings.TrimPrefix(publicIDOrURL, s.objectURL(""))
	return s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{})
}

func (s *S3) objectURL(key string) string {
	return strings.TrimRight(s.cfg.PublicURL, "/") + "/" + s.cfg.Bucket + "/" + key
}

func contentTypeFor(filename string, kind Kind) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	switch ext {
	case "jpg":
		ext = "jpeg"
	case "mov":
		ext = "quicktime"
	case "avi":
		ext = "x-msvideo"
	}
	return string(kind) + "/" + ext
}
