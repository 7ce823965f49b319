package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
// Hosted backends exposing an S3 gateway work the same way; only the endpoint
// and credentials change.
type MinioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
	logger     *slog.Logger
}

// MinioOptions carries the connection settings for NewMinioStorage.
type MinioOptions struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	PublicBase string
	UseSSL     bool
}

// NewMinioStorage creates a MinIO client, ensures the bucket exists with a public-read
// policy, and returns a ready-to-use MinioStorage.
func NewMinioStorage(ctx context.Context, opts MinioOptions, logger *slog.Logger) (*MinioStorage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", opts.Bucket, err)
		}
		logger.Info("storage: created bucket", slog.String("bucket", opts.Bucket))
	}

	if err := client.SetBucketPolicy(ctx, opts.Bucket, publicReadPolicy(opts.Bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioStorage{
		client:     client,
		bucket:     opts.Bucket,
		publicBase: strings.TrimRight(opts.PublicBase, "/"),
		logger:     logger,
	}, nil
}

// Upload streams reader to MinIO under key. size must be the exact byte count
// (pass -1 only if the size is genuinely unknown; MinIO will buffer it).
// An existing object under the same key is overwritten.
func (s *MinioStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// Remove deletes every key in one batch request. Per-object failures are joined.
func (s *MinioStorage) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	objects := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		objects <- minio.ObjectInfo{Key: k}
	}
	close(objects)

	var errs []error
	for rErr := range s.client.RemoveObjects(ctx, s.bucket, objects, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("remove object %q: %w", rErr.ObjectName, rErr.Err))
	}
	return errors.Join(errs...)
}

// PublicURL returns the browser-accessible URL for the given key.
// For local MinIO: "http://localhost:9000/uploads/SN123/report.pdf"
func (s *MinioStorage) PublicURL(key string) (string, error) {
	return publicURL(s.publicBase, key)
}

func publicURL(base, key string) (string, error) {
	if base == "" || key == "" {
		return "", ErrNoPublicURL
	}
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return base + "/" + strings.Join(segments, "/"), nil
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
