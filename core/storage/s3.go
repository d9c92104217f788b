package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"volops/core/config"
	"volops/core/logger"
)

// Storage uploads event images to an S3-compatible object store.
type Storage interface {
	UploadImage(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

type s3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewStorage(cfg config.StorageConfig) Storage {
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		// Custom endpoint for S3-compatible stores (MinIO, Supabase storage, ...)
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return &s3Storage{
		client:    s3.New(opts),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}
}

// UploadImage stores the object and returns its public URL.
func (s *s3Storage) UploadImage(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		logger.Error("Storage:UploadImage", err)
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}
