package remote

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"

	"github.com/knagano/go-meal-log/internal/config"
)

// S3BlobStore is the S3-backed [BlobStore]. A custom endpoint with
// path-style addressing supports MinIO and other self-hosted deployments.
type S3BlobStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3BlobStore builds an [S3BlobStore] from the blob-store configuration
// using static credentials.
func NewS3BlobStore(ctx context.Context, cfg config.S3) (*S3BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("empty bucket: %w", ErrNotConfigured)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load blob store config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3BlobStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// Put implements [BlobStore].
func (b *S3BlobStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}
	return nil
}

// Delete implements [BlobStore].
func (b *S3BlobStore) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

// PresignGet implements [BlobStore].
func (b *S3BlobStore) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign blob %s: %w", key, err)
	}
	return req.URL, nil
}

type restyPhotoFetcher struct {
	client *resty.Client
}

// NewPhotoFetcher returns a [PhotoFetcher] downloading signed URLs over
// HTTP.
func NewPhotoFetcher(timeout time.Duration) PhotoFetcher {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &restyPhotoFetcher{client: client}
}

// Fetch implements [PhotoFetcher].
func (f *restyPhotoFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch photo: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch photo: unexpected status %s", resp.Status())
	}
	return resp.Body(), nil
}
