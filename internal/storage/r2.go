package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	appconfig "zomaksho/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNotConfigured = errors.New("object storage is not configured")

// Uploader stores an object and returns where it can be fetched.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// R2Client talks to Cloudflare R2 through its S3-compatible API.
type R2Client struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewR2Client(ctx context.Context, cfg appconfig.R2Config) (*R2Client, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	awsCfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			),
		),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &R2Client{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (r *R2Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return PublicURL(r.baseURL, r.bucket, key), nil
}

// PublicURL falls back to a bucket-relative URL when no public base is set.
func PublicURL(baseURL, bucket, key string) string {
	if baseURL == "" {
		return fmt.Sprintf("https://%s/%s", bucket, key)
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(baseURL, "/"), key)
}
