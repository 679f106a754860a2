package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrBucketNotConfigured = errors.New("AWS_BUCKET_NAME is not configured")

// ImageHost stores an image under folder/publicID and returns its public URL.
type ImageHost interface {
	Upload(ctx context.Context, body io.Reader, contentType, folder, publicID string) (string, error)
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageHost keeps images in an S3 bucket.
type S3ImageHost struct {
	client  s3API
	bucket  string
	region  string
	baseURL string
}

// NewS3ImageHost loads the default AWS credential chain for region. When
// baseURL is empty, URLs point at the bucket's virtual-hosted endpoint.
func NewS3ImageHost(ctx context.Context, region, bucket, baseURL string) (*S3ImageHost, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &S3ImageHost{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		region:  region,
		baseURL: baseURL,
	}, nil
}

func (h *S3ImageHost) Upload(ctx context.Context, body io.Reader, contentType, folder, publicID string) (string, error) {
	if h.bucket == "" {
		return "", ErrBucketNotConfigured
	}
	key := path.Join(folder, publicID)
	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return h.URL(key), nil
}

func (h *S3ImageHost) URL(key string) string {
	if h.baseURL != "" {
		return strings.TrimRight(h.baseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", h.bucket, h.region, key)
}
