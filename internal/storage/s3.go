package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3 uploads files to a bucket
type S3 struct {
	bucket   string
	prefix   string
	baseURL  string
	uploader *s3manager.Uploader
}

// NewS3 creates an S3 store. When baseURL is not absolute the bucket's
// virtual-hosted endpoint is used.
func NewS3(bucket, region, prefix, baseURL string) (*S3, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", bucket, region)
	}
	return &S3{
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		baseURL:  baseURL,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

// Save uploads body and returns the object key
func (s *S3) Save(ctx context.Context, filename string, body io.Reader) (string, error) {
	key, err := objectKey(s.prefix, filename)
	if err != nil {
		return "", err
	}
	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

// URL returns the public URL of handle
func (s *S3) URL(handle string) string {
	return joinURL(s.baseURL, handle)
}
