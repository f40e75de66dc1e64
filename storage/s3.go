package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Options configures an S3 (or S3-compatible) bucket.
type S3Options struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // for MinIO and similar; switches to path-style addressing
	PublicURL       string // base URL objects are served from, if not the bucket endpoint
}

// S3 stores videos in a bucket and supports server-side uploads.
type S3 struct {
	opts     S3Options
	client   *s3.S3
	uploader *s3manager.Uploader
}

// deleteBatch is the DeleteObjects per-request limit.
const deleteBatch = 1000

// NewS3 creates the session, client and uploader for opts.
func NewS3(opts S3Options) (*S3, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}

	c := aws.Config{
		Region: aws.String(opts.Region),
	}
	if opts.AccessKeyID != "" {
		c.Credentials = credentials.NewStaticCredentials(opts.AccessKeyID, opts.SecretAccessKey, "")
	}
	if opts.Endpoint != "" {
		c.Endpoint = aws.String(opts.Endpoint)
		c.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(&c)
	if err != nil {
		return nil, fmt.Errorf("s3: session: %w", err)
	}

	return &S3{
		opts:     opts,
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
	}, nil
}

// URL returns where key is served from.
func (s *S3) URL(key string) string {
	switch {
	case s.opts.PublicURL != "":
		return strings.TrimRight(s.opts.PublicURL, "/") + "/" + key
	case s.opts.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.opts.Endpoint, "/"), s.opts.Bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, key)
	}
}

// Upload streams body to key using s3manager.
func (s *S3) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	input := s3manager.UploadInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.uploader.UploadWithContext(ctx, &input); err != nil {
		return fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return nil
}

// Delete removes keys in batches of up to 1000.
func (s *S3) Delete(ctx context.Context, keys []string) error {
	for start := 0; start < len(keys); start += deleteBatch {
		end := start + deleteBatch
		if end > len(keys) {
			end = len(keys)
		}

		objects := make([]*s3.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
		}

		out, err := s.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.opts.Bucket),
			Delete: &s3.Delete{Objects: objects, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("s3 delete: %w", err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return fmt.Errorf("s3 delete: %d objects failed, first %s: %s",
				len(out.Errors), aws.StringValue(first.Key), aws.StringValue(first.Message))
		}
	}
	return nil
}
