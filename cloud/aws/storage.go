package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3Types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/spatocode/preview/internal/log"
)

// S3 stores published site files and deployment bundles in a single bucket.
type S3 struct {
	bucket    string
	awsConfig aws.Config
	client    *s3.Client
}

// NewS3 creates a new AWS S3 object
func NewS3(bucket string, awsConfig aws.Config) *S3 {
	return &S3{
		bucket:    bucket,
		awsConfig: awsConfig,
		client:    s3.NewFromConfig(awsConfig),
	}
}

func (s *S3) Bucket() string {
	return s.bucket
}

// Put writes body under key. The key is used verbatim.
func (s *S3) Put(ctx context.Context, key string, body []byte) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		input.ContentType = aws.String(t)
	}
	_, err := s.client.PutObject(ctx, input)
	return err
}

// Upload puts a local file in the bucket under prefix and returns its key.
func (s *S3) Upload(ctx context.Context, filePath, prefix string) (string, error) {
	f, err := os.Stat(filePath)
	if err != nil || f.Size() == 0 {
		return "", errors.New("encountered issue with packaged file")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := path.Join(prefix, filepath.Base(filePath))
	log.Debug(fmt.Sprintf("uploading file %s...", key))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	return key, nil
}

func (s *S3) headBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		log.Debug(fmt.Sprintf("s3 bucket error %#v", err))
	}
	return err
}

func (s *S3) Accessible(ctx context.Context) error {
	log.Debug(fmt.Sprintf("checking s3 bucket %s...", s.bucket))
	return s.headBucket(ctx)
}

// Delete removes an object from the bucket.
func (s *S3) Delete(ctx context.Context, key string) error {
	log.Debug(fmt.Sprintf("deleting s3 bucket object %s...", key))
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// CreateBucket creates the bucket in the configured region.
func (s *S3) CreateBucket(ctx context.Context) error {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	}
	// us-east-1 rejects an explicit location constraint.
	if r := s.awsConfig.Region; r != "" && r != "us-east-1" {
		input.CreateBucketConfiguration = &s3Types.CreateBucketConfiguration{
			LocationConstraint: s3Types.BucketLocationConstraint(r),
		}
	}
	log.Debug(fmt.Sprintf("creating s3 bucket %s...", s.bucket))
	_, err := s.client.CreateBucket(ctx, input)
	return err
}

// EnsureBucket creates the bucket unless it is already reachable.
func (s *S3) EnsureBucket(ctx context.Context) error {
	if err := s.Accessible(ctx); err == nil {
		return nil
	}
	return s.CreateBucket(ctx)
}

// DeletePrefix removes every object whose key starts with prefix.
func (s *S3) DeletePrefix(ctx context.Context, prefix string) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, object := range page.Contents {
			if err := s.Delete(ctx, aws.ToString(object.Key)); err != nil {
				return err
			}
		}
	}
	return nil
}
