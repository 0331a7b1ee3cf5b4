// Package storage talks to the S3-compatible object store (MinIO in
// development) on behalf of the dev backend. Clients never see credentials:
// they only receive presigned URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	dc "github.com/dmitrijs2005/timecapsule/internal/devbackend/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	headObject = func(c *s3.Client, ctx context.Context, in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
		return c.HeadObject(ctx, in)
	}
	headBucket = func(c *s3.Client, ctx context.Context, in *s3.HeadBucketInput) error {
		_, err := c.HeadBucket(ctx, in)
		return err
	}
	createBucket = func(c *s3.Client, ctx context.Context, in *s3.CreateBucketInput) error {
		_, err := c.CreateBucket(ctx, in)
		return err
	}
)

// ErrObjectNotFound is returned by Head when nothing was uploaded under the key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo is what the store reports about an uploaded object.
type ObjectInfo struct {
	Size        int64
	ContentType string
}

type S3Store struct {
	bucket          string
	ttl             time.Duration
	signContentType bool
	client          *s3.Client
	presign         *s3.PresignClient
}

func NewS3Store(ctx context.Context, c *dc.Config) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3AccessKey,
			c.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		bucket:          c.S3Bucket,
		ttl:             c.PresignTTL,
		signContentType: c.SignContentType,
		client:          client,
		presign:         newS3PresignClient(client),
	}, nil
}

// NewObjectKey returns a fresh key scoped to the user and the upload day.
func NewObjectKey(userID string, now time.Time) string {
	return fmt.Sprintf("users/%s/%d/%d/%d/%v", userID, now.Year(), now.Month(), now.Day(), uuid.New())
}

// PresignPut returns a URL the client can PUT the object to. When content
// type signing is on, the PUT must carry exactly contentType.
func (s *S3Store) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if s.signContentType && contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	req, err := presignPutObject(s.presign, ctx, in, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}
	return req.URL, nil
}

func (s *S3Store) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := presignGetObject(s.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}

// Head checks that key exists and reports its size and content type.
func (s *S3Store) Head(ctx context.Context, key string) (ObjectInfo, error) {
	out, err := headObject(s.client, ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return ObjectInfo{}, ErrObjectNotFound
		}
		return ObjectInfo{}, fmt.Errorf("head object: %w", err)
	}

	return ObjectInfo{
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	err := headBucket(s.client, ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("head bucket: %w", err)
	}
	if err := createBucket(s.client, ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	var nk *types.NoSuchKey
	var nb *types.NoSuchBucket
	return errors.As(err, &nf) || errors.As(err, &nk) || errors.As(err, &nb)
}
