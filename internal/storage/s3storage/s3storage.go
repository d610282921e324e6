package s3storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"atelier/internal/config"
	"atelier/internal/lib/logger/sl"
	"atelier/internal/storage"
)

// Client - хранилище изображений в S3-совместимом бакете (MinIO, AWS).
type Client struct {
	s3Client   *s3.Client
	uploader   *manager.Uploader
	bucketName string
	publicURL  string
	log        *slog.Logger
}

func New(ctx context.Context, cfg config.S3Config, log *slog.Logger) (*Client, error) {
	const op = "storage.s3storage.New"

	if cfg.Bucket == "" || cfg.Endpoint == "" {
		return nil, fmt.Errorf("%s: endpoint and bucket must be set", op)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: load aws config: %w", op, err)
	}

	endpoint := EndpointURL(cfg.Endpoint, cfg.UseSSL)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	c := &Client{
		s3Client:   s3Client,
		uploader:   manager.NewUploader(s3Client),
		bucketName: cfg.Bucket,
		publicURL:  PublicBaseURL(cfg),
		log:        log.With(slog.String("bucket", cfg.Bucket)),
	}

	if err := c.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context, region string) error {
	headCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := c.s3Client.HeadBucket(headCtx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucketName),
	})
	if err == nil {
		c.log.Debug("bucket already exists")
		return nil
	}

	c.log.Info("bucket not found, creating", sl.Err(err))

	input := &s3.CreateBucketInput{Bucket: aws.String(c.bucketName)}
	// us-east-1 не принимает LocationConstraint
	if region != "" && region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}

	if _, err := c.s3Client.CreateBucket(ctx, input); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if !errors.As(err, &owned) {
			return fmt.Errorf("create bucket %q: %w", c.bucketName, err)
		}
	}

	waiter := s3.NewBucketExistsWaiter(c.s3Client)
	if err := waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucketName)}, 30*time.Second); err != nil {
		return fmt.Errorf("wait for bucket %q: %w", c.bucketName, err)
	}

	c.log.Info("bucket created")
	return nil
}

func (c *Client) Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	const op = "storage.s3storage.Save"

	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", storage.ErrInvalidKey
	}

	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%s: upload %s: %w", op, key, err)
	}

	return key, nil
}

func (c *Client) Delete(ctx context.Context, path string) error {
	const op = "storage.s3storage.Delete"

	path = strings.TrimLeft(path, "/")
	if path == "" {
		return storage.ErrInvalidKey
	}

	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(path),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return storage.ErrFileNotFound
		}
		return fmt.Errorf("%s: delete %s: %w", op, path, err)
	}

	return nil
}

func (c *Client) URL(path string) string {
	return c.publicURL + "/" + strings.TrimLeft(path, "/")
}

// EndpointURL дополняет адрес схемой, если она не указана.
func EndpointURL(endpoint string, useSSL bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return strings.TrimRight(endpoint, "/")
	}
	if useSSL {
		return "https://" + strings.TrimRight(endpoint, "/")
	}
	return "http://" + strings.TrimRight(endpoint, "/")
}

// PublicBaseURL - адрес, по которому объекты доступны публично.
// Без явной настройки используется path-style адрес бакета.
func PublicBaseURL(cfg config.S3Config) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	return EndpointURL(cfg.Endpoint, cfg.UseSSL) + "/" + cfg.Bucket
}
