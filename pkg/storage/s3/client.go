package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/angelmondragon/castcall-backend/pkg/config"
	"github.com/angelmondragon/castcall-backend/pkg/logger"
	"github.com/angelmondragon/castcall-backend/pkg/storage"
)

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Client writes submission blobs to an S3 bucket.
type Client struct {
	api           objectAPI
	bucket        string
	prefix        string
	publicBaseURL string
}

// NewClient loads credentials from the default AWS chain (env, shared config, instance role).
func NewClient(ctx context.Context, cfg config.S3Config, publicBaseURL string, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("s3 bucket name is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := &Client{
		api:           s3.NewFromConfig(awsCfg),
		bucket:        cfg.BucketName,
		prefix:        cfg.KeyPrefix,
		publicBaseURL: publicBaseURL,
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.BucketName), "s3 client initialized")
	}
	return client, nil
}

func (c *Client) Put(ctx context.Context, folderKey, filename, contentType string, data []byte) (string, error) {
	key, err := storage.ObjectKey(c.prefix, folderKey, filename)
	if err != nil {
		return "", err
	}
	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := c.api.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	if c.publicBaseURL != "" {
		return storage.PublicURL(c.publicBaseURL, key), nil
	}
	return "s3://" + c.bucket + "/" + key, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.api == nil {
		return errors.New("s3 client not initialized")
	}
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	return err
}
