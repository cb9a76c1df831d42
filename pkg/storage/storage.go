package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/5280sourcegroup/website/pkg/logger"
	"github.com/5280sourcegroup/website/pkg/metrics"
	"github.com/5280sourcegroup/website/pkg/retry"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KeyPrefix is the bucket folder that holds quote attachments.
const KeyPrefix = "quote-requests"

// ObjectAPI is the part of the S3 client used here.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Config describes an S3-compatible bucket.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
}

// Client uploads quote attachments to an S3-compatible bucket
type Client struct {
	api        ObjectAPI
	bucketName string
	endpoint   string
	retry      retry.Config
}

// NewClient creates a path-style S3 client. An empty endpoint targets AWS.
func NewClient(cfg Config) *Client {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := s3.Options{
		Region:       region,
		UsePathStyle: true,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	} else {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", region)
	}

	logger.Info("Attachment storage client initialized",
		zap.String("bucket", cfg.BucketName),
		zap.String("endpoint", endpoint),
		zap.String("region", region),
	)

	return NewWithAPI(s3.New(opts), cfg.BucketName, endpoint)
}

// NewWithAPI builds a Client on top of an existing S3 API implementation.
func NewWithAPI(api ObjectAPI, bucketName, endpoint string) *Client {
	return &Client{
		api:        api,
		bucketName: bucketName,
		endpoint:   endpoint,
		retry:      retry.StorageConfig(),
	}
}

// Upload stores data under key and returns the object URL.
func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	start := time.Now()
	operation := "putObject"

	err := retry.Do(ctx, c.retry, "storage."+operation, func() error {
		_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(c.bucketName),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentType:   aws.String(contentType),
			ContentLength: aws.Int64(int64(len(data))),
		})
		return err
	})

	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall("storage", operation, "error", duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall("storage", operation, "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(data)),
	)

	return c.ObjectURL(key), nil
}

// ObjectURL is the path-style URL of key.
func (c *Client) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucketName, key)
}

// Ping checks that the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucketName)})
	if err != nil {
		return fmt.Errorf("bucket %s is not reachable: %w", c.bucketName, err)
	}
	return nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// AttachmentKey builds the object key for an attachment of quote request id. The file
// name is reduced to a safe slug and always ends in .pdf.
func AttachmentKey(id uuid.UUID, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.Trim(unsafeKeyChars.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		base = "attachment"
	}
	if len(base) > 100 {
		base = base[:100]
	}
	return fmt.Sprintf("%s/%s/%s.pdf", KeyPrefix, id, strings.ToLower(base))
}
