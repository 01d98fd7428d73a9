// Package blob uploads user-provided media (profile photos, quiz cover
// images) to an S3-compatible bucket and hands back public URLs.
package blob

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"path/filepath"

	appconfig "quizdeck/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Uploader is the piece of the blob client services depend on.
type Uploader interface {
	Upload(ctx context.Context, objectKey, filename string, content io.Reader) (string, error)
}

// Client wraps an S3-compatible object store.
type Client struct {
	s3Client  *s3.Client
	bucket    string
	publicURL string
}

// NewClient builds a blob client from configuration. It returns (nil, nil)
// when the blob section is not configured, so callers can run with uploads
// disabled.
func NewClient(ctx context.Context, blobCfg appconfig.BlobConfig) (*Client, error) {
	if blobCfg.Endpoint == "" || blobCfg.Bucket == "" || blobCfg.AccessKeyID == "" ||
		blobCfg.SecretAccessKey == "" || blobCfg.PublicURL == "" {
		return nil, nil
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: blobCfg.Endpoint}, nil
	})

	region := blobCfg.Region
	if region == "" {
		region = "auto"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(blobCfg.AccessKeyID, blobCfg.SecretAccessKey, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load blob storage config: %w", err)
	}

	return &Client{
		s3Client:  s3.NewFromConfig(cfg),
		bucket:    blobCfg.Bucket,
		publicURL: blobCfg.PublicURL,
	}, nil
}

// Upload stores content at objectKey and returns its public URL. The
// content type is derived from the filename extension.
func (c *Client) Upload(ctx context.Context, objectKey, filename string, content io.Reader) (string, error) {
	if c == nil || c.s3Client == nil {
		return "", fmt.Errorf("blob client not configured")
	}

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(objectKey),
		Body:        content,
		ACL:         types.ObjectCannedACLPublicRead,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload blob (key: %s): %w", objectKey, err)
	}

	baseURL, err := url.Parse(c.publicURL)
	if err != nil {
		return "", fmt.Errorf("invalid blob public base URL: %w", err)
	}
	baseURL.Path = path.Join(baseURL.Path, objectKey)
	return baseURL.String(), nil
}

var _ Uploader = (*Client)(nil)
