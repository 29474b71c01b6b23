// Package s3 uploads assets to an S3-compatible bucket such as Cloudflare R2.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bft-labs/assetship/internal/ports"
)

// DefaultCacheControl marks assets as immutable for a year. Names are content
// addressed, so a changed asset always gets a new key.
const DefaultCacheControl = "public, max-age=31536000"

// Options configures the uploader.
type Options struct {
	AccessKeyID     string
	SecretAccessKey string
	EndpointURL     string
	Bucket          string

	// PublicURL is the base of public asset URLs, without a trailing slash
	PublicURL string

	// CacheControl defaults to DefaultCacheControl
	CacheControl string

	// HTTPClient overrides the SDK transport
	HTTPClient *http.Client
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader implements ports.Uploader.
type Uploader struct {
	api          putObjectAPI
	bucket       string
	publicURL    string
	cacheControl string
	logger       ports.Logger
}

// NewUploader creates an uploader backed by the AWS SDK S3 client.
func NewUploader(opts Options, logger ports.Logger) (*Uploader, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if opts.EndpointURL == "" {
		return nil, fmt.Errorf("endpoint URL is required")
	}

	s3opts := s3.Options{
		Region:                     "auto",
		Credentials:                credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		BaseEndpoint:               aws.String(opts.EndpointURL),
		UsePathStyle:               true,
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	}
	if opts.HTTPClient != nil {
		s3opts.HTTPClient = opts.HTTPClient
	}

	return newUploader(s3.New(s3opts), opts, logger), nil
}

func newUploader(api putObjectAPI, opts Options, logger ports.Logger) *Uploader {
	cc := opts.CacheControl
	if cc == "" {
		cc = DefaultCacheControl
	}
	return &Uploader{
		api:          api,
		bucket:       opts.Bucket,
		publicURL:    strings.TrimRight(opts.PublicURL, "/"),
		cacheControl: cc,
		logger:       logger,
	}
}

// Upload stores body under key and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String(u.cacheControl),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	url := u.URL(key)
	u.logger.Debug("uploaded asset",
		ports.String("key", key),
		ports.Int("bytes", len(body)),
		ports.String("url", url),
	)
	return url, nil
}

// URL returns the public URL for key.
func (u *Uploader) URL(key string) string {
	return u.publicURL + "/" + strings.TrimLeft(key, "/")
}
