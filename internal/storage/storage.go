// Package storage issues short-lived direct upload and download URLs for
// applicant documents kept in an S3 compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"hireflow/internal/config"
	"hireflow/internal/logging"
)

// KeyPrefix is the folder every uploaded document lives under
const KeyPrefix = "documents/"

var (
	// ErrDisabled is returned when no bucket is configured
	ErrDisabled = errors.New("object storage is not configured")
	// ErrContentType is returned for files that are not documents
	ErrContentType = errors.New("unsupported content type")
	// ErrInvalidKey is returned for references outside the document folder
	ErrInvalidKey = errors.New("invalid storage reference")
)

// AllowedContentTypes are the document formats accepted for upload
var AllowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/rtf":    true,
	"text/plain":         true,

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Upload is a presigned upload target and the reference to store once the
// upload completes. ContentType is the header value covered by the
// signature; the PUT must send exactly that value.
type Upload struct {
	URL         string
	Key         string
	ContentType string
	ExpiresAt   time.Time
}

// ObjectStore hands out presigned URLs for documents
type ObjectStore interface {
	PresignUpload(ctx context.Context, contentType string) (*Upload, error)
	PresignDownload(ctx context.Context, key string) (string, error)
	Healthy(ctx context.Context) error
}

// Spaces is an ObjectStore backed by DigitalOcean Spaces or any S3 API
type Spaces struct {
	client s3iface.S3API
	bucket string
	ttl    time.Duration
	logger logging.Logger
}

// NewSpaces creates a client for the configured bucket. Presigning is done
// locally and needs no network access.
func NewSpaces(cfg config.SpacesConfig, logger logging.Logger) (*Spaces, error) {
	if cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" {
		return nil, fmt.Errorf("spaces credentials are required")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("spaces bucket name is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", cfg.Region)
	}

	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.AccessKeySecret, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create spaces session: %w", err)
	}

	logger = logger.WithField("component", "storage")
	logger.Info("Spaces client initialized", map[string]interface{}{
		"bucket_name": cfg.BucketName,
		"region":      cfg.Region,
		"endpoint":    endpoint,
	})

	return &Spaces{
		client: s3.New(sess),
		bucket: cfg.BucketName,
		ttl:    cfg.UploadURLTTL,
		logger: logger,
	}, nil
}

// PresignUpload returns a PUT URL for a new document. An empty content type
// leaves the upload unconstrained.
func (s *Spaces) PresignUpload(ctx context.Context, contentType string) (*Upload, error) {
	contentType = normalizeContentType(contentType)
	if contentType != "" && !AllowedContentTypes[contentType] {
		return nil, fmt.Errorf("%w: %s", ErrContentType, contentType)
	}

	key := KeyPrefix + uuid.NewString()
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, _ := s.client.PutObjectRequest(input)
	req.SetContext(ctx)
	url, err := req.Presign(s.ttl)
	if err != nil {
		s.logger.Error("Failed to presign upload", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &Upload{URL: url, Key: key, ContentType: contentType, ExpiresAt: time.Now().UTC().Add(s.ttl)}, nil
}

// PresignDownload returns a GET URL for a stored document
func (s *Spaces) PresignDownload(ctx context.Context, key string) (string, error) {
	if !ValidKey(key) {
		return "", ErrInvalidKey
	}

	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)
	url, err := req.Presign(s.ttl)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

// Healthy checks that the bucket is reachable
func (s *Spaces) Healthy(ctx context.Context) error {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		s.logger.Error("Spaces health check failed", map[string]interface{}{
			"bucket_name": s.bucket,
			"error":       err.Error(),
		})
		return fmt.Errorf("head bucket: %w", err)
	}
	return nil
}

// Disabled is the ObjectStore used when no bucket is configured
type Disabled struct{}

func (Disabled) PresignUpload(context.Context, string) (*Upload, error) { return nil, ErrDisabled }
func (Disabled) PresignDownload(context.Context, string) (string, error) { return "", ErrDisabled }
func (Disabled) Healthy(context.Context) error { return ErrDisabled }

// ValidKey reports whether key is a reference issued by PresignUpload
func ValidKey(key string) bool {
	id, ok := strings.CutPrefix(key, KeyPrefix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
