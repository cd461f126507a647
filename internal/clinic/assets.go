package clinic

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by AssetStore.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// AssetStore uploads clinic branding assets to S3.
type AssetStore struct {
	bucket   string
	s3Client S3API
	now      func() time.Time
}

// NewAssetStore creates an asset store. If bucket is empty, uploads
// are rejected.
func NewAssetStore(s3Client S3API, bucket string) *AssetStore {
	return &AssetStore{bucket: bucket, s3Client: s3Client, now: time.Now}
}

// Enabled returns true if uploads are configured.
func (s *AssetStore) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

// UploadLogo stores a clinic logo and returns its public URL.
func (s *AssetStore) UploadLogo(ctx context.Context, orgID, contentType string, body io.Reader) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("clinic: logo uploads not configured")
	}

	key := fmt.Sprintf("branding/%s/logo-%d", orgID, s.now().UTC().Unix())

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("clinic: s3 put %s: %w", key, err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}
