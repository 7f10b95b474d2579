package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const backupPrefix = "backups/"

// S3Mirror uploads ledger backup copies to an S3 bucket. When no bucket is
// configured the mirror is disabled and every upload is a no-op at the
// caller's side.
type S3Mirror struct {
	Client *s3.Client
	Bucket string
}

// NewS3Mirror builds a mirror from ORDERS_S3_BUCKET and the ambient AWS
// configuration; an unset bucket yields a disabled mirror, not an error.
func NewS3Mirror(ctx context.Context) (*S3Mirror, error) {
	bucket := os.Getenv("ORDERS_S3_BUCKET")
	if bucket == "" {
		return &S3Mirror{}, nil
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	if region == "" {
		region = "eu-central-1"
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &S3Mirror{Client: s3.NewFromConfig(cfg), Bucket: bucket}, nil
}

// Enabled reports whether a bucket was configured
func (m *S3Mirror) Enabled() bool { return m != nil && m.Client != nil && m.Bucket != "" }

// UploadFile stores the file under backups/<name> in the bucket
func (m *S3Mirror) UploadFile(ctx context.Context, name, path string) error {
	if !m.Enabled() {
		return fmt.Errorf("s3 mirror not configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	key := backupPrefix + name
	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	_, err = m.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &m.Bucket,
		Key:         &key,
		Body:        f,
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("upload backup to s3: %w", err)
	}
	return nil
}
