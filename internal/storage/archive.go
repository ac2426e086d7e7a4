// Package storage keeps raw model replies for later diagnosis.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/medidiet/backend/config"
)

// ObjectPutter is the subset of *s3.Client the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive writes objects under a fixed prefix of one bucket.
type S3Archive struct {
	client ObjectPutter
	bucket string
	prefix string
}

func NewS3Archive(client ObjectPutter, bucket, prefix string) *S3Archive {
	return &S3Archive{client: client, bucket: bucket, prefix: prefix}
}

// NewS3ArchiveFromConfig builds an archive from an initialized S3 client.
func NewS3ArchiveFromConfig(cfg *config.S3Config) *S3Archive {
	return NewS3Archive(cfg.Client, cfg.BucketName, cfg.Prefix)
}

// Archive stores body as plain text at prefix/key.
func (a *S3Archive) Archive(ctx context.Context, key string, body []byte) error {
	objectKey := path.Join(a.prefix, key)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", objectKey, err)
	}
	return nil
}
