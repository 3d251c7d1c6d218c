// Package storage issues presigned upload URLs for the blob buckets on an
// S3-compatible backend (MinIO in development).
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/passionpath/internal/common"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
	sc "github.com/dmitrijs2005/passionpath/internal/server/config"
)

// UploadURLValidity is how long a presigned PUT stays usable.
const UploadURLValidity = 15 * time.Minute

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
)

// Presigner presigns uploads into the configured buckets.
type Presigner struct {
	config *sc.Config
}

func NewPresigner(cfg *sc.Config) *Presigner {
	return &Presigner{config: cfg}
}

// BucketName maps a logical bucket to the physical one.
func (p *Presigner) BucketName(bucket string) string {
	return p.config.S3BucketPrefix + bucket
}

func (p *Presigner) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(p.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.config.S3RootUser,
			p.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(p.config.S3BaseEndpoint)
		// MinIO serves buckets under the endpoint path
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignPut validates the upload target and returns a presigned PUT for it.
func (p *Presigner) PresignPut(ctx context.Context, up rs.Upload) (*rs.UploadTicket, error) {
	if err := ValidateUpload(up); err != nil {
		return nil, err
	}

	pc, err := p.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("presign client: %w", err)
	}

	bucket := p.BucketName(up.Bucket)
	key := up.Path
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(UploadURLValidity))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &rs.UploadTicket{Bucket: bucket, StoredPath: up.Path, UploadURL: req.URL}, nil
}

// ValidateUpload rejects unknown buckets and paths that escape the bucket.
func ValidateUpload(up rs.Upload) error {
	if !rs.KnownBucket(up.Bucket) {
		return fmt.Errorf("%w: unknown bucket %q", common.ErrorValidation, up.Bucket)
	}
	if up.Path == "" || strings.HasPrefix(up.Path, "/") {
		return fmt.Errorf("%w: invalid path %q", common.ErrorValidation, up.Path)
	}
	for _, seg := range strings.Split(up.Path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: invalid path %q", common.ErrorValidation, up.Path)
		}
	}
	return nil
}
