package storage

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/passionpath/internal/common"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
	sc "github.com/dmitrijs2005/passionpath/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPresigner() *Presigner {
	return NewPresigner(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3BucketPrefix: "pp-",
	})
}

func stubAWS(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		require.NotNil(t, opts.BaseEndpoint)
		assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
		assert.True(t, opts.UsePathStyle)
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func TestPresignPut_Success(t *testing.T) {
	stubAWS(t)
	var gotBucket, gotKey string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket, gotKey = *in.Bucket, *in.Key
		return &v4.PresignedHTTPRequest{URL: "http://minio/put", Method: http.MethodPut}, nil
	}

	ticket, err := newPresigner().PresignPut(context.Background(), rs.Upload{Bucket: rs.BucketHobbyCovers, Path: "u1/abc-cover.png"})
	require.NoError(t, err)
	assert.Equal(t, &rs.UploadTicket{Bucket: "pp-hobby-covers", StoredPath: "u1/abc-cover.png", UploadURL: "http://minio/put"}, ticket)
	assert.Equal(t, "pp-hobby-covers", gotBucket)
	assert.Equal(t, "u1/abc-cover.png", gotKey)
}

func TestPresignPut_Errors(t *testing.T) {
	stubAWS(t)
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign-fail")
	}

	_, err := newPresigner().PresignPut(context.Background(), rs.Upload{Bucket: rs.BucketResources, Path: "x-notes.pdf"})
	assert.ErrorContains(t, err, "sign-fail")

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err = newPresigner().PresignPut(context.Background(), rs.Upload{Bucket: rs.BucketResources, Path: "x-notes.pdf"})
	assert.ErrorContains(t, err, "load-fail")
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name string
		up   rs.Upload
		ok   bool
	}{
		{"cover", rs.Upload{Bucket: rs.BucketHobbyCovers, Path: "u1/id-a.png"}, true},
		{"resource", rs.Upload{Bucket: rs.BucketResources, Path: "id-a.pdf"}, true},
		{"unknown bucket", rs.Upload{Bucket: "secrets", Path: "a"}, false},
		{"empty path", rs.Upload{Bucket: rs.BucketResources}, false},
		{"absolute", rs.Upload{Bucket: rs.BucketResources, Path: "/etc/passwd"}, false},
		{"traversal", rs.Upload{Bucket: rs.BucketResources, Path: "a/../b"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.up)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}
