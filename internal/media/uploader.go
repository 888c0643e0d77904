package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/jmorales-dev/estudio-backend/pkg"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrUpload covers any transport or provider side upload failure
var ErrUpload = errors.New("upload failed")

var _ Uploader = (*S3Uploader)(nil)

type Uploader interface {
	// Upload stores the file remotely and returns its public URL
	Upload(ctx context.Context, params UploadParams) (url string, err error)
}

type UploadParams struct {
	Filename    string
	ContentType string
	File        io.Reader
}

// S3Uploader forwards uploaded images to an S3 bucket with public reads.
// No retries: a failed upload is reported to the caller right away.
type S3Uploader struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Uploader(ctx context.Context, bucket, region string, httpClient *http.Client) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Uploader{
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
		region: region,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, params UploadParams) (string, error) {
	key, err := objectKey(params.Filename)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUpload, err)
	}

	if _, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        params.File,
		ContentType: aws.String(params.ContentType),
	}); err != nil {
		return "", fmt.Errorf("%w: %s", ErrUpload, err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}

// objectKey prefixes the original filename with a random id, so repeated
// uploads of the same file never overwrite each other
func objectKey(filename string) (string, error) {
	id, err := pkg.GenerateRandomString(8)
	if err != nil {
		return "", err
	}
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("images/%s-%s", id, name), nil
}
