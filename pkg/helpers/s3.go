package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3PutObjectAPI is the subset of *s3.Client used for uploads.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds a client with static credentials. baseEndpoint is optional and
// enables path-style addressing for MinIO and other S3 compatible stores.
func NewS3Client(ctx context.Context, region, baseEndpoint, accessKey, secretKey string) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if baseEndpoint != "" {
			o.BaseEndpoint = aws.String(baseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Uploader stores avatar files in a bucket and returns their public URL.
type S3Uploader struct {
	Client    S3PutObjectAPI
	Bucket    string
	Region    string
	PublicURL string // optional prefix, e.g. a CDN or MinIO host
	Prefix    string
}

func NewS3Uploader(client S3PutObjectAPI, bucket, region, publicURL string) *S3Uploader {
	return &S3Uploader{Client: client, Bucket: bucket, Region: region, PublicURL: publicURL, Prefix: "avatars"}
}

func (u *S3Uploader) Upload(ctx context.Context, r io.Reader, fileName, contentType string) (string, error) {
	// the SDK needs a seekable body to sign the payload
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	key := ObjectName(u.Prefix, fileName)
	_, err = u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", err
	}
	return u.objectURL(key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	if u.PublicURL != "" {
		return strings.TrimRight(u.PublicURL, "/") + "/" + u.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.Bucket, u.Region, key)
}
