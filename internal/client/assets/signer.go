// Package assets issues signed URLs for sized avatar images stored in the
// backend's S3-compatible bucket, with a TTL cache in front of the signer.
package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SignatureLifetime is the hard expiry the storage backend stamps into each
// signed URL. The urlcache soft TTL must stay well below it.
const SignatureLifetime = 7 * 24 * time.Hour

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// StorageConfig locates the avatar bucket.
type StorageConfig struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Bucket       string
}

// Signer produces presigned GET URLs for avatar objects.
type Signer struct {
	cfg StorageConfig
}

func NewSigner(cfg StorageConfig) *Signer {
	return &Signer{cfg: cfg}
}

func (s *Signer) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey,
			s.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		}
	})

	return newS3PresignClient(client), nil
}

// avatarObjectKey maps an avatar path and pixel size to its object key.
// Sized renditions are written by the backend on upload.
func avatarObjectKey(assetPath string, size int) string {
	return fmt.Sprintf("avatars/%s/%d.webp", assetPath, size)
}

// SignedAvatarURL returns a presigned GET URL for one rendition of an avatar,
// valid for SignatureLifetime.
func (s *Signer) SignedAvatarURL(ctx context.Context, assetPath string, size int) (string, error) {
	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.cfg.Bucket
	objectKey := avatarObjectKey(assetPath, size)

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &objectKey,
	}, s3.WithPresignExpires(SignatureLifetime))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
