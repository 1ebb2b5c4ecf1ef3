package assets

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthlor/yeser/internal/client/urlcache"
	"github.com/arthlor/yeser/internal/logging"
)

func restoreUploadSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPresignPut := presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPresignPut
	})
}

func TestSignedAvatarUploadURL_Success(t *testing.T) {
	restoreUploadSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}

	var capturedKey, capturedBucket string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		capturedBucket = *in.Bucket
		capturedKey = *in.Key
		return &v4.PresignedHTTPRequest{URL: "https://signed.example/upload"}, nil
	}

	s := NewSigner(testStorageConfig())

	url, err := s.SignedAvatarUploadURL(context.Background(), "u1/avatar")
	require.NoError(t, err)

	assert.Equal(t, "https://signed.example/upload", url)
	assert.Equal(t, "avatars", capturedBucket)
	assert.Equal(t, "avatars/u1/avatar/original", capturedKey)
}

func TestUploadToSignedURL(t *testing.T) {
	var gotMethod, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	err := UploadToSignedURL(context.Background(), srv.URL, []byte("img-bytes"), "image/webp")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "image/webp", gotType)
	assert.Equal(t, []byte("img-bytes"), gotBody)
}

func TestUploadToSignedURL_RejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "access denied", http.StatusForbidden)
	}))
	defer srv.Close()

	err := UploadToSignedURL(context.Background(), srv.URL, []byte("x"), "image/webp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

type uploadingSigner struct {
	uploadURL string
	uploadErr error
}

func (u *uploadingSigner) SignedAvatarURL(ctx context.Context, assetPath string, size int) (string, error) {
	return "https://signed.example/get", nil
}

func (u *uploadingSigner) SignedAvatarUploadURL(ctx context.Context, assetPath string) (string, error) {
	return u.uploadURL, u.uploadErr
}

func uploadTestLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestReplaceAvatar_InvalidatesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	cache := urlcache.New()
	cache.Put("u1/avatar", 128, "https://stale.example", time.Hour)

	svc := NewAvatarService(&uploadingSigner{uploadURL: srv.URL}, cache, uploadTestLogger())

	err := svc.ReplaceAvatar(context.Background(), "u1/avatar", []byte("img"), "image/webp")
	require.NoError(t, err)

	_, ok := cache.Get("u1/avatar", 128)
	assert.False(t, ok, "stale rendition should be gone")
}

func TestReplaceAvatar_SignerWithoutUploads(t *testing.T) {
	svc := NewAvatarService(&fakeSigner{url: "https://signed.example"}, urlcache.New(), uploadTestLogger())

	err := svc.ReplaceAvatar(context.Background(), "u1/avatar", []byte("img"), "image/webp")
	require.Error(t, err)
}

func TestReplaceAvatar_PresignError(t *testing.T) {
	svc := NewAvatarService(&uploadingSigner{uploadErr: errors.New("boom")}, urlcache.New(), uploadTestLogger())

	err := svc.ReplaceAvatar(context.Background(), "u1/avatar", []byte("img"), "image/webp")
	require.Error(t, err)
}
