package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploadLifetime bounds how long a presigned PUT stays usable. Uploads are
// interactive, so this is much shorter than SignatureLifetime.
const UploadLifetime = 15 * time.Minute

var presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return pc.PresignPutObject(ctx, in, optFns...)
}

// uploadObjectKey is where a replacement avatar lands. The backend renders
// the sized .webp variants from it.
func uploadObjectKey(assetPath string) string {
	return fmt.Sprintf("avatars/%s/original", assetPath)
}

// SignedAvatarUploadURL returns a presigned PUT URL for replacing the avatar
// behind assetPath, valid for UploadLifetime.
func (s *Signer) SignedAvatarUploadURL(ctx context.Context, assetPath string) (string, error) {
	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.cfg.Bucket
	objectKey := uploadObjectKey(assetPath)

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &objectKey,
	}, s3.WithPresignExpires(UploadLifetime))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// UploadToSignedURL PUTs data to a presigned URL.
func UploadToSignedURL(ctx context.Context, url string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}

// UploadSigner is the presign path for avatar replacement.
type UploadSigner interface {
	SignedAvatarUploadURL(ctx context.Context, assetPath string) (string, error)
}

// ReplaceAvatar uploads a new avatar image and drops the stale cached
// renditions so the next AvatarURL call signs fresh. The service's signer
// must also support presigned uploads.
func (a *AvatarService) ReplaceAvatar(ctx context.Context, assetPath string, data []byte, contentType string) error {
	signer, ok := a.signer.(UploadSigner)
	if !ok {
		return fmt.Errorf("signer does not support uploads")
	}

	url, err := signer.SignedAvatarUploadURL(ctx, assetPath)
	if err != nil {
		a.log.Warn(ctx, "signing upload url failed", "path", assetPath, "err", err)
		return err
	}

	if err := UploadToSignedURL(ctx, url, data, contentType); err != nil {
		a.log.Warn(ctx, "avatar upload failed", "path", assetPath, "err", err)
		return err
	}

	a.Invalidate(assetPath)
	return nil
}
