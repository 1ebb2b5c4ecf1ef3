package assets

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthlor/yeser/internal/client/urlcache"
	"github.com/arthlor/yeser/internal/logging"
)

type fakeSigner struct {
	calls int
	url   string
	err   error
}

func (f *fakeSigner) SignedAvatarURL(ctx context.Context, assetPath string, size int) (string, error) {
	f.calls++
	return f.url, f.err
}

func newAvatarService(signer URLSigner) *AvatarService {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewAvatarService(signer, urlcache.New(), log)
}

func TestAvatarURL_SignsOnceThenServesFromCache(t *testing.T) {
	signer := &fakeSigner{url: "https://signed/u1/128"}
	svc := newAvatarService(signer)
	ctx := context.Background()

	first, err := svc.AvatarURL(ctx, "u1/avatar.webp", 128)
	require.NoError(t, err)
	second, err := svc.AvatarURL(ctx, "u1/avatar.webp", 128)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, signer.calls, "second call must not reach the signer")
}

func TestAvatarURL_DistinctSizesSignSeparately(t *testing.T) {
	signer := &fakeSigner{url: "https://signed"}
	svc := newAvatarService(signer)
	ctx := context.Background()

	_, err := svc.AvatarURL(ctx, "u1/avatar.webp", 64)
	require.NoError(t, err)
	_, err = svc.AvatarURL(ctx, "u1/avatar.webp", 128)
	require.NoError(t, err)

	assert.Equal(t, 2, signer.calls)
}

func TestAvatarURL_SignerErrorNotCached(t *testing.T) {
	signer := &fakeSigner{err: errors.New("storage down")}
	svc := newAvatarService(signer)
	ctx := context.Background()

	_, err := svc.AvatarURL(ctx, "u1/avatar.webp", 128)
	require.Error(t, err)

	signer.err = nil
	signer.url = "https://signed"
	url, err := svc.AvatarURL(ctx, "u1/avatar.webp", 128)
	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)
	assert.Equal(t, 2, signer.calls)
}

func TestInvalidate_ForcesResigning(t *testing.T) {
	signer := &fakeSigner{url: "https://signed"}
	svc := newAvatarService(signer)
	ctx := context.Background()

	_, err := svc.AvatarURL(ctx, "u1/avatar.webp", 128)
	require.NoError(t, err)

	svc.Invalidate("u1/avatar.webp")

	_, err = svc.AvatarURL(ctx, "u1/avatar.webp", 128)
	require.NoError(t, err)
	assert.Equal(t, 2, signer.calls)
}

func TestAvatarObjectKey(t *testing.T) {
	assert.Equal(t, "avatars/u1/avatar/128.webp", avatarObjectKey("u1/avatar", 128))
}
