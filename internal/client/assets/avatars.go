package assets

import (
	"context"

	"github.com/arthlor/yeser/internal/client/urlcache"
	"github.com/arthlor/yeser/internal/logging"
)

// URLSigner is the issuing path behind the cache.
type URLSigner interface {
	SignedAvatarURL(ctx context.Context, assetPath string, size int) (string, error)
}

// AvatarService serves avatar URLs through the signed-URL cache, signing a
// fresh URL only on a cache miss.
type AvatarService struct {
	signer URLSigner
	cache  *urlcache.Cache
	log    logging.Logger
}

func NewAvatarService(signer URLSigner, cache *urlcache.Cache, log logging.Logger) *AvatarService {
	return &AvatarService{signer: signer, cache: cache, log: log.With("component", "avatars")}
}

// AvatarURL returns a signed URL for one rendition of an avatar, from cache
// when possible.
func (a *AvatarService) AvatarURL(ctx context.Context, assetPath string, size int) (string, error) {
	if url, ok := a.cache.Get(assetPath, size); ok {
		return url, nil
	}

	url, err := a.signer.SignedAvatarURL(ctx, assetPath, size)
	if err != nil {
		a.log.Warn(ctx, "signing avatar url failed", "path", assetPath, "size", size, "err", err)
		return "", err
	}

	a.cache.Put(assetPath, size, url, SignatureLifetime)
	return url, nil
}

// Invalidate drops every cached rendition of an avatar. Called when the
// underlying asset is replaced or deleted.
func (a *AvatarService) Invalidate(assetPath string) {
	a.cache.Invalidate(assetPath)
}
