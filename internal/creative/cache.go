package creative

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ProfileLoader assembles a channel's profile from the stores.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, channelID string) (ChannelProfile, error)
}

// ProfileLoaderFunc adapts a function to the ProfileLoader interface.
type ProfileLoaderFunc func(ctx context.Context, channelID string) (ChannelProfile, error)

func (f ProfileLoaderFunc) LoadProfile(ctx context.Context, channelID string) (ChannelProfile, error) {
	return f(ctx, channelID)
}

const (
	contextCacheSize = 256
	contextCacheTTL  = 2 * time.Minute
)

// ContextCache memoizes rendered channel-context strings per channel. Profile
// assembly touches several stores, and a single brainstorm burst asks for the
// same context many times in a row.
type ContextCache struct {
	loader ProfileLoader
	cache  *expirable.LRU[string, string]
}

// NewContextCache wraps a loader with an expiring per-channel cache.
func NewContextCache(loader ProfileLoader) *ContextCache {
	return &ContextCache{
		loader: loader,
		cache:  expirable.NewLRU[string, string](contextCacheSize, nil, contextCacheTTL),
	}
}

// Context returns the rendered channel context, building it on a miss.
func (c *ContextCache) Context(ctx context.Context, channelID string) (string, error) {
	if v, ok := c.cache.Get(channelID); ok {
		return v, nil
	}
	profile, err := c.loader.LoadProfile(ctx, channelID)
	if err != nil {
		return "", err
	}
	rendered := profile.BuildContext()
	c.cache.Add(channelID, rendered)
	return rendered, nil
}

// Invalidate drops the cached context after a channel edit.
func (c *ContextCache) Invalidate(channelID string) {
	c.cache.Remove(channelID)
}
