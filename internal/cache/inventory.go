package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix     = "post:%d"
	HomeFeedKey       = "posts:home:p1"
	CategoryKeyPrefix = "category:%s"
)

const (
	PostTTL     = 10 * time.Minute
	HomeFeedTTL = 1 * time.Minute
	CategoryTTL = 10 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func CategoryKey(slug string) string {
	return fmt.Sprintf(CategoryKeyPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops the cached detail view of a post and the home feed,
// whose comment counts and ordering may have changed with it.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, HomeFeedKey)
}

func InvalidateHomeFeed(ctx context.Context) {
	Invalidate(ctx, HomeFeedKey)
}

func InvalidateCategory(ctx context.Context, slug string) {
	Invalidate(ctx, CategoryKey(slug))
	Invalidate(ctx, HomeFeedKey)
}
