package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrquarshie/huddle/internal/domain"
	"github.com/mrquarshie/huddle/pkg/pagination"
)

const (
	feedKeyPrefix  = "items:feed:"
	feedVersionKey = "items:feed:ver"
)

// FeedPage is a cached page of the public browse feed.
type FeedPage struct {
	Items []*domain.Item `json:"items"`
	Total int            `json:"total"`
}

// ItemCache is a read-through cache for the public item browse feed. Entries
// carry a short TTL and the whole feed is invalidated on any item write via
// a version counter, so no key scanning is needed. Review data is never
// cached here or anywhere else.
type ItemCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewItemCache creates a Redis-backed browse feed cache.
func NewItemCache(client *redis.Client, ttl time.Duration) *ItemCache {
	return &ItemCache{
		client: client,
		ttl:    ttl,
	}
}

// key builds the cache key for a filter+page combination, namespaced by the
// current feed version.
func (c *ItemCache) key(ctx context.Context, filter domain.ItemFilter, p pagination.Params) (string, error) {
	ver, err := c.client.Get(ctx, feedVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("redis get feed version: %w", err)
	}
	return fmt.Sprintf("%sv%d:q=%s:u=%s:c=%s:t=%s:p=%d:l=%d",
		feedKeyPrefix, ver, filter.Search, filter.University, filter.Category, filter.Type, p.Page, p.Limit), nil
}

// Get returns the cached page, or (nil, nil) on a miss.
func (c *ItemCache) Get(ctx context.Context, filter domain.ItemFilter, p pagination.Params) (*FeedPage, error) {
	key, err := c.key(ctx, filter, p)
	if err != nil {
		return nil, err
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get feed page: %w", err)
	}

	var page FeedPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("unmarshal feed page: %w", err)
	}

	return &page, nil
}

// Set stores a feed page with the configured TTL.
func (c *ItemCache) Set(ctx context.Context, filter domain.ItemFilter, p pagination.Params, page *FeedPage) error {
	key, err := c.key(ctx, filter, p)
	if err != nil {
		return err
	}

	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal feed page: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set feed page: %w", err)
	}

	return nil
}

// Invalidate bumps the feed version so every cached page goes stale at once.
// Old entries expire on their own TTL.
func (c *ItemCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, feedVersionKey).Err(); err != nil {
		return fmt.Errorf("redis bump feed version: %w", err)
	}
	return nil
}
