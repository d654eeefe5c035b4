package cache

import (
	"context"
	"sync"
	"time"

	"shareit/internal/models"
)

// MemoryViewCache is the in-process fallback for the Redis cache.
type MemoryViewCache struct {
	views      sync.Map
	rateLimits sync.Map
	ttl        time.Duration
}

type viewEntry struct {
	view      *models.ItemView
	expiresAt time.Time
}

func NewMemoryViewCache(ttl time.Duration) *MemoryViewCache {
	return &MemoryViewCache{ttl: ttl}
}

func (c *MemoryViewCache) GetItemView(ctx context.Context, itemID int64) (*models.ItemView, error) {
	val, ok := c.views.Load(itemID)
	if !ok {
		return nil, nil
	}
	entry := val.(*viewEntry)
	if c.ttl > 0 && time.Now().After(entry.expiresAt) {
		c.views.Delete(itemID)
		return nil, nil
	}
	return entry.view, nil
}

func (c *MemoryViewCache) SetItemView(ctx context.Context, view *models.ItemView) error {
	c.views.Store(view.Item.ID, &viewEntry{view: view, expiresAt: time.Now().Add(c.ttl)})
	return nil
}

func (c *MemoryViewCache) InvalidateItemView(ctx context.Context, itemID int64) error {
	c.views.Delete(itemID)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (c *MemoryViewCache) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := c.rateLimits.Load(userID)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	c.rateLimits.Store(userID, entry)
	return entry.count <= limit, nil
}
