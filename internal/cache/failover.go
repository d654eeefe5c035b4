package cache

import (
	"context"
	"sync/atomic"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// FailoverViewCache prefers the primary cache and falls back to the memory
// one when the primary errors, retrying the primary after a cooldown.
type FailoverViewCache struct {
	primary   domain.ViewCache
	fallback  domain.ViewCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of the last failed primary attempt
}

const recoveryInterval = time.Minute

func NewFailoverViewCache(primary, fallback domain.ViewCache, logger *zerolog.Logger) *FailoverViewCache {
	return &FailoverViewCache{primary: primary, fallback: fallback, logger: logger}
}

func (c *FailoverViewCache) markDown(err error) {
	c.logger.Error().Err(err).Msg("primary view cache failed, falling back to memory")
	c.isDown.Store(true)
	c.lastCheck.Store(time.Now().UnixNano())
}

func (c *FailoverViewCache) shouldRetryPrimary() bool {
	if !c.isDown.Load() {
		return true
	}
	return time.Since(time.Unix(0, c.lastCheck.Load())) > recoveryInterval
}

func (c *FailoverViewCache) GetItemView(ctx context.Context, itemID int64) (*models.ItemView, error) {
	if c.shouldRetryPrimary() {
		view, err := c.primary.GetItemView(ctx, itemID)
		if err == nil {
			c.isDown.Store(false)
			return view, nil
		}
		c.markDown(err)
	}
	return c.fallback.GetItemView(ctx, itemID)
}

func (c *FailoverViewCache) SetItemView(ctx context.Context, view *models.ItemView) error {
	if c.shouldRetryPrimary() {
		err := c.primary.SetItemView(ctx, view)
		if err == nil {
			c.isDown.Store(false)
			return nil
		}
		c.markDown(err)
	}
	return c.fallback.SetItemView(ctx, view)
}

func (c *FailoverViewCache) InvalidateItemView(ctx context.Context, itemID int64) error {
	// Invalidation goes to both sides so a stale entry cannot survive a
	// failover window.
	var primaryErr error
	if c.shouldRetryPrimary() {
		primaryErr = c.primary.InvalidateItemView(ctx, itemID)
		if primaryErr == nil {
			c.isDown.Store(false)
		} else {
			c.markDown(primaryErr)
		}
	}
	return c.fallback.InvalidateItemView(ctx, itemID)
}

func (c *FailoverViewCache) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if c.shouldRetryPrimary() {
		allowed, err := c.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			c.isDown.Store(false)
			return allowed, nil
		}
		c.markDown(err)
	}
	return c.fallback.CheckRateLimit(ctx, userID, limit, window)
}
