package models

const (
	// DefaultPageSize is applied when the boundary supplies no page size.
	DefaultPageSize = 10

	// ItemViewCacheTTL is the item view cache lifetime, in seconds.
	ItemViewCacheTTL = 5 * 60

	// RateLimitRequests is the per-user request budget within one window.
	RateLimitRequests = 30

	// RateLimitWindow is the rate limit window, in seconds.
	RateLimitWindow = 60

	// ExportQueueSize bounds the export worker queue.
	ExportQueueSize = 64
)
