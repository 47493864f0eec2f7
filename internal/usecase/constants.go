package usecase

import "time"

const (
	// DefaultPageSize is used when a list request carries no limit.
	DefaultPageSize = 20

	// MaxPageSize caps list requests.
	MaxPageSize = 100

	// CurrentPriceCacheTTL is how long a book's current price stays cached.
	// Writes invalidate the key, so the TTL only bounds staleness after a
	// missed invalidation.
	CurrentPriceCacheTTL = 5 * time.Minute
)
