package cache

import "errors"

// ErrNotFound is returned when no cache entry exists for a track.
var ErrNotFound = errors.New("cache: entry not found")

// ErrBudgetExceeded is a non-fatal operational warning: ensure_budget could
// not bring the cache back under max-size because every eviction candidate
// was too recently accessed to evict.
var ErrBudgetExceeded = errors.New("cache: budget exceeded, all candidates within min-access-interval")

// ErrDownloadFailed wraps a failed fetch_and_store download delegation.
var ErrDownloadFailed = errors.New("cache: download failed")
