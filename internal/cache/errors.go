package cache

import "errors"

// ErrObjectTooLarge is returned by Insert when response exceeds
// MaxObjectSize. The caller should serve the response without caching it.
var ErrObjectTooLarge = errors.New("cache: object exceeds max cacheable size")

// ErrCacheFull is returned by Insert in the degenerate case where the
// cache is empty and size still exceeds the full MaxCacheSize budget —
// no eviction can possibly make room.
var ErrCacheFull = errors.New("cache: no entry available to evict")
