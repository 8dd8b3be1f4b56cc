// Package httputil provides HTTP utilities for fetching remote documents.
//
// # Overview
//
// This package provides infrastructure shared by everything that talks to
// the network:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/notate/) with
// configurable TTL. Documents referenced by URL are fetched once and reused
// until the entry expires or a refresh is requested.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var data []byte
//	ok, _ := cache.Get("docs:"+url, &data) // Check cache
//	if !ok {
//	    data = fetchFromURL(url)
//	    _ = cache.Set("docs:"+url, data)   // Store for later
//	}
//
// Cache keys should be namespaced by source to avoid collisions; see
// [Cache.Namespace].
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Wrap the transient failures in [RetryableError]; everything else fails
// immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    ...
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/notate/
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `notate cache clear` or by deleting the
// cache directory.
package httputil
