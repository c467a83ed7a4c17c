// Package cache provides the summary cache used by the analytics handlers.
// Two backends exist: an in-process TTL LRU and an optional Redis store for
// deployments running more than one API instance.
package cache

import "context"

// SummaryCache stores marshaled analytics responses keyed by view name.
// Implementations are safe for concurrent use. A cache miss or backend
// failure is reported as a miss; callers recompute and Set again.
type SummaryCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
	Delete(ctx context.Context, key string)
}
