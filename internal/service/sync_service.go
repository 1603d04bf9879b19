package service

import "context"

// SyncService refreshes the local genre table and trending-media cache from
// upstream. Both syncs are idempotent against unchanged upstream data.
type SyncService interface {
	SyncGenres(ctx context.Context) (int, error)
	SyncTrending(ctx context.Context) (int, error)
	// SyncIfStale runs each sync only when its last recorded run is older
	// than 24 hours. Failures are logged and isolated per sync kind.
	SyncIfStale(ctx context.Context)
}
