// Package cache persists the aggregated feed snapshot with a staleness
// policy and tracks which items the user has watched.
package cache

import (
	"time"

	"tubefeed/internal/feed"
	"tubefeed/internal/store"
)

// FreshnessWindow is how long a persisted snapshot is served without
// signaling the caller to refresh.
const FreshnessWindow = 24 * time.Hour

// FeedCache persists feed snapshots. Staleness is evaluated lazily at read
// time; there is no expiry sweep.
type FeedCache struct {
	db  *store.DB
	now func() time.Time
}

// NewFeedCache creates a cache over the given store.
func NewFeedCache(db *store.DB) *FeedCache {
	return &FeedCache{db: db, now: time.Now}
}

// Read returns the stored snapshot when it was captured inside the
// freshness window, and nothing otherwise. An empty result signals the
// caller to refresh.
func (c *FeedCache) Read() ([]feed.ContentItem, error) {
	items, capturedAt, err := c.db.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	if capturedAt.IsZero() || c.now().Sub(capturedAt) >= FreshnessWindow {
		return nil, nil
	}
	return items, nil
}

// Write persists a snapshot with a fresh capture timestamp. An empty
// snapshot is never persisted, preserving the last known-good feed across a
// failed or quota-exhausted refresh.
func (c *FeedCache) Write(items []feed.ContentItem) error {
	if len(items) == 0 {
		return nil
	}
	return c.db.SaveSnapshot(items, c.now())
}

// WatchedTracker maintains the set of watched item ids. Membership is keyed
// by the bare item id and is independent of feed content: it survives feed
// refreshes and never expires.
type WatchedTracker struct {
	db *store.DB
}

// NewWatchedTracker creates a tracker over the given store.
func NewWatchedTracker(db *store.DB) *WatchedTracker {
	return &WatchedTracker{db: db}
}

// Toggle flips an item's watched state and reports the new state.
func (t *WatchedTracker) Toggle(itemID string) (bool, error) {
	return t.db.ToggleWatched(itemID)
}

// IsWatched reports whether an item is marked watched.
func (t *WatchedTracker) IsWatched(itemID string) (bool, error) {
	return t.db.IsWatched(itemID)
}
