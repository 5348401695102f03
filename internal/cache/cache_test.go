package cache

import (
	"path/filepath"
	"testing"
	"time"

	"tubefeed/internal/feed"
	"tubefeed/internal/store"
)

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "tubefeed.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleItems(now time.Time) []feed.ContentItem {
	return []feed.ContentItem{
		{ID: "v1", Kind: feed.KindVideo, ChannelID: "UC1", Title: "A", PublishedAt: now.Add(-time.Hour)},
		{ID: "v2", Kind: feed.KindVideo, ChannelID: "UC1", Title: "B", PublishedAt: now.Add(-2 * time.Hour)},
	}
}

func TestFeedCache_ServesFreshSnapshot(t *testing.T) {
	c := NewFeedCache(openTestDB(t))
	now := time.Now()

	if err := c.Write(sampleItems(now)); err != nil {
		t.Fatalf("write: %v", err)
	}

	items, err := c.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected the fresh snapshot, got %d items", len(items))
	}
}

func TestFeedCache_StaleSnapshotReadsEmpty(t *testing.T) {
	c := NewFeedCache(openTestDB(t))
	now := time.Now()

	if err := c.Write(sampleItems(now)); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Move the clock one minute past the freshness window.
	c.now = func() time.Time { return now.Add(FreshnessWindow + time.Minute) }

	items, err := c.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("a stale snapshot should read empty, got %d items", len(items))
	}
}

func TestFeedCache_ExactlyAtWindowIsStale(t *testing.T) {
	db := openTestDB(t)
	c := NewFeedCache(db)
	now := time.Now()

	c.now = func() time.Time { return now }
	if err := c.Write(sampleItems(now)); err != nil {
		t.Fatalf("write: %v", err)
	}

	c.now = func() time.Time { return now.Add(FreshnessWindow) }
	items, err := c.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("a snapshot exactly at the window boundary is stale, got %d items", len(items))
	}
}

func TestFeedCache_EmptyWriteIsNoOp(t *testing.T) {
	c := NewFeedCache(openTestDB(t))
	now := time.Now()

	if err := c.Write(sampleItems(now)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := c.Write(nil); err != nil {
		t.Fatalf("empty write: %v", err)
	}

	items, err := c.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("an empty write must preserve the last known-good feed, got %d items", len(items))
	}
}

func TestFeedCache_NoSnapshotReadsEmpty(t *testing.T) {
	c := NewFeedCache(openTestDB(t))

	items, err := c.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty read before any write, got %d items", len(items))
	}
}

func TestWatchedTracker_ToggleTwiceRestoresState(t *testing.T) {
	tracker := NewWatchedTracker(openTestDB(t))

	if watched, _ := tracker.IsWatched("vidX"); watched {
		t.Fatal("item should start unwatched")
	}

	if watched, err := tracker.Toggle("vidX"); err != nil || !watched {
		t.Fatalf("first toggle should watch the item, got %v, %v", watched, err)
	}
	if watched, err := tracker.Toggle("vidX"); err != nil || watched {
		t.Fatalf("second toggle should unwatch the item, got %v, %v", watched, err)
	}
	if watched, _ := tracker.IsWatched("vidX"); watched {
		t.Error("two toggles should return to the original state")
	}
}

func TestWatchedTracker_SurvivesFeedReplacement(t *testing.T) {
	db := openTestDB(t)
	tracker := NewWatchedTracker(db)
	c := NewFeedCache(db)
	now := time.Now()

	if _, err := tracker.Toggle("v1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := c.Write([]feed.ContentItem{{ID: "other", Kind: feed.KindVideo, ChannelID: "UC9", Title: "X", PublishedAt: now}}); err != nil {
		t.Fatalf("write: %v", err)
	}

	if watched, _ := tracker.IsWatched("v1"); !watched {
		t.Error("watched state must be independent of feed content")
	}
}
