package feed

import (
	"testing"
	"time"
)

func TestMerge_NewestItemsFirst(t *testing.T) {
	now := time.Now()
	incoming := []ContentItem{
		{ID: "oldest", Kind: KindVideo, ChannelID: "UC1", PublishedAt: now.Add(-3 * time.Hour)},
		{ID: "newest", Kind: KindVideo, ChannelID: "UC1", PublishedAt: now.Add(-1 * time.Hour)},
		{ID: "middle", Kind: KindVideo, ChannelID: "UC1", PublishedAt: now.Add(-2 * time.Hour)},
	}

	merged := Merge(nil, incoming)

	if len(merged) != 3 {
		t.Fatalf("expected 3 items, got %d", len(merged))
	}
	for i, wantID := range []string{"newest", "middle", "oldest"} {
		if merged[i].ID != wantID {
			t.Errorf("position %d: expected %s, got %s", i, wantID, merged[i].ID)
		}
	}
}

func TestMerge_IsIdempotent(t *testing.T) {
	now := time.Now()
	items := []ContentItem{
		{ID: "a", Kind: KindVideo, ChannelID: "UC1", Title: "one", PublishedAt: now.Add(-time.Hour)},
		{ID: "b", Kind: KindShort, ChannelID: "UC2", Title: "two", PublishedAt: now.Add(-2 * time.Hour)},
	}

	once := Merge(nil, items)
	twice := Merge(once, items)

	if len(twice) != len(once) {
		t.Fatalf("merging twice changed the item count: %d vs %d", len(twice), len(once))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("position %d differs after second merge: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestMerge_NewerDataWinsForEqualKeys(t *testing.T) {
	now := time.Now()
	existing := []ContentItem{
		{ID: "v1", Kind: KindVideo, ChannelID: "UC1", Title: "stale title", Views: 10, PublishedAt: now},
	}
	incoming := []ContentItem{
		{ID: "v1", Kind: KindVideo, ChannelID: "UC1", Title: "fresh title", Views: 99, PublishedAt: now},
	}

	merged := Merge(existing, incoming)

	if len(merged) != 1 {
		t.Fatalf("expected a single item for the shared key, got %d", len(merged))
	}
	if merged[0].Title != "fresh title" || merged[0].Views != 99 {
		t.Errorf("incoming item should overwrite the existing one, got %+v", merged[0])
	}
}

func TestMerge_EqualRawIDsAcrossKindsDoNotCollide(t *testing.T) {
	now := time.Now()
	items := []ContentItem{
		{ID: "x", Kind: KindVideo, ChannelID: "UC1", PublishedAt: now},
		{ID: "x", Kind: KindCommunity, ChannelID: "UC1", PublishedAt: now.Add(-time.Minute)},
		{ID: "x", Kind: KindVideo, ChannelID: "UC2", PublishedAt: now.Add(-2 * time.Minute)},
	}

	merged := Merge(nil, items)

	if len(merged) != 3 {
		t.Fatalf("items sharing a raw id but differing in kind or channel must stay distinct, got %d", len(merged))
	}
}

func TestMerge_SortIsNonIncreasing(t *testing.T) {
	now := time.Now()
	existing := []ContentItem{
		{ID: "e1", Kind: KindVideo, ChannelID: "UC1", PublishedAt: now.Add(-5 * time.Hour)},
		{ID: "e2", Kind: KindShort, ChannelID: "UC2", PublishedAt: now.Add(-1 * time.Hour)},
	}
	incoming := []ContentItem{
		{ID: "n1", Kind: KindCommunity, ChannelID: "UC3", PublishedAt: now.Add(-3 * time.Hour)},
		{ID: "n2", Kind: KindVideo, ChannelID: "UC1", PublishedAt: now},
	}

	merged := Merge(existing, incoming)

	for i := 1; i < len(merged); i++ {
		if merged[i].PublishedAt.After(merged[i-1].PublishedAt) {
			t.Errorf("feed out of order at %d: %v after %v", i, merged[i].PublishedAt, merged[i-1].PublishedAt)
		}
	}
}

func TestMerge_TiesAreStableWithinOneMerge(t *testing.T) {
	ts := time.Now()
	incoming := []ContentItem{
		{ID: "first", Kind: KindVideo, ChannelID: "UC1", PublishedAt: ts},
		{ID: "second", Kind: KindVideo, ChannelID: "UC2", PublishedAt: ts},
		{ID: "third", Kind: KindShort, ChannelID: "UC3", PublishedAt: ts},
	}

	merged := Merge(nil, incoming)

	for i, wantID := range []string{"first", "second", "third"} {
		if merged[i].ID != wantID {
			t.Errorf("tied items should keep insertion order, position %d: got %s", i, merged[i].ID)
		}
	}
}
