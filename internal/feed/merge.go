package feed

import "sort"

// Merge combines freshly fetched items into an existing feed. Items are
// deduplicated by composite key with the incoming item replacing any
// existing one (the newer fetch reflects the latest upstream state), and
// the result is sorted by published time, newest first. Ties keep their
// relative order: existing items first in snapshot order, then new items
// in insertion order.
//
// A full refresh passes a nil existing slice, replacing the feed wholesale
// so that channels or kinds disabled since the last refresh disappear.
func Merge(existing, incoming []ContentItem) []ContentItem {
	order := make([]Key, 0, len(existing)+len(incoming))
	byKey := make(map[Key]ContentItem, len(existing)+len(incoming))

	insert := func(item ContentItem) {
		key := item.Key()
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = item
	}
	for _, item := range existing {
		insert(item)
	}
	for _, item := range incoming {
		insert(item)
	}

	merged := make([]ContentItem, 0, len(order))
	for _, key := range order {
		merged = append(merged, byKey[key])
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})
	return merged
}
