package fetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gofrs/flock"

	"tubefeed/internal/cache"
	"tubefeed/internal/feed"
	"tubefeed/internal/registry"
	"tubefeed/internal/store"
)

// ErrRefreshInProgress indicates another refresh currently holds the lock.
// Concurrent refreshes are rejected, not queued.
var ErrRefreshInProgress = errors.New("a refresh is already in progress")

// maxConcurrentChannels bounds parallel per-channel orchestration. Channels
// are independent; their results are merged once, after all complete.
const maxConcurrentChannels = 4

// ChannelResult is one channel's contribution to a refresh. A failed
// channel carries its error and zero items; it never aborts the others.
type ChannelResult struct {
	ChannelID    string
	ChannelTitle string
	Items        []feed.ContentItem
	Err          error
}

// Refresher coordinates a full-registry refresh: orchestrate every tracked
// channel, merge the results into one consistent snapshot, and write it
// through the feed cache.
type Refresher struct {
	orch     *Orchestrator
	registry *registry.Registry
	cache    *cache.FeedCache
	lockPath string
}

// NewRefresher creates a refresher. lockPath is the file used to reject
// concurrent refreshes across processes.
func NewRefresher(orch *Orchestrator, reg *registry.Registry, feedCache *cache.FeedCache, lockPath string) *Refresher {
	return &Refresher{orch: orch, registry: reg, cache: feedCache, lockPath: lockPath}
}

// RefreshAll fetches every tracked channel and replaces the cached feed
// wholesale, so channels or kinds disabled since the last refresh
// disappear. Per-channel failures are isolated into the returned results;
// the merged feed contains whatever the healthy channels produced. With no
// credential configured it fails before any channel work.
func (r *Refresher) RefreshAll(ctx context.Context, settings feed.Settings) ([]feed.ContentItem, []ChannelResult, error) {
	if err := r.orch.client.Ready(); err != nil {
		return nil, nil, err
	}

	lock := flock.New(r.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, nil, err
	}
	if !locked {
		return nil, nil, ErrRefreshInProgress
	}
	defer func() { _ = lock.Unlock() }()

	channels, err := r.registry.List()
	if err != nil {
		return nil, nil, err
	}

	results := r.fetchChannels(ctx, channels, settings)

	var fetched []feed.ContentItem
	for _, result := range results {
		if result.Err != nil {
			slog.Warn("channel refresh failed",
				"channel_id", result.ChannelID,
				"channel_title", result.ChannelTitle,
				"error", result.Err)
			continue
		}
		fetched = append(fetched, result.Items...)
	}

	// Merge against an empty seed: a full refresh replaces the snapshot.
	merged := feed.Merge(nil, fetched)
	if err := r.cache.Write(merged); err != nil {
		return nil, results, err
	}
	return merged, results, nil
}

// SeedChannel fetches a single item for a newly added channel and merges it
// into the cached feed, so the channel appears before the next full refresh.
func (r *Refresher) SeedChannel(ctx context.Context, ch store.Channel, settings feed.Settings) error {
	seedSettings := settings
	seedSettings.MaxItemsPerChannel = 1

	items, err := r.orch.FetchChannel(ctx, ch, seedSettings)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	existing, err := r.cache.Read()
	if err != nil {
		return err
	}
	return r.cache.Write(feed.Merge(existing, items))
}

// fetchChannels orchestrates all channels through a bounded worker pool.
// Results are collected in channel order; the merge happens only after
// every worker has finished, never item-by-item.
func (r *Refresher) fetchChannels(ctx context.Context, channels []store.Channel, settings feed.Settings) []ChannelResult {
	results := make([]ChannelResult, len(channels))

	var wg sync.WaitGroup
	work := make(chan int)

	workers := maxConcurrentChannels
	if len(channels) < workers {
		workers = len(channels)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				ch := channels[i]
				items, err := r.orch.FetchChannel(ctx, ch, settings)
				results[i] = ChannelResult{
					ChannelID:    ch.ID,
					ChannelTitle: ch.Title,
					Items:        items,
					Err:          err,
				}
			}
		}()
	}

	for i := range channels {
		work <- i
	}
	close(work)
	wg.Wait()

	return results
}
