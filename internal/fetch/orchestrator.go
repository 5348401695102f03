package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"tubefeed/internal/feed"
	"tubefeed/internal/registry"
	"tubefeed/internal/store"
	"tubefeed/internal/youtube"
)

// uploadsMargin oversizes the raw feed request relative to max items per
// channel. The uploads feed cannot filter by content kind, so entries lost
// to classification or the time window need headroom.
const uploadsMargin = 2

// postIDPrefixLen bounds the text prefix used to synthesize a community
// post id when the upstream provides none.
const postIDPrefixLen = 40

// UpstreamClient is the slice of the API client the orchestrator needs.
type UpstreamClient interface {
	Ready() error
	ResolveUploadsPlaylist(ctx context.Context, channelID string) (string, error)
	ListUploads(ctx context.Context, playlistID string, limit int) ([]youtube.UploadEntry, error)
	ListVideoDurations(ctx context.Context, videoIDs []string) (map[string]string, error)
	ListActivities(ctx context.Context, channelID string, limit int) ([]youtube.Activity, error)
}

// Orchestrator produces the normalized content items for one channel under
// the current fetch settings.
type Orchestrator struct {
	client   UpstreamClient
	registry *registry.Registry
	now      func() time.Time
}

// NewOrchestrator creates an orchestrator over the given client and registry.
func NewOrchestrator(client UpstreamClient, reg *registry.Registry) *Orchestrator {
	return &Orchestrator{client: client, registry: reg, now: time.Now}
}

// FetchChannel retrieves, classifies, and filters one channel's content.
// Without a configured credential it returns youtube.ErrCredentialMissing
// immediately. Any other failure is channel-level; the caller isolates it.
func (o *Orchestrator) FetchChannel(ctx context.Context, ch store.Channel, settings feed.Settings) ([]feed.ContentItem, error) {
	if err := o.client.Ready(); err != nil {
		return nil, err
	}

	var items []feed.ContentItem

	if ch.Prefs.Videos || ch.Prefs.Shorts {
		videos, err := o.fetchVideos(ctx, ch, settings)
		if err != nil {
			return nil, err
		}
		items = append(items, videos...)
	}

	if ch.Prefs.Community {
		posts, err := o.fetchCommunityPosts(ctx, ch, settings)
		if err != nil {
			return nil, err
		}
		items = append(items, posts...)
	}

	return items, nil
}

func (o *Orchestrator) fetchVideos(ctx context.Context, ch store.Channel, settings feed.Settings) ([]feed.ContentItem, error) {
	playlistID, err := o.registry.ResolveUploadFeedID(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	if playlistID == "" {
		return nil, nil
	}

	entries, err := o.client.ListUploads(ctx, playlistID, settings.MaxItemsPerChannel*uploadsMargin)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	videoIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		videoIDs = append(videoIDs, entry.VideoID)
	}
	durations := FetchDurations(ctx, o.client, videoIDs)

	now := o.now()
	items := make([]feed.ContentItem, 0, len(entries))
	for _, entry := range entries {
		if !feed.WithinWindow(entry.PublishedAt, settings.TimeRangeDays, now) {
			continue
		}
		kind, label := feed.Classify(durations[entry.VideoID])
		if !ch.Prefs.Wants(kind) {
			continue
		}
		items = append(items, feed.ContentItem{
			ID:           entry.VideoID,
			Kind:         kind,
			ChannelID:    ch.ID,
			ChannelTitle: ch.Title,
			Title:        entry.Title,
			Thumbnail:    entry.Thumbnail,
			Duration:     label,
			PublishedAt:  entry.PublishedAt,
		})
		if len(items) == settings.MaxItemsPerChannel {
			break
		}
	}
	return items, nil
}

func (o *Orchestrator) fetchCommunityPosts(ctx context.Context, ch store.Channel, settings feed.Settings) ([]feed.ContentItem, error) {
	activities, err := o.client.ListActivities(ctx, ch.ID, settings.MaxItemsPerChannel)
	if err != nil {
		return nil, err
	}

	now := o.now()
	var items []feed.ContentItem
	for _, activity := range activities {
		if activity.Type != youtube.ActivityTypeBulletin {
			continue
		}
		if !feed.WithinWindow(activity.PublishedAt, settings.TimeRangeDays, now) {
			continue
		}
		items = append(items, feed.ContentItem{
			ID:           synthesizePostID(activity.Description),
			Kind:         feed.KindCommunity,
			ChannelID:    ch.ID,
			ChannelTitle: ch.Title,
			Title:        activity.Description,
			Thumbnail:    activity.Thumbnail,
			PublishedAt:  activity.PublishedAt,
		})
	}
	return items, nil
}

// synthesizePostID derives a stable id from a post's text prefix. Posts
// carry no native id in the activity feed; an empty post falls back to a
// random id so the item still has one.
func synthesizePostID(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return uuid.NewString()
	}
	runes := []rune(text)
	if len(runes) > postIDPrefixLen {
		runes = runes[:postIDPrefixLen]
	}
	return string(runes)
}
