// Package feed defines the unified content model and the pure logic that
// shapes the aggregated feed: duration classification, recency filtering,
// and the composite-key merge.
//
// This package enables tubefeed to:
// - Normalize videos, shorts, and community posts into one item type
// - Decide whether a video counts as short-form content
// - Keep the aggregated feed deduplicated and sorted by recency
package feed

import "time"

// Kind identifies the type of a content item.
type Kind string

const (
	KindVideo     Kind = "video"
	KindShort     Kind = "short"
	KindCommunity Kind = "community"
)

// ContentItem represents a unified item from any tracked channel.
//
// For videos and shorts, Title is the video title and Duration its label.
// For community posts, Title holds the post text and Duration is empty.
type ContentItem struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	ChannelID    string    `json:"channel_id"`
	ChannelTitle string    `json:"channel_title"`
	Title        string    `json:"title"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	Views        int64     `json:"views"`
	Duration     string    `json:"duration,omitempty"`
	PublishedAt  time.Time `json:"published_at"`
}

// Key is the dedup identity of a content item. Raw item ids are not unique
// across kinds (a synthesized post id may collide with a video id from
// another channel), so the kind and channel are part of the identity.
type Key struct {
	Kind      Kind
	ChannelID string
	ID        string
}

// Key returns the item's composite merge key.
func (i ContentItem) Key() Key {
	return Key{Kind: i.Kind, ChannelID: i.ChannelID, ID: i.ID}
}

// Preferences selects which content kinds are fetched for a channel.
type Preferences struct {
	Videos    bool `json:"videos"`
	Shorts    bool `json:"shorts"`
	Community bool `json:"community"`
}

// DefaultPreferences returns the preferences applied to newly added
// channels: videos and shorts on, community posts off.
func DefaultPreferences() Preferences {
	return Preferences{Videos: true, Shorts: true, Community: false}
}

// Wants reports whether items of the given kind are enabled.
func (p Preferences) Wants(kind Kind) bool {
	switch kind {
	case KindVideo:
		return p.Videos
	case KindShort:
		return p.Shorts
	case KindCommunity:
		return p.Community
	default:
		return false
	}
}

// Settings configures every orchestrated fetch.
type Settings struct {
	// MaxItemsPerChannel bounds how many items one channel contributes.
	MaxItemsPerChannel int
	// TimeRangeDays bounds item age in days; zero means all-time.
	TimeRangeDays int
}

// DefaultSettings returns the fetch settings used until the user changes
// them.
func DefaultSettings() Settings {
	return Settings{MaxItemsPerChannel: 20, TimeRangeDays: 30}
}
