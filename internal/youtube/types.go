// Package youtube provides a client for the YouTube Data API v3.
//
// This package enables tubefeed to:
// - Resolve a channel's uploads playlist
// - List a channel's recent uploads and activity
// - Fetch video durations in quota-friendly batches
// - Search for channels to track
package youtube

import "time"

// ChannelResult is a channel returned by search.
type ChannelResult struct {
	ChannelID string `json:"channel_id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// UploadEntry is a raw entry from a channel's uploads playlist. Duration is
// not available here; it requires a separate detail lookup.
type UploadEntry struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	Thumbnail   string    `json:"thumbnail"`
	PublishedAt time.Time `json:"published_at"`
}

// Activity is a raw entry from a channel's activity feed. Only entries whose
// Type marks them as channel posts are of interest to callers.
type Activity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	PublishedAt time.Time `json:"published_at"`
}

// ActivityTypeBulletin is the upstream activity type for community posts.
const ActivityTypeBulletin = "bulletin"
