// Package registry manages the set of tracked channels: adding, removing,
// per-channel content preferences, and the memoized resolution of each
// channel's uploads feed.
package registry

import (
	"context"
	"errors"
	"fmt"

	"tubefeed/internal/feed"
	"tubefeed/internal/store"
)

// ErrDuplicateChannel indicates an add for an id that is already tracked.
var ErrDuplicateChannel = errors.New("channel is already tracked")

// ErrChannelNotFound indicates an operation on an id that is not tracked.
var ErrChannelNotFound = errors.New("channel not found")

// UploadFeedResolver looks up a channel's uploads feed identifier upstream.
// An empty id with a nil error means the channel exposes no uploads feed.
type UploadFeedResolver interface {
	ResolveUploadsPlaylist(ctx context.Context, channelID string) (string, error)
}

// Registry holds tracked channels and their preferences.
type Registry struct {
	db       *store.DB
	resolver UploadFeedResolver
}

// New creates a registry over the given store and upstream resolver.
func New(db *store.DB, resolver UploadFeedResolver) *Registry {
	return &Registry{db: db, resolver: resolver}
}

// Add starts tracking a channel with default preferences and returns the
// stored entry. Adding an id that is already tracked fails with
// ErrDuplicateChannel.
func (r *Registry) Add(id, title, thumbnail string) (store.Channel, error) {
	existing, err := r.db.GetChannel(id)
	if err != nil {
		return store.Channel{}, err
	}
	if existing != nil {
		return store.Channel{}, fmt.Errorf("%w: %s", ErrDuplicateChannel, id)
	}

	ch := store.Channel{
		ID:        id,
		Title:     title,
		Thumbnail: thumbnail,
		Prefs:     feed.DefaultPreferences(),
	}
	if err := r.db.InsertChannel(ch); err != nil {
		return store.Channel{}, err
	}
	return ch, nil
}

// Remove stops tracking a channel. Removing an absent id is a no-op.
func (r *Registry) Remove(id string) error {
	return r.db.DeleteChannel(id)
}

// Get returns the tracked channel, or nil when absent.
func (r *Registry) Get(id string) (*store.Channel, error) {
	return r.db.GetChannel(id)
}

// List returns all tracked channels ordered by title.
func (r *Registry) List() ([]store.Channel, error) {
	return r.db.ListChannels()
}

// UpdatePreference enables or disables one content kind for a channel. It
// fails with ErrChannelNotFound when the id is not tracked.
func (r *Registry) UpdatePreference(id string, kind feed.Kind, enabled bool) error {
	ch, err := r.db.GetChannel(id)
	if err != nil {
		return err
	}
	if ch == nil {
		return fmt.Errorf("%w: %s", ErrChannelNotFound, id)
	}

	prefs := ch.Prefs
	switch kind {
	case feed.KindVideo:
		prefs.Videos = enabled
	case feed.KindShort:
		prefs.Shorts = enabled
	case feed.KindCommunity:
		prefs.Community = enabled
	default:
		return fmt.Errorf("unknown content kind %q", kind)
	}

	updated, err := r.db.UpdateChannelPrefs(id, prefs)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: %s", ErrChannelNotFound, id)
	}
	return nil
}

// ResolveUploadFeedID returns the channel's uploads feed identifier,
// performing at most one upstream lookup. The resolved value is memoized on
// the channel record; an empty upstream result is returned but not cached,
// so a later call may retry. Redundant concurrent resolution is harmless:
// the resolved value is stable once known, last writer wins.
func (r *Registry) ResolveUploadFeedID(ctx context.Context, id string) (string, error) {
	ch, err := r.db.GetChannel(id)
	if err != nil {
		return "", err
	}
	if ch == nil {
		return "", fmt.Errorf("%w: %s", ErrChannelNotFound, id)
	}
	if ch.UploadsPlaylistID != "" {
		return ch.UploadsPlaylistID, nil
	}

	playlistID, err := r.resolver.ResolveUploadsPlaylist(ctx, id)
	if err != nil {
		return "", err
	}
	if playlistID == "" {
		return "", nil
	}
	if err := r.db.SetUploadsPlaylist(id, playlistID); err != nil {
		return "", err
	}
	return playlistID, nil
}
