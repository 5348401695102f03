// Package store provides SQLite persistence for tubefeed: tracked channels,
// the cached feed snapshot, the watched-id set, fetch settings, and the API
// credential. Round-trip fidelity is the contract; callers never see SQL.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"tubefeed/internal/feed"
)

// Channel is a tracked channel with its per-channel content preferences.
// UploadsPlaylistID is resolved lazily and memoized once known; empty means
// not yet resolved.
type Channel struct {
	ID                string
	Title             string
	Thumbnail         string
	UploadsPlaylistID string
	Prefs             feed.Preferences
}

// Settings keys.
const (
	SettingMaxItemsPerChannel = "max_items_per_channel"
	SettingTimeRangeDays      = "time_range_days"
	SettingAPIKey             = "api_key"
)

const snapshotCapturedAtKey = "captured_at"

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open opens or creates an SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Enable WAL mode for better concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS channels (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		thumbnail TEXT DEFAULT '',
		uploads_playlist_id TEXT DEFAULT '',
		videos INTEGER NOT NULL DEFAULT 1,
		shorts INTEGER NOT NULL DEFAULT 1,
		community INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS feed_items (
		kind TEXT NOT NULL,
		channel_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		channel_title TEXT NOT NULL,
		title TEXT NOT NULL,
		thumbnail TEXT DEFAULT '',
		views INTEGER NOT NULL DEFAULT 0,
		duration TEXT DEFAULT '',
		published_at DATETIME NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (kind, channel_id, item_id)
	);
	CREATE TABLE IF NOT EXISTS feed_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS watched (
		item_id TEXT PRIMARY KEY
	);
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// --- Channel methods ---

// InsertChannel stores a new channel. It fails if the id already exists.
func (db *DB) InsertChannel(ch Channel) error {
	_, err := db.conn.Exec(
		"INSERT INTO channels (id, title, thumbnail, uploads_playlist_id, videos, shorts, community) VALUES (?, ?, ?, ?, ?, ?, ?)",
		ch.ID, ch.Title, ch.Thumbnail, ch.UploadsPlaylistID,
		boolToInt(ch.Prefs.Videos), boolToInt(ch.Prefs.Shorts), boolToInt(ch.Prefs.Community),
	)
	return err
}

// GetChannel returns the channel with the given id, or nil when absent.
func (db *DB) GetChannel(id string) (*Channel, error) {
	row := db.conn.QueryRow(
		"SELECT id, title, thumbnail, uploads_playlist_id, videos, shorts, community FROM channels WHERE id = ?", id)
	ch, err := scanChannel(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// ListChannels returns all tracked channels ordered by title.
func (db *DB) ListChannels() ([]Channel, error) {
	rows, err := db.conn.Query(
		"SELECT id, title, thumbnail, uploads_playlist_id, videos, shorts, community FROM channels ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, *ch)
	}
	return channels, rows.Err()
}

// DeleteChannel removes a channel. Deleting an absent channel is a no-op.
func (db *DB) DeleteChannel(id string) error {
	_, err := db.conn.Exec("DELETE FROM channels WHERE id = ?", id)
	return err
}

// UpdateChannelPrefs replaces a channel's preference set. Returns false when
// the channel does not exist.
func (db *DB) UpdateChannelPrefs(id string, prefs feed.Preferences) (bool, error) {
	res, err := db.conn.Exec(
		"UPDATE channels SET videos = ?, shorts = ?, community = ? WHERE id = ?",
		boolToInt(prefs.Videos), boolToInt(prefs.Shorts), boolToInt(prefs.Community), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetUploadsPlaylist memoizes a channel's resolved uploads playlist id.
func (db *DB) SetUploadsPlaylist(id, playlistID string) error {
	_, err := db.conn.Exec("UPDATE channels SET uploads_playlist_id = ? WHERE id = ?", playlistID, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChannel(row rowScanner) (*Channel, error) {
	var ch Channel
	var videos, shorts, community int
	if err := row.Scan(&ch.ID, &ch.Title, &ch.Thumbnail, &ch.UploadsPlaylistID, &videos, &shorts, &community); err != nil {
		return nil, err
	}
	ch.Prefs = feed.Preferences{Videos: videos != 0, Shorts: shorts != 0, Community: community != 0}
	return &ch, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// --- Snapshot methods ---

// SaveSnapshot replaces the stored feed snapshot and records the capture
// time. Item order is preserved on load.
func (db *DB) SaveSnapshot(items []feed.ContentItem, capturedAt time.Time) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM feed_items"); err != nil {
		return err
	}
	for i, item := range items {
		_, err := tx.Exec(
			"INSERT INTO feed_items (kind, channel_id, item_id, channel_title, title, thumbnail, views, duration, published_at, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			string(item.Kind), item.ChannelID, item.ID, item.ChannelTitle, item.Title,
			item.Thumbnail, item.Views, item.Duration, item.PublishedAt.UTC().Format(time.RFC3339Nano), i)
		if err != nil {
			return err
		}
	}
	if _, err := tx.Exec(
		"INSERT INTO feed_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		snapshotCapturedAtKey, capturedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadSnapshot returns the stored feed snapshot and its capture time. An
// absent snapshot yields no items and a zero time.
func (db *DB) LoadSnapshot() ([]feed.ContentItem, time.Time, error) {
	var capturedAt time.Time
	var raw string
	err := db.conn.QueryRow("SELECT value FROM feed_meta WHERE key = ?", snapshotCapturedAtKey).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		return nil, time.Time{}, nil
	case err != nil:
		return nil, time.Time{}, err
	}
	capturedAt, err = time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parse capture time: %w", err)
	}

	rows, err := db.conn.Query(
		"SELECT kind, channel_id, item_id, channel_title, title, thumbnail, views, duration, published_at FROM feed_items ORDER BY position")
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var items []feed.ContentItem
	for rows.Next() {
		var item feed.ContentItem
		var kind, publishedAt string
		if err := rows.Scan(&kind, &item.ChannelID, &item.ID, &item.ChannelTitle, &item.Title,
			&item.Thumbnail, &item.Views, &item.Duration, &publishedAt); err != nil {
			return nil, time.Time{}, err
		}
		item.Kind = feed.Kind(kind)
		item.PublishedAt, err = time.Parse(time.RFC3339Nano, publishedAt)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("parse published time: %w", err)
		}
		items = append(items, item)
	}
	return items, capturedAt, rows.Err()
}

// --- Watched methods ---

// ToggleWatched flips an item's watched membership and reports the new state.
func (db *DB) ToggleWatched(itemID string) (bool, error) {
	watched, err := db.IsWatched(itemID)
	if err != nil {
		return false, err
	}
	if watched {
		_, err = db.conn.Exec("DELETE FROM watched WHERE item_id = ?", itemID)
		return false, err
	}
	_, err = db.conn.Exec("INSERT INTO watched (item_id) VALUES (?)", itemID)
	return true, err
}

// IsWatched reports whether an item id is marked watched.
func (db *DB) IsWatched(itemID string) (bool, error) {
	var one int
	err := db.conn.QueryRow("SELECT 1 FROM watched WHERE item_id = ?", itemID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// --- Settings methods ---

// GetSetting returns the setting's value, or empty when unset.
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting stores a setting, replacing any previous value.
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	return err
}
