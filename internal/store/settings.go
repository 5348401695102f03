package store

import (
	"fmt"
	"strconv"

	"tubefeed/internal/feed"
)

// LoadFetchSettings returns the persisted fetch settings, falling back to
// defaults for anything unset.
func (db *DB) LoadFetchSettings() (feed.Settings, error) {
	settings := feed.DefaultSettings()

	if raw, err := db.GetSetting(SettingMaxItemsPerChannel); err != nil {
		return settings, err
	} else if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return settings, fmt.Errorf("invalid %s setting: %q", SettingMaxItemsPerChannel, raw)
		}
		settings.MaxItemsPerChannel = n
	}

	if raw, err := db.GetSetting(SettingTimeRangeDays); err != nil {
		return settings, err
	} else if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return settings, fmt.Errorf("invalid %s setting: %q", SettingTimeRangeDays, raw)
		}
		settings.TimeRangeDays = n
	}

	return settings, nil
}

// SaveFetchSettings persists the fetch settings.
func (db *DB) SaveFetchSettings(settings feed.Settings) error {
	if settings.MaxItemsPerChannel < 1 {
		return fmt.Errorf("max items per channel must be positive, got %d", settings.MaxItemsPerChannel)
	}
	if settings.TimeRangeDays < 0 {
		return fmt.Errorf("time range days must not be negative, got %d", settings.TimeRangeDays)
	}
	if err := db.SetSetting(SettingMaxItemsPerChannel, strconv.Itoa(settings.MaxItemsPerChannel)); err != nil {
		return err
	}
	return db.SetSetting(SettingTimeRangeDays, strconv.Itoa(settings.TimeRangeDays))
}
