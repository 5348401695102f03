package feed

import (
	"fmt"
	"strings"
)

// shortMaxSeconds is the upstream platform's short-form threshold. Videos at
// or under one minute are shorts; anything longer is a regular video.
const shortMaxSeconds = 60

// UnknownDuration is the label used when a video's duration could not be
// retrieved or parsed.
const UnknownDuration = "--:--"

// ShortDuration is the fixed label shown for short-form videos.
const ShortDuration = "SHORT"

// Classify determines a video's kind from its encoded duration and returns
// the kind together with a display label. An empty or unparseable code
// defaults to a regular video with the unknown-duration label.
func Classify(durationCode string) (Kind, string) {
	seconds, ok := parseDurationCode(durationCode)
	if !ok {
		return KindVideo, UnknownDuration
	}
	if seconds <= shortMaxSeconds {
		return KindShort, ShortDuration
	}
	return KindVideo, formatDuration(seconds)
}

// parseDurationCode parses the upstream's coarse duration encoding
// ("PT1H2M3S", "PT45S", "PT4M"). Any component may be absent and defaults
// to zero. Returns false when the code carries no time components at all.
func parseDurationCode(code string) (int, bool) {
	code = strings.TrimPrefix(strings.TrimSpace(code), "P")
	code = strings.TrimPrefix(code, "T")
	if code == "" {
		return 0, false
	}

	total := 0
	value := 0
	sawDigit := false
	sawComponent := false
	for _, r := range code {
		switch {
		case r >= '0' && r <= '9':
			value = value*10 + int(r-'0')
			sawDigit = true
		case r == 'H' || r == 'h':
			total += value * 3600
			value = 0
			sawComponent = sawComponent || sawDigit
			sawDigit = false
		case r == 'M' || r == 'm':
			total += value * 60
			value = 0
			sawComponent = sawComponent || sawDigit
			sawDigit = false
		case r == 'S' || r == 's':
			total += value
			value = 0
			sawComponent = sawComponent || sawDigit
			sawDigit = false
		default:
			return 0, false
		}
	}
	if !sawComponent {
		return 0, false
	}
	return total, true
}

// formatDuration renders total seconds as M:SS, or H:MM:SS past one hour.
func formatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
