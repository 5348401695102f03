// Package display provides terminal output formatting for tubefeed.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"tubefeed/internal/feed"
	"tubefeed/internal/store"
	"tubefeed/internal/youtube"
)

const separator = " • "

// titleWidth bounds item titles in table views.
const titleWidth = 60

// TerminalFormatter formats feed content for terminal display.
type TerminalFormatter struct {
	styled bool
}

// NewTerminalFormatter creates a formatter. Table styling is enabled only
// when stdout is a terminal.
func NewTerminalFormatter() *TerminalFormatter {
	fd := os.Stdout.Fd()
	return &TerminalFormatter{
		styled: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// FormatFeed renders the feed as a table, newest first. watched reports an
// item id's watched state; a nil func marks nothing watched.
func (f *TerminalFormatter) FormatFeed(items []feed.ContentItem, watched func(string) bool) string {
	if len(items) == 0 {
		return "No items to display. Run 'tubefeed refresh' to fetch content.\n"
	}

	tw := f.newTable()
	tw.AppendHeader(table.Row{"", "Kind", "Title", "Channel", "Length", "Published"})

	for _, item := range items {
		mark := ""
		if watched != nil && watched(item.ID) {
			mark = "✓"
		}
		tw.AppendRow(table.Row{
			mark,
			kindLabel(item.Kind),
			f.TruncateText(strings.ReplaceAll(item.Title, "\n", " "), titleWidth),
			item.ChannelTitle,
			item.Duration,
			f.FormatTimestamp(item.PublishedAt),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render() + "\n"
}

// FormatChannels renders the channel registry as a table.
func (f *TerminalFormatter) FormatChannels(channels []store.Channel) string {
	if len(channels) == 0 {
		return "No channels tracked. Run 'tubefeed channel add <channel-id>' to start.\n"
	}

	tw := f.newTable()
	tw.AppendHeader(table.Row{"Channel", "ID", "Videos", "Shorts", "Community"})
	for _, ch := range channels {
		tw.AppendRow(table.Row{
			ch.Title,
			ch.ID,
			onOff(ch.Prefs.Videos),
			onOff(ch.Prefs.Shorts),
			onOff(ch.Prefs.Community),
		})
	}

	return tw.Render() + "\n"
}

// FormatSearchResults renders channel search results as a table.
func (f *TerminalFormatter) FormatSearchResults(results []youtube.ChannelResult) string {
	if len(results) == 0 {
		return "No channels found.\n"
	}

	tw := f.newTable()
	tw.AppendHeader(table.Row{"Channel", "ID"})
	for _, result := range results {
		tw.AppendRow(table.Row{result.Title, result.ChannelID})
	}

	return tw.Render() + "\n"
}

// FormatItem formats a single feed item as plain lines.
func (f *TerminalFormatter) FormatItem(item feed.ContentItem) string {
	var lines []string

	header := fmt.Sprintf("[%s] %s", kindLabel(item.Kind), f.TruncateText(strings.ReplaceAll(item.Title, "\n", " "), 100))
	lines = append(lines, header)

	meta := "  " + item.ChannelTitle + separator + f.FormatTimestamp(item.PublishedAt)
	if item.Duration != "" {
		meta += separator + item.Duration
	}
	lines = append(lines, meta)

	return strings.Join(lines, "\n") + "\n"
}

func (f *TerminalFormatter) newTable() table.Writer {
	tw := table.NewWriter()
	if f.styled {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	return tw
}

func kindLabel(kind feed.Kind) string {
	switch kind {
	case feed.KindVideo:
		return "VIDEO"
	case feed.KindShort:
		return "SHORT"
	case feed.KindCommunity:
		return "POST"
	default:
		return strings.ToUpper(string(kind))
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

// FormatTimestamp formats a timestamp as relative time.
func (f *TerminalFormatter) FormatTimestamp(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralize(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return pluralize(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return pluralize(int(diff.Hours()/24), "day")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// pluralize returns "N unit ago" or "N units ago" based on count.
func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
