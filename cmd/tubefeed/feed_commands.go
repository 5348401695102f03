package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tubefeed/internal/cache"
	"tubefeed/internal/display"
	"tubefeed/internal/feed"
	"tubefeed/internal/fetch"
	"tubefeed/internal/registry"
	"tubefeed/internal/store"
)

// refreshTimeout bounds one full-registry refresh.
const refreshTimeout = 2 * time.Minute

// newRefreshCmd creates the refresh command.
func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch fresh content from every tracked channel",
		Long:  "Fetch fresh content from every tracked channel and replace the cached feed. Channels that fail are reported and skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			merged, results, err := runRefresh(cmd.Context(), db)
			if err != nil {
				return err
			}

			for _, result := range results {
				if result.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", result.ChannelTitle, result.Err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d items from %d channels\n", len(merged), len(results))
			return nil
		},
	}
}

// newFeedCmd creates the feed command.
func newFeedCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Display the aggregated feed",
		Long:  "Display the aggregated feed. A snapshot newer than 24 hours is served from cache; a stale one triggers a refresh.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			feedCache := cache.NewFeedCache(db)
			items, err := feedCache.Read()
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "Cached feed is stale, refreshing...")
				items, _, err = runRefresh(cmd.Context(), db)
				if err != nil {
					return err
				}
			}

			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}

			tracker := cache.NewWatchedTracker(db)
			formatter := display.NewTerminalFormatter()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeed(items, func(id string) bool {
				watched, _ := tracker.IsWatched(id)
				return watched
			}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "Maximum number of items to display (0 for all)")

	return cmd
}

// newWatchCmd creates the watched-state toggle command.
func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <item-id>",
		Short: "Toggle an item's watched state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			watched, err := cache.NewWatchedTracker(db).Toggle(args[0])
			if err != nil {
				return err
			}
			if watched {
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %s watched\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %s unwatched\n", args[0])
			}
			return nil
		},
	}
}

// newSearchCmd creates the channel discovery command.
func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search for channels to track",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			client, err := newAPIClient(db)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			query := ""
			for i, arg := range args {
				if i > 0 {
					query += " "
				}
				query += arg
			}
			results, err := client.SearchChannels(ctx, query)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatSearchResults(results))
			return nil
		},
	}
}

// runRefresh wires up and executes a full-registry refresh.
func runRefresh(ctx context.Context, db *store.DB) ([]feed.ContentItem, []fetch.ChannelResult, error) {
	client, err := newAPIClient(db)
	if err != nil {
		return nil, nil, err
	}
	settings, err := db.LoadFetchSettings()
	if err != nil {
		return nil, nil, err
	}

	reg := registry.New(db, client)
	refresher := fetch.NewRefresher(fetch.NewOrchestrator(client, reg), reg, cache.NewFeedCache(db), lockPath())

	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()
	return refresher.RefreshAll(ctx, settings)
}
