package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tubefeed/internal/cache"
	"tubefeed/internal/display"
	"tubefeed/internal/feed"
	"tubefeed/internal/fetch"
	"tubefeed/internal/registry"
	"tubefeed/internal/youtube"
)

// newChannelCmd creates the channel management command group.
func newChannelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Manage tracked channels",
	}

	cmd.AddCommand(newChannelAddCmd())
	cmd.AddCommand(newChannelRemoveCmd())
	cmd.AddCommand(newChannelListCmd())
	cmd.AddCommand(newChannelPrefsCmd())

	return cmd
}

func newChannelAddCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <channel-id>",
		Short: "Start tracking a channel",
		Long:  "Start tracking a channel with default preferences (videos and shorts on, community posts off) and seed the feed with its latest item.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID := args[0]
			if title == "" {
				title = channelID
			}

			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			client, err := newAPIClient(db)
			if err != nil {
				return err
			}
			reg := registry.New(db, client)

			ch, err := reg.Add(channelID, title, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tracking channel %s (%s)\n", ch.Title, ch.ID)

			// Seed the feed with the channel's latest item so it shows up
			// before the next full refresh. Keyless setups skip this.
			settings, err := db.LoadFetchSettings()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			refresher := fetch.NewRefresher(fetch.NewOrchestrator(client, reg), reg, cache.NewFeedCache(db), lockPath())
			if err := refresher.SeedChannel(ctx, ch, settings); err != nil {
				if errors.Is(err, youtube.ErrCredentialMissing) {
					fmt.Fprintf(cmd.OutOrStdout(), "Note: %v\n", err)
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Seed fetch failed: %v\n", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Display name for the channel (defaults to the id)")

	return cmd
}

func newChannelRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <channel-id>",
		Short: "Stop tracking a channel",
		Long:  "Stop tracking a channel. Its cached items disappear on the next full refresh.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := registry.New(db, nil).Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed channel %s\n", args[0])
			return nil
		},
	}
}

func newChannelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked channels and their preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			channels, err := registry.New(db, nil).List()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatChannels(channels))
			return nil
		},
	}
}

func newChannelPrefsCmd() *cobra.Command {
	var videos, shorts, community bool

	cmd := &cobra.Command{
		Use:   "prefs <channel-id>",
		Short: "Change which content kinds a channel contributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("videos") && !cmd.Flags().Changed("shorts") && !cmd.Flags().Changed("community") {
				return fmt.Errorf("nothing to change: pass at least one of --videos, --shorts, --community")
			}

			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			reg := registry.New(db, nil)
			updates := []struct {
				flag    string
				kind    feed.Kind
				enabled bool
			}{
				{"videos", feed.KindVideo, videos},
				{"shorts", feed.KindShort, shorts},
				{"community", feed.KindCommunity, community},
			}
			for _, update := range updates {
				if !cmd.Flags().Changed(update.flag) {
					continue
				}
				if err := reg.UpdatePreference(args[0], update.kind, update.enabled); err != nil {
					return err
				}
			}

			ch, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Preferences for %s: videos=%t shorts=%t community=%t\n",
				ch.Title, ch.Prefs.Videos, ch.Prefs.Shorts, ch.Prefs.Community)
			return nil
		},
	}

	cmd.Flags().BoolVar(&videos, "videos", true, "Include regular videos")
	cmd.Flags().BoolVar(&shorts, "shorts", true, "Include short-form videos")
	cmd.Flags().BoolVar(&community, "community", false, "Include community posts")

	return cmd
}
