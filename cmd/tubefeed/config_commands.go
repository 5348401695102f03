package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tubefeed/internal/store"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigSetKeyCmd())
	cmd.AddCommand(newConfigSettingsCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key <api-key>",
		Short: "Store the YouTube Data API key",
		Long:  "Store the YouTube Data API key. The TUBEFEED_API_KEY environment variable takes precedence when set.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.SetSetting(store.SettingAPIKey, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key saved")
			return nil
		},
	}
}

func newConfigSettingsCmd() *cobra.Command {
	var maxItems, days int

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Change fetch settings",
		Long:  "Change fetch settings: the per-channel item budget and the recency window in days (0 means all-time).",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-items") && !cmd.Flags().Changed("days") {
				return fmt.Errorf("nothing to change: pass --max-items and/or --days")
			}

			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			settings, err := db.LoadFetchSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-items") {
				settings.MaxItemsPerChannel = maxItems
			}
			if cmd.Flags().Changed("days") {
				settings.TimeRangeDays = days
			}
			if err := db.SaveFetchSettings(settings); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Fetch settings: max items per channel=%d, time range=%s\n",
				settings.MaxItemsPerChannel, describeDays(settings.TimeRangeDays))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxItems, "max-items", 20, "Maximum items fetched per channel")
	cmd.Flags().IntVar(&days, "days", 30, "Recency window in days (0 for all-time)")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			settings, err := db.LoadFetchSettings()
			if err != nil {
				return err
			}
			client, err := newAPIClient(db)
			if err != nil {
				return err
			}

			keyState := "configured"
			if err := client.Ready(); err != nil {
				keyState = "missing"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config directory: %s\n", getConfigDir())
			fmt.Fprintf(out, "API key: %s\n", keyState)
			fmt.Fprintf(out, "Max items per channel: %d\n", settings.MaxItemsPerChannel)
			fmt.Fprintf(out, "Time range: %s\n", describeDays(settings.TimeRangeDays))
			return nil
		},
	}
}

func describeDays(days int) string {
	if days == 0 {
		return "all-time"
	}
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
