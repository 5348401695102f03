// Package main provides the tubefeed CLI entry point.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tubefeed/internal/store"
	"tubefeed/internal/youtube"
)

// version is set via ldflags at release time.
var version = "dev"

func main() {
	// A local .env may carry TUBEFEED_API_KEY; absence is fine.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	if dir := os.Getenv("TUBEFEED_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tubefeed")
}

// getAPIURL returns the API base URL (overridable for testing).
func getAPIURL() string {
	if url := os.Getenv("TUBEFEED_API_URL"); url != "" {
		return url
	}
	return ""
}

// openStore opens the SQLite store under the config directory, creating the
// directory on first use.
func openStore() (*store.DB, error) {
	dir := getConfigDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	return store.Open(filepath.Join(dir, "tubefeed.db"))
}

// lockPath is the file used to reject concurrent refreshes.
func lockPath() string {
	return filepath.Join(getConfigDir(), "refresh.lock")
}

// newAPIClient builds the upstream client. The environment variable
// TUBEFEED_API_KEY overrides the stored credential.
func newAPIClient(db *store.DB) (*youtube.Client, error) {
	apiKey := os.Getenv("TUBEFEED_API_KEY")
	if apiKey == "" {
		stored, err := db.GetSetting(store.SettingAPIKey)
		if err != nil {
			return nil, err
		}
		apiKey = stored
	}

	opts := []youtube.ClientOption{}
	if url := getAPIURL(); url != "" {
		opts = append(opts, youtube.WithBaseURL(url))
	}
	return youtube.NewClient(apiKey, opts...), nil
}

// newRootCmd creates the root command for the tubefeed CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tubefeed",
		Short:   "Aggregate videos, shorts, and community posts from your channels",
		Long:    "Tubefeed aggregates content from a curated set of YouTube channels into one unified, recency-sorted feed.",
		Version: resolveVersion(version, readBuildInfo()),
	}

	rootCmd.SetVersionTemplate("tubefeed version {{.Version}}\n")

	rootCmd.AddCommand(newChannelCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newFeedCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func readBuildInfo() *debug.BuildInfo {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	return info
}

// resolveVersion prefers the ldflags version and falls back to module build
// info so 'go install ...@vX.Y.Z' reports a real version.
func resolveVersion(ldflagsVersion string, info *debug.BuildInfo) string {
	if ldflagsVersion != "dev" {
		return ldflagsVersion
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}
