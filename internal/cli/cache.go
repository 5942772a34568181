package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/prismfold/internal/cache"
	"github.com/dshills/prismfold/internal/config"
	"github.com/spf13/cobra"
)

var flagCacheJSON bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the page digest cache",
	Long: "The cache records the digest of every page prismfold formats in place, so " +
		"format --in-place and watch can skip pages unchanged since their last run.",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recorded page digests",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		// Clear even when caching is disabled so stale entries never linger.
		c, err := cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		if err := c.Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", c.Dir())
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cache location and statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		stats, err := c.GetStats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}
		return writeCacheStats(cmd.OutOrStdout(), c.Enabled(), stats, cfg.Cache.TTLSeconds)
	},
}

func writeCacheStats(w io.Writer, enabled bool, stats cache.Stats, ttlSeconds int) error {
	if flagCacheJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Enabled bool `json:"enabled"`
			cache.Stats
		}{enabled, stats})
	}
	if !enabled {
		_, err := fmt.Fprintln(w, "Cache is disabled.")
		return err
	}
	_, err := fmt.Fprintf(w, "Directory: %s\nEntries:   %d (%d expired)\nSize:      %d bytes\nTTL:       %ds\n",
		stats.Dir, stats.Entries, stats.Expired, stats.TotalBytes, ttlSeconds)
	return err
}

func init() {
	cacheShowCmd.Flags().BoolVar(&flagCacheJSON, "json", false, "Print statistics as JSON")
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheShowCmd)
}
