package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/streetline/pkg/geocode"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the geocode result cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show geocode cache entry counts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cache, err := geocode.OpenCache(cfg.Geocode.CachePath, cfg.Geocode.CacheTTLDays)
		if err != nil {
			return eris.Wrap(err, "cache status")
		}
		defer cache.Close() //nolint:errcheck

		stats, err := cache.Stats(ctx)
		if err != nil {
			return eris.Wrap(err, "cache status")
		}

		fmt.Printf("Cache:   %s\n", cfg.Geocode.CachePath)
		fmt.Printf("Entries: %d (%d matched)\n", stats.Entries, stats.Matched)
		if !stats.Oldest.IsZero() {
			fmt.Printf("Oldest:  %s\n", stats.Oldest.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all geocode cache entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cache, err := geocode.OpenCache(cfg.Geocode.CachePath, cfg.Geocode.CacheTTLDays)
		if err != nil {
			return eris.Wrap(err, "cache clear")
		}
		defer cache.Close() //nolint:errcheck

		if err := cache.Clear(ctx); err != nil {
			return eris.Wrap(err, "cache clear")
		}

		fmt.Println("Geocode cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
