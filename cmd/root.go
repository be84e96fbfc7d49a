package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/streetline/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "streetline",
	Short: "Street centerline extractor",
	Long:  "Geocodes an address, selects street centerlines within a radius from a shapefile dataset, and exports them as an interactive map, an SVG drawing, and optionally an XLSX cell-fill drawing.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
