package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/streetline/internal/dataset"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect or download the centerline dataset",
}

var datasetInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show record count and extent of the loaded dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("dataset")
		if path == "" {
			path = cfg.Dataset.Path
		}

		coll, err := dataset.Load(path)
		if err != nil {
			return eris.Wrap(err, "dataset info")
		}

		fmt.Printf("Shapefile: %s\n", coll.Path)
		fmt.Printf("Records:   %d\n", coll.Len())
		if b := coll.Bounds(); b != nil {
			fmt.Printf("Extent:    lon [%.6f, %.6f], lat [%.6f, %.6f]\n",
				b.Min(0), b.Max(0), b.Min(1), b.Max(1))
		}

		// A few sample street names give a quick sanity check on attribute mapping.
		n := coll.Len()
		if n > 5 {
			n = 5
		}
		for _, cl := range coll.Centerlines[:n] {
			fmt.Printf("  %-12s %s\n", cl.ID, cl.Street)
		}
		return nil
	},
}

var datasetFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and extract the centerline dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		url, _ := cmd.Flags().GetString("url")
		dest, _ := cmd.Flags().GetString("dest")
		if url == "" {
			url = cfg.Dataset.URL
		}
		if dest == "" {
			dest = cfg.Dataset.Path
		}

		hc := &http.Client{Timeout: 10 * time.Minute}
		shpPath, err := dataset.Fetch(ctx, hc, url, dest)
		if err != nil {
			return eris.Wrap(err, "dataset fetch")
		}

		fmt.Printf("Dataset ready: %s\n", shpPath)
		return nil
	},
}

func init() {
	datasetInfoCmd.Flags().String("dataset", "", "path to the centerline shapefile or its directory (default: from config)")
	datasetFetchCmd.Flags().String("url", "", "dataset archive URL (default: from config)")
	datasetFetchCmd.Flags().String("dest", "", "destination directory (default: from config)")
	datasetCmd.AddCommand(datasetInfoCmd)
	datasetCmd.AddCommand(datasetFetchCmd)
	rootCmd.AddCommand(datasetCmd)
}
