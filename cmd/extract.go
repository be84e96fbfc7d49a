package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/streetline/internal/dataset"
	"github.com/sells-group/streetline/internal/export"
	"github.com/sells-group/streetline/internal/spatial"
	"github.com/sells-group/streetline/pkg/geocode"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract street centerlines around an address",
	Long: `Geocodes the given address, selects every centerline record within the
search radius, and writes the configured export formats with a shared
timestamp. A run that matches nothing still writes valid empty exports.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		address, _ := cmd.Flags().GetString("address")
		radius, _ := cmd.Flags().GetFloat64("radius")
		outDir, _ := cmd.Flags().GetString("out")
		formatsStr, _ := cmd.Flags().GetString("formats")
		datasetPath, _ := cmd.Flags().GetString("dataset")

		if strings.TrimSpace(address) == "" {
			return eris.New("extract: --address must not be empty")
		}
		if radius <= 0 {
			return eris.New("extract: --radius must be greater than 0")
		}
		if outDir == "" {
			outDir = cfg.Export.Dir
		}
		if datasetPath == "" {
			datasetPath = cfg.Dataset.Path
		}
		formats := cfg.Export.Formats
		if formatsStr != "" {
			formats = splitAndTrim(formatsStr)
		}
		if err := validateFormats(formats); err != nil {
			return err
		}

		log := zap.L().With(zap.String("command", "extract"))
		runID := uuid.New().String()

		// Load the dataset up front; a missing or corrupt dataset is fatal.
		coll, err := dataset.Load(datasetPath)
		if err != nil {
			return eris.Wrap(err, "extract: load dataset")
		}

		client, closeCache, err := newGeocodeClient()
		if err != nil {
			return err
		}
		defer closeCache()

		log.Info("geocoding address", zap.String("address", address), zap.String("run_id", runID))
		result, err := client.Geocode(ctx, address)
		if err != nil {
			return eris.Wrap(err, "extract: geocode")
		}
		if !result.Matched {
			fmt.Printf("Address not found: %q. Check the spelling and try again.\n", address)
			return eris.Errorf("extract: address not found: %s", address)
		}

		log.Info("address geocoded",
			zap.Float64("lat", result.Latitude),
			zap.Float64("lon", result.Longitude),
			zap.String("source", result.Source),
		)

		matched := spatial.WithinRadius(coll, result.Longitude, result.Latitude, radius)
		if len(matched) == 0 {
			fmt.Printf("No streets found within %.0f m; writing empty exports.\n", radius)
		}

		proj := spatial.NewProjection(result.Longitude, result.Latitude)
		projected := spatial.Project(matched, proj)

		writer := export.NewWriter(outDir)
		var outputs []string

		for _, format := range formats {
			var path string
			switch format {
			case "html":
				doc, renderErr := export.RenderMap(matched, export.MapOptions{
					CenterLon:    result.Longitude,
					CenterLat:    result.Latitude,
					RadiusMeters: radius,
					Label:        address,
				})
				if renderErr != nil {
					return eris.Wrap(renderErr, "extract: render map")
				}
				path, err = writer.WriteFile("street_map", "html", doc)
			case "svg":
				doc := export.RenderSVG(projected, export.SVGOptions{
					RadiusMeters: radius,
					CanvasPx:     cfg.Export.SVG.CanvasPx,
					StrokeWidth:  cfg.Export.SVG.StrokeWidth,
				})
				path, err = writer.WriteFile("street_lines", "svg", doc)
			case "xlsx":
				doc, renderErr := export.RenderXLSX(projected, export.XLSXOptions{
					RadiusMeters: radius,
					GridSize:     cfg.Export.XLSX.GridSize,
				})
				if renderErr != nil {
					return eris.Wrap(renderErr, "extract: render xlsx")
				}
				path, err = writer.WriteFile("street_grid", "xlsx", doc)
			}
			if err != nil {
				return eris.Wrapf(err, "extract: %s export failed", format)
			}
			outputs = append(outputs, path)
		}

		manifest, err := export.RenderManifest(export.Manifest{
			RunID:        runID,
			CreatedAt:    time.Now().UTC(),
			Address:      address,
			MatchedLabel: result.DisplayName,
			Latitude:     result.Latitude,
			Longitude:    result.Longitude,
			RadiusMeters: radius,
			Dataset:      coll.Path,
			MatchCount:   len(matched),
			Outputs:      outputs,
		})
		if err != nil {
			return eris.Wrap(err, "extract: render manifest")
		}
		manifestPath, err := writer.WriteFile("run", "yaml", manifest)
		if err != nil {
			return eris.Wrap(err, "extract: manifest export failed")
		}
		outputs = append(outputs, manifestPath)

		fmt.Printf("Found %d streets within %.0f m of %s\n", len(matched), radius, address)
		for _, p := range outputs {
			fmt.Printf("  wrote %s\n", p)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().String("address", "", "address to geocode (e.g. '350 5th Ave, New York, NY')")
	extractCmd.Flags().Float64("radius", 0, "search radius in meters")
	extractCmd.Flags().String("out", "", "output directory (default: from config)")
	extractCmd.Flags().String("formats", "", "comma-separated export formats: html,svg,xlsx (default: from config)")
	extractCmd.Flags().String("dataset", "", "path to the centerline shapefile or its directory (default: from config)")
	_ = extractCmd.MarkFlagRequired("address")
	_ = extractCmd.MarkFlagRequired("radius")
	rootCmd.AddCommand(extractCmd)
}

// newGeocodeClient builds the geocoding client from config: Nominatim first,
// Census fallback when enabled, with a shared rate limiter and sqlite cache.
func newGeocodeClient() (geocode.Client, func(), error) {
	hc := &http.Client{Timeout: time.Duration(cfg.Geocode.TimeoutSecs) * time.Second}

	providers := []geocode.Provider{
		geocode.NewNominatimProvider(cfg.Geocode.NominatimBaseURL),
		geocode.NewCensusProvider(cfg.Geocode.CensusBaseURL, cfg.Geocode.CensusEnabled),
	}

	opts := []geocode.Option{
		geocode.WithHTTPClient(hc),
		geocode.WithUserAgent(cfg.Geocode.UserAgent),
		geocode.WithRateLimit(cfg.Geocode.RateLimit),
	}

	closeCache := func() {}
	if cfg.Geocode.CachePath != "" {
		cache, err := geocode.OpenCache(cfg.Geocode.CachePath, cfg.Geocode.CacheTTLDays)
		if err != nil {
			return nil, nil, eris.Wrap(err, "extract: open geocode cache")
		}
		opts = append(opts, geocode.WithCache(cache))
		closeCache = func() { _ = cache.Close() }
	}

	return geocode.NewClient(providers, opts...), closeCache, nil
}

// splitAndTrim splits a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

// validateFormats rejects unknown export formats before any work happens.
func validateFormats(formats []string) error {
	for _, f := range formats {
		switch f {
		case "html", "svg", "xlsx":
		default:
			return eris.Errorf("extract: unknown export format %q (expected html, svg, or xlsx)", f)
		}
	}
	if len(formats) == 0 {
		return eris.New("extract: no export formats configured")
	}
	return nil
}
