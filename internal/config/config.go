package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates the street centerline shapefile dataset.
type DatasetConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	URL  string `yaml:"url" mapstructure:"url"`
}

// GeocodeConfig configures the geocoding client.
type GeocodeConfig struct {
	UserAgent        string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs      int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit        float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	CachePath        string  `yaml:"cache_path" mapstructure:"cache_path"`
	CacheTTLDays     int     `yaml:"cache_ttl_days" mapstructure:"cache_ttl_days"`
	NominatimBaseURL string  `yaml:"nominatim_base_url" mapstructure:"nominatim_base_url"`
	CensusEnabled    bool    `yaml:"census_enabled" mapstructure:"census_enabled"`
	CensusBaseURL    string  `yaml:"census_base_url" mapstructure:"census_base_url"`
}

// ExportConfig configures the output renderers.
type ExportConfig struct {
	Dir     string     `yaml:"dir" mapstructure:"dir"`
	Formats []string   `yaml:"formats" mapstructure:"formats"`
	SVG     SVGConfig  `yaml:"svg" mapstructure:"svg"`
	XLSX    XLSXConfig `yaml:"xlsx" mapstructure:"xlsx"`
}

// SVGConfig configures the vector drawing exporter.
type SVGConfig struct {
	CanvasPx    int     `yaml:"canvas_px" mapstructure:"canvas_px"`
	StrokeWidth float64 `yaml:"stroke_width" mapstructure:"stroke_width"`
}

// XLSXConfig configures the spreadsheet cell-fill exporter.
type XLSXConfig struct {
	GridSize int `yaml:"grid_size" mapstructure:"grid_size"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("STREETLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.path", "./data/centerline")
	v.SetDefault("dataset.url", "https://data.cityofnewyork.us/api/geospatial/exjm-f27b?method=export&format=Shapefile")
	v.SetDefault("geocode.user_agent", "streetline/1.0 (street centerline extractor)")
	v.SetDefault("geocode.timeout_secs", 15)
	v.SetDefault("geocode.rate_limit", 1.0) // Nominatim usage policy: 1 req/s
	v.SetDefault("geocode.cache_path", "streetline_cache.db")
	v.SetDefault("geocode.cache_ttl_days", 30)
	v.SetDefault("geocode.nominatim_base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.census_enabled", false)
	v.SetDefault("geocode.census_base_url", "https://geocoding.geo.census.gov")
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.formats", []string{"html", "svg"})
	v.SetDefault("export.svg.canvas_px", 1000)
	v.SetDefault("export.svg.stroke_width", 1.5)
	v.SetDefault("export.xlsx.grid_size", 101)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
