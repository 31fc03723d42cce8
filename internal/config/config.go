package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/landcover-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Raster     RasterConfig     `yaml:"raster" mapstructure:"raster"`
	Industries IndustriesConfig `yaml:"industries" mapstructure:"industries"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Map        MapConfig        `yaml:"map" mapstructure:"map"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig configures the PostGIS connection holding the boundary table.
type DatabaseConfig struct {
	URL           string `yaml:"url" mapstructure:"url"`
	BoundaryTable string `yaml:"boundary_table" mapstructure:"boundary_table"`
	GeomColumn    string `yaml:"geom_column" mapstructure:"geom_column"`
}

// RasterConfig maps each analysis year to its GeoTIFF path.
type RasterConfig struct {
	Years map[string]string `yaml:"years" mapstructure:"years"`
}

// Path returns the raster path configured for y, or "" when none is set.
func (r RasterConfig) Path(y model.Year) string {
	return r.Years[string(y)]
}

// IndustriesConfig points at the industrial sites shapefile.
type IndustriesConfig struct {
	Shapefile string `yaml:"shapefile" mapstructure:"shapefile"`
	NameField string `yaml:"name_field" mapstructure:"name_field"`
}

// OutputConfig holds the paths of the generated artifacts.
type OutputConfig struct {
	ChartPath string `yaml:"chart_path" mapstructure:"chart_path"`
	MapPath   string `yaml:"map_path" mapstructure:"map_path"`
}

// MapConfig configures the composed map document.
type MapConfig struct {
	Region         string  `yaml:"region" mapstructure:"region"`
	CenterLat      float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLon      float64 `yaml:"center_lon" mapstructure:"center_lon"`
	Zoom           int     `yaml:"zoom" mapstructure:"zoom"`
	OverlayOpacity float64 `yaml:"overlay_opacity" mapstructure:"overlay_opacity"`
	TileURL        string  `yaml:"tile_url" mapstructure:"tile_url"`
	Attribution    string  `yaml:"attribution" mapstructure:"attribution"`
}

// ServerConfig configures the browser front end.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("LANDCOVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("database.url", "postgres://postgres@localhost:5432/urban_analysis")
	v.SetDefault("database.boundary_table", "lahore_boundary")
	v.SetDefault("database.geom_column", "geom")
	v.SetDefault("raster.years", map[string]string{
		string(model.Year2018): "data/FLahore_2018_2019.tif",
		string(model.Year2020): "data/FLahore_2020_2021.tif",
		string(model.Year2022): "data/FLahore_2022_2023.tif",
	})
	v.SetDefault("industries.shapefile", "data/lahore_industries/lahore_industries.shp")
	v.SetDefault("industries.name_field", "Name")
	v.SetDefault("output.chart_path", "bar_graph.png")
	v.SetDefault("output.map_path", "lahore_map.html")
	v.SetDefault("map.region", "Lahore")
	v.SetDefault("map.center_lat", 31.5497)
	v.SetDefault("map.center_lon", 74.3436)
	v.SetDefault("map.zoom", 12)
	v.SetDefault("map.overlay_opacity", 0.7)
	v.SetDefault("map.tile_url", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("map.attribution", "&copy; OpenStreetMap contributors")
	v.SetDefault("server.port", 8080)
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

// Validate checks the settings the given command mode depends on. Modes are
// "analysis" (analyze, desktop), "serve" and "area". Missing input files are
// not checked here; they are reported per run.
func (c *Config) Validate(mode string) error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	checkDatabase := func() {
		if c.Database.URL == "" {
			add("database.url is required")
		} else if _, err := pgx.ParseConfig(c.Database.URL); err != nil {
			add("database.url is invalid: %v", err)
		}
		if c.Database.BoundaryTable == "" {
			add("database.boundary_table is required")
		}
		if c.Database.GeomColumn == "" {
			add("database.geom_column is required")
		}
	}

	checkAnalysis := func() {
		checkDatabase()
		for y := range c.Raster.Years {
			if !model.Year(y).Valid() {
				add("raster.years has unknown year %q", y)
			}
		}
		if c.Industries.Shapefile == "" {
			add("industries.shapefile is required")
		}
		if c.Output.ChartPath == "" {
			add("output.chart_path is required")
		}
		if c.Output.MapPath == "" {
			add("output.map_path is required")
		}
		if c.Map.Zoom < 0 || c.Map.Zoom > 22 {
			add("map.zoom must be between 0 and 22")
		}
		if c.Map.OverlayOpacity < 0 || c.Map.OverlayOpacity > 1 {
			add("map.overlay_opacity must be between 0 and 1")
		}
	}

	switch mode {
	case "analysis":
		checkAnalysis()
	case "serve":
		checkAnalysis()
		if c.Server.Port <= 0 {
			add("server.port must be > 0")
		}
	case "area":
		checkDatabase()
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Redacted returns a copy of c with the database password masked.
func (c *Config) Redacted() Config {
	out := *c
	out.Database.URL = RedactDSN(c.Database.URL)
	years := make(map[string]string, len(c.Raster.Years))
	for k, v := range c.Raster.Years {
		years[k] = v
	}
	out.Raster.Years = years
	return out
}

var dsnPassword = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|\S+)`)

// RedactDSN masks the password of a postgres URL or keyword/value DSN.
func RedactDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "xxxxx"
		}
		return u.Redacted()
	}
	return dsnPassword.ReplaceAllString(dsn, "${1}xxxxx")
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
	zapCfg.OutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
