package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for stockdash.
type Config struct {
	API     API     `yaml:"api"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
	UI      UI      `yaml:"ui"`
	Refresh Refresh `yaml:"refresh"`
}

// API points at the remote stocks API.
type API struct {
	BaseURL      string        `yaml:"base_url"`
	SeriesPath   string        `yaml:"series_path"`
	ProfilesPath string        `yaml:"profiles_path"`
	StatsPath    string        `yaml:"stats_path"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Server holds network listener configuration.
type Server struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	GRPCPort int    `yaml:"grpc_port"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// UI controls how the dashboard presents data.
type UI struct {
	DefaultPeriod string `yaml:"default_period"`
	DateLayout    string `yaml:"date_layout"`
	Timezone      string `yaml:"timezone"`
	ChartTarget   string `yaml:"chart_target"`
	ListSort      string `yaml:"list_sort"`
}

// Refresh schedules background work. An empty ListCron disables the periodic
// ticker list refresh.
type Refresh struct {
	ListCron string `yaml:"list_cron"`
}

// Default values for optional configuration fields.
const (
	DefaultBaseURL       = "https://stocks3.onrender.com/api/stocks"
	DefaultSeriesPath    = "/getstocksdata"
	DefaultProfilesPath  = "/getstocksprofiledata"
	DefaultStatsPath     = "/getstockstatsdata"
	DefaultAPITimeout    = 30 * time.Second
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 8080
	DefaultGRPCPort      = 9090
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultPeriod        = "1mo"
	DefaultDateLayout    = "1/2/2006"
	DefaultChartTarget   = "myChart"
	DefaultListSort      = "api"
	DefaultRefreshCron   = ""
	defaultTimezoneLocal = "Local"
)

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, applies environment variable overrides and fills defaults.
// A missing file is not an error; the defaults and environment apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STOCKDASH_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("STOCKDASH_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = d
		}
	}

	if v := os.Getenv("STOCKDASH_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("STOCKDASH_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("STOCKDASH_GRPC_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.GRPCPort = n
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("STOCKDASH_TIMEZONE"); v != "" {
		cfg.UI.Timezone = v
	}
	if v := os.Getenv("STOCKDASH_REFRESH_CRON"); v != "" {
		cfg.Refresh.ListCron = v
	}
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.SeriesPath == "" {
		c.API.SeriesPath = DefaultSeriesPath
	}
	if c.API.ProfilesPath == "" {
		c.API.ProfilesPath = DefaultProfilesPath
	}
	if c.API.StatsPath == "" {
		c.API.StatsPath = DefaultStatsPath
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = DefaultGRPCPort
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}

	if c.UI.DefaultPeriod == "" {
		c.UI.DefaultPeriod = DefaultPeriod
	}
	if c.UI.DateLayout == "" {
		c.UI.DateLayout = DefaultDateLayout
	}
	if c.UI.Timezone == "" {
		c.UI.Timezone = defaultTimezoneLocal
	}
	if c.UI.ChartTarget == "" {
		c.UI.ChartTarget = DefaultChartTarget
	}
	if c.UI.ListSort == "" {
		c.UI.ListSort = DefaultListSort
	}
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout must not be negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.GRPCPort < 1 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("server.grpc_port %d out of range", c.Server.GRPCPort)
	}
	if c.Server.Port == c.Server.GRPCPort {
		return errors.New("server.port and server.grpc_port must differ")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("ui.timezone: %w", err)
	}
	return nil
}

// Location resolves UI.Timezone. "Local" and "" map to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.UI.Timezone == "" || c.UI.Timezone == defaultTimezoneLocal {
		return time.Local, nil
	}
	return time.LoadLocation(c.UI.Timezone)
}

// HTTPAddr returns the host:port the HTTP server listens on.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GRPCAddr returns the host:port the gRPC event stream listens on.
func (c *Config) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}
