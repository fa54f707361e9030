package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stockdash.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"STOCKDASH_API_BASE_URL", "STOCKDASH_API_TIMEOUT", "STOCKDASH_HOST",
		"STOCKDASH_PORT", "STOCKDASH_GRPC_PORT", "LOG_LEVEL", "LOG_FORMAT",
		"STOCKDASH_TIMEZONE", "STOCKDASH_REFRESH_CRON",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api:
  base_url: "http://localhost:3000/api/stocks"
  series_path: "/series"
  timeout: 5s
server:
  host: "127.0.0.1"
  port: 8081
  grpc_port: 9091
logging:
  level: "debug"
  format: "text"
ui:
  default_period: "5d"
  date_layout: "2006-01-02"
  timezone: "UTC"
  chart_target: "chart"
  list_sort: "change"
refresh:
  list_cron: "0 */5 * * * *"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	// -- API --
	if cfg.API.BaseURL != "http://localhost:3000/api/stocks" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "http://localhost:3000/api/stocks")
	}
	if cfg.API.SeriesPath != "/series" {
		t.Errorf("API.SeriesPath = %q, want %q", cfg.API.SeriesPath, "/series")
	}
	if cfg.API.ProfilesPath != DefaultProfilesPath {
		t.Errorf("API.ProfilesPath = %q, want default %q", cfg.API.ProfilesPath, DefaultProfilesPath)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("API.Timeout = %v, want %v", cfg.API.Timeout, 5*time.Second)
	}

	// -- Server --
	if cfg.HTTPAddr() != "127.0.0.1:8081" {
		t.Errorf("HTTPAddr() = %q, want %q", cfg.HTTPAddr(), "127.0.0.1:8081")
	}
	if cfg.GRPCAddr() != "127.0.0.1:9091" {
		t.Errorf("GRPCAddr() = %q, want %q", cfg.GRPCAddr(), "127.0.0.1:9091")
	}

	// -- Logging --
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want debug/text", cfg.Logging)
	}

	// -- UI --
	if cfg.UI.DefaultPeriod != "5d" {
		t.Errorf("UI.DefaultPeriod = %q, want %q", cfg.UI.DefaultPeriod, "5d")
	}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() returned error: %v", err)
	}
	if loc != time.UTC {
		t.Errorf("Location() = %v, want UTC", loc)
	}
	if cfg.Refresh.ListCron != "0 */5 * * * *" {
		t.Errorf("Refresh.ListCron = %q, want %q", cfg.Refresh.ListCron, "0 */5 * * * *")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() returned error: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.Server.Port != DefaultPort || cfg.Server.GRPCPort != DefaultGRPCPort {
		t.Errorf("ports = %d/%d, want %d/%d", cfg.Server.Port, cfg.Server.GRPCPort, DefaultPort, DefaultGRPCPort)
	}
	if cfg.UI.DefaultPeriod != "1mo" {
		t.Errorf("UI.DefaultPeriod = %q, want %q", cfg.UI.DefaultPeriod, "1mo")
	}
	if cfg.UI.DateLayout != DefaultDateLayout {
		t.Errorf("UI.DateLayout = %q, want %q", cfg.UI.DateLayout, DefaultDateLayout)
	}
	if loc, _ := cfg.Location(); loc != time.Local {
		t.Errorf("Location() = %v, want Local", loc)
	}
	if cfg.Refresh.ListCron != "" {
		t.Errorf("Refresh.ListCron = %q, want empty", cfg.Refresh.ListCron)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api:
  base_url: "http://yaml"
server:
  port: 8000
logging:
  level: "info"
`)
	t.Setenv("STOCKDASH_API_BASE_URL", "http://env")
	t.Setenv("STOCKDASH_PORT", "8100")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("STOCKDASH_API_TIMEOUT", "2s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.API.BaseURL != "http://env" {
		t.Errorf("API.BaseURL = %q, want %q (env override)", cfg.API.BaseURL, "http://env")
	}
	if cfg.Server.Port != 8100 {
		t.Errorf("Server.Port = %d, want %d (env override)", cfg.Server.Port, 8100)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q (env override)", cfg.Logging.Level, "warn")
	}
	if cfg.API.Timeout != 2*time.Second {
		t.Errorf("API.Timeout = %v, want %v (env override)", cfg.API.Timeout, 2*time.Second)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() with invalid YAML returned nil error")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := func() *Config {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		if err := base().Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("port out of range", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = 70000
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("same ports", func(t *testing.T) {
		cfg := base()
		cfg.Server.GRPCPort = cfg.Server.Port
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("unknown timezone", func(t *testing.T) {
		cfg := base()
		cfg.UI.Timezone = "Mars/Olympus_Mons"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})
}

func TestShippedConfig(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join("..", "..", "config", "stockdash.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if cfg.Refresh.ListCron != "@every 5m" {
		t.Errorf("Refresh.ListCron = %q, want @every 5m", cfg.Refresh.ListCron)
	}
}
