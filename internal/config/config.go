package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Data struct {
		Path  string `yaml:"path"`
		Sheet string `yaml:"sheet"`
		Query string `yaml:"query"`
	} `yaml:"data"`
	Dashboard struct {
		MAWindow      int `yaml:"ma_window"`
		HistogramBins int `yaml:"histogram_bins"`
	} `yaml:"dashboard"`
	Server struct {
		Addr        string `yaml:"addr"`
		MaxUploadMB int64  `yaml:"max_upload_mb"`
	} `yaml:"server"`
	Log struct {
		Level          string `yaml:"level"`
		Format         string `yaml:"format"`
		FilePath       string `yaml:"file_path"`
		RotationSizeMB int    `yaml:"rotation_size_mb"`
		RetentionDays  int    `yaml:"retention_days"`
	} `yaml:"log"`
	Refresh struct {
		Cron    string   `yaml:"cron"`
		Symbols []string `yaml:"symbols"`
		Range   string   `yaml:"range"`
		Proxy   string   `yaml:"proxy"`
	} `yaml:"refresh"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DASHBOARD_DATA_PATH"); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv("DASHBOARD_MA_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Dashboard.MAWindow = n
		}
	}
	if v := os.Getenv("DASHBOARD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Refresh.Cron = v
	}
	if v := os.Getenv("REFRESH_SYMBOLS"); v != "" {
		cfg.Refresh.Symbols = splitList(v)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Refresh.Proxy = v
	}

	// Defaults
	if cfg.Data.Path == "" {
		cfg.Data.Path = "stocks.csv"
	}
	if cfg.Dashboard.MAWindow == 0 {
		cfg.Dashboard.MAWindow = 20
	}
	if cfg.Dashboard.HistogramBins == 0 {
		cfg.Dashboard.HistogramBins = 50
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 32
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "pretty"
	}
	if cfg.Log.RotationSizeMB == 0 {
		cfg.Log.RotationSizeMB = 50
	}
	if cfg.Log.RetentionDays == 0 {
		cfg.Log.RetentionDays = 14
	}
	if cfg.Refresh.Range == "" {
		cfg.Refresh.Range = "2y"
	}

	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Dashboard.MAWindow < 1 {
		return fmt.Errorf("dashboard.ma_window must be positive")
	}
	if c.Dashboard.HistogramBins < 1 {
		return fmt.Errorf("dashboard.histogram_bins must be positive")
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	switch c.Log.Format {
	case "json", "pretty":
	default:
		return fmt.Errorf("log.format must be json or pretty, got %q", c.Log.Format)
	}
	if c.Refresh.Cron != "" && len(c.Refresh.Symbols) == 0 {
		return fmt.Errorf("refresh.symbols is required when refresh.cron is set")
	}
	return nil
}
