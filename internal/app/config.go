package app

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	BaseURL        string `yaml:"base_url"`
	PageSize       int    `yaml:"page_size"`
	RequestTimeout int    `yaml:"request_timeout_sec"`
	Theme          string `yaml:"theme"`
	SessionPath    string `yaml:"session_path"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8000",
		PageSize:       20,
		RequestTimeout: 60,
	}
}

// LoadConfig reads the yaml config, then applies ORATIO_* environment
// overrides. A .env file in the working directory is honored first so local
// setups don't need exported variables. Missing file means defaults.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("ORATIO_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("ORATIO_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PageSize = n
		}
	}
	if v := os.Getenv("ORATIO_REQUEST_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeout = n
		}
	}
	if v := os.Getenv("ORATIO_THEME"); v != "" {
		cfg.Theme = v
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.PageSize > 100 {
		cfg.PageSize = 100
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "oratio", "config.yml")
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}
