package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pevans/judgearchive/scraper"
)

// Config is the resolved runtime configuration. Values are layered:
// defaults, then the config file, then .env and the environment, then
// command-line flags (applied by the caller).
type Config struct {
	Root            string
	SolutionsDir    string
	ReadmePath      string
	SolutionBaseURL string
	FetchTimeout    time.Duration
	UserAgent       string
	CatalogDSN      string
	LogLevel        string
}

// Default returns the built-in configuration.
func Default() *Config {
	catalogDSN := "catalog.db"
	if homeDir, err := os.UserHomeDir(); err == nil {
		catalogDSN = filepath.Join(homeDir, ".judgearchive", "catalog.db")
	}

	return &Config{
		Root:         ".",
		SolutionsDir: "solutions",
		ReadmePath:   "README.md",
		FetchTimeout: scraper.DefaultTimeout,
		UserAgent:    scraper.DefaultUserAgent,
		CatalogDSN:   catalogDSN,
		LogLevel:     "info",
	}
}

// Load resolves the configuration from the config file, a .env file in the
// working directory, and JUDGEARCHIVE_* environment variables.
func Load() (*Config, error) {
	// A missing .env is normal
	_ = godotenv.Load()

	cfg := Default()

	fileCfg, err := LoadConfigFile()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyFile(fileCfg); err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyFile overlays the non-empty values of fileCfg. A nil fileCfg changes
// nothing.
func (c *Config) ApplyFile(fileCfg *FileConfig) error {
	if fileCfg == nil {
		return nil
	}

	setString(&c.Root, fileCfg.Archive.Root)
	setString(&c.SolutionsDir, fileCfg.Archive.SolutionsDir)
	setString(&c.ReadmePath, fileCfg.Archive.Readme)
	setString(&c.SolutionBaseURL, fileCfg.Readme.SolutionBaseURL)
	setString(&c.UserAgent, fileCfg.Scraper.UserAgent)
	setString(&c.CatalogDSN, fileCfg.Catalog.DSN)
	setString(&c.LogLevel, fileCfg.Log.Level)

	if fileCfg.Scraper.Timeout != "" {
		timeout, err := parseTimeout(fileCfg.Scraper.Timeout)
		if err != nil {
			return fmt.Errorf("invalid scraper.timeout in config file: %w", err)
		}
		c.FetchTimeout = timeout
	}

	return nil
}

// ApplyEnv overlays JUDGEARCHIVE_* environment variables.
func (c *Config) ApplyEnv() error {
	setString(&c.Root, os.Getenv("JUDGEARCHIVE_ROOT"))
	setString(&c.SolutionsDir, os.Getenv("JUDGEARCHIVE_SOLUTIONS_DIR"))
	setString(&c.ReadmePath, os.Getenv("JUDGEARCHIVE_README"))
	setString(&c.SolutionBaseURL, os.Getenv("JUDGEARCHIVE_SOLUTION_BASE_URL"))
	setString(&c.UserAgent, os.Getenv("JUDGEARCHIVE_USER_AGENT"))
	setString(&c.CatalogDSN, os.Getenv("JUDGEARCHIVE_CATALOG_DSN"))
	setString(&c.LogLevel, os.Getenv("JUDGEARCHIVE_LOG_LEVEL"))

	if value := os.Getenv("JUDGEARCHIVE_FETCH_TIMEOUT"); value != "" {
		timeout, err := parseTimeout(value)
		if err != nil {
			return fmt.Errorf("invalid JUDGEARCHIVE_FETCH_TIMEOUT: %w", err)
		}
		c.FetchTimeout = timeout
	}

	return nil
}

// SolutionsPath returns the solutions root, resolved against Root when
// relative.
func (c *Config) SolutionsPath() string {
	return c.resolve(c.SolutionsDir)
}

// ReadmeFile returns the README path, resolved against Root when relative.
func (c *Config) ReadmeFile() string {
	return c.resolve(c.ReadmePath)
}

// ScraperOptions returns the fetch settings for problem scrapers.
func (c *Config) ScraperOptions() scraper.Options {
	return scraper.Options{
		Timeout:   c.FetchTimeout,
		UserAgent: c.UserAgent,
	}
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Root, path)
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func parseTimeout(value string) (time.Duration, error) {
	timeout, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", value)
	}
	return timeout, nil
}
