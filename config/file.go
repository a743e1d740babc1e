package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig represents the structure of ~/.judgearchive/config.yaml.
type FileConfig struct {
	Archive struct {
		Root         string `yaml:"root"`
		SolutionsDir string `yaml:"solutions_dir"`
		Readme       string `yaml:"readme"`
	} `yaml:"archive"`
	Readme struct {
		SolutionBaseURL string `yaml:"solution_base_url"`
	} `yaml:"readme"`
	Scraper struct {
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"scraper"`
	Catalog struct {
		DSN string `yaml:"dsn"`
	} `yaml:"catalog"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultConfigPath returns ~/.judgearchive/config.yaml, or the path in
// JUDGEARCHIVE_CONFIG when set.
func DefaultConfigPath() (string, error) {
	if path := os.Getenv("JUDGEARCHIVE_CONFIG"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".judgearchive", "config.yaml"), nil
}

// LoadConfigFile loads the config file from DefaultConfigPath. Returns nil
// if the file doesn't exist (not an error). Returns error if the file exists
// but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFileFrom(configPath)
}

// LoadConfigFileFrom loads the config file at configPath with the same rules
// as LoadConfigFile.
func LoadConfigFileFrom(configPath string) (*FileConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
