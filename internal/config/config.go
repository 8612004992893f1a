// Package config loads the client and devserver configuration from a YAML
// file, an optional .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	dirName  = ".jobportal"
	fileName = "config.yaml"
)

// Config represents the terminal client's configuration
type Config struct {
	APIURL    string        `yaml:"api_url" env:"JOBPORTAL_API_URL"`
	DataDir   string        `yaml:"data_dir" env:"JOBPORTAL_DATA_DIR"`
	Timeout   time.Duration `yaml:"timeout" env:"JOBPORTAL_TIMEOUT"`
	PageSize  int           `yaml:"page_size" env:"JOBPORTAL_PAGE_SIZE"`
	LogLevel  string        `yaml:"log_level" env:"LOG_LEVEL"`
	LastEmail string        `yaml:"last_email,omitempty"` // Prefills the login form
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dataDir, err := globalConfigDir()
	if err != nil {
		dataDir = dirName
	}
	return &Config{
		APIURL:   "http://localhost:8080/api",
		DataDir:  dataDir,
		Timeout:  30 * time.Second,
		PageSize: 10,
		LogLevel: "info",
	}
}

// globalConfigDir returns the global config directory path (~/.jobportal)
func globalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

// globalConfigPath returns the global config file path (~/.jobportal/config.yaml)
func globalConfigPath() (string, error) {
	dir, err := globalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// projectConfigPath returns the project-level config path (.jobportal/config.yaml in cwd)
func projectConfigPath() string {
	return filepath.Join(dirName, fileName)
}

// Load reads the config, checking project config first, then global, then
// applies .env and environment overrides.
func Load() (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		globalPath = ""
	}
	return load(projectConfigPath(), globalPath, ".env")
}

func load(projectPath, globalPath, dotenvPath string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range []string{projectPath, globalPath} {
		if path == "" {
			continue
		}
		found, err := readFile(path, cfg)
		if err != nil {
			return nil, err
		}
		if found {
			break
		}
	}

	if err := loadDotenv(dotenvPath); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// readFile decodes path into cfg. Missing files are not an error.
func readFile(path string, cfg *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// loadDotenv loads KEY=VALUE pairs without overriding variables already set.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("JOBPORTAL_API_URL must be an absolute http(s) URL, got %q", c.APIURL)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("JOBPORTAL_PAGE_SIZE must be between 1 and 100, got %d", c.PageSize)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("JOBPORTAL_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.DataDir == "" {
		return errors.New("JOBPORTAL_DATA_DIR must not be empty")
	}
	return nil
}

// StoragePath is the SQLite file holding origin-scoped client state
func (c *Config) StoragePath() string {
	return filepath.Join(c.DataDir, "storage.db")
}

// LogPath is where the client writes its JSON log
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "jobportal.log")
}

// RememberEmail records email as last_email in the global config file
// (~/.jobportal/config.yaml). Only that key changes; settings that came
// from a project file, .env or the environment are never written back.
func RememberEmail(email string) error {
	path, err := globalConfigPath()
	if err != nil {
		return err
	}
	return rememberEmailIn(path, email)
}

func rememberEmailIn(path, email string) error {
	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	}
	doc["last_email"] = email

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}
