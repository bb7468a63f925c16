package core

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jo-hoe/pixscribe/internal/backend/database"
	"github.com/jo-hoe/pixscribe/internal/backend/upstream"
	"github.com/jo-hoe/pixscribe/internal/gallery"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort      = 3001
	UpstreamTokenEnv = "PIXSCRIBE_UPSTREAM_TOKEN"
)

type Upstream struct {
	BaseURL string        `yaml:"baseURL"`
	Width   int           `yaml:"width"`
	Height  int           `yaml:"height"`
	NoLogo  *bool         `yaml:"noLogo"`
	Timeout time.Duration `yaml:"timeout"`
	// Token is the provider API key. UpstreamTokenEnv overrides it.
	Token string `yaml:"token"`
}

type Gallery struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
	Key              string `yaml:"key"`
}

type ServiceConfig struct {
	Port     int      `yaml:"port"`
	LogLevel string   `yaml:"logLevel"`
	Upstream Upstream `yaml:"upstream"`
	Gallery  Gallery  `yaml:"gallery"`
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *ServiceConfig {
	config := &ServiceConfig{}
	config.applyDefaults()
	return config
}

func (config *ServiceConfig) applyDefaults() {
	if token := os.Getenv(UpstreamTokenEnv); token != "" {
		config.Upstream.Token = token
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Upstream.BaseURL == "" {
		config.Upstream.BaseURL = upstream.DefaultBaseURL
	}
	if config.Upstream.Width == 0 {
		config.Upstream.Width = upstream.DefaultWidth
	}
	if config.Upstream.Height == 0 {
		config.Upstream.Height = upstream.DefaultHeight
	}
	if config.Upstream.NoLogo == nil {
		config.Upstream.NoLogo = lo.ToPtr(true)
	}
	if config.Gallery.Type == "" {
		config.Gallery.Type = database.TypeSQLite
		if config.Gallery.ConnectionString == "" {
			config.Gallery.ConnectionString = "pixscribe.db"
		}
	}
	if config.Gallery.Key == "" {
		config.Gallery.Key = gallery.DefaultKey
	}
}

func (config *ServiceConfig) validate() error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d out of range", config.Port)
	}
	if config.Upstream.Width < 0 || config.Upstream.Height < 0 {
		return fmt.Errorf("upstream dimensions must be positive, got %dx%d", config.Upstream.Width, config.Upstream.Height)
	}
	if config.Upstream.Timeout < 0 {
		return fmt.Errorf("upstream timeout must not be negative, got %v", config.Upstream.Timeout)
	}
	if !lo.Contains(database.SupportedTypes, config.Gallery.Type) {
		return fmt.Errorf("unsupported gallery type %q, expected one of %s",
			config.Gallery.Type, strings.Join(database.SupportedTypes, ", "))
	}
	if _, err := config.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (config *ServiceConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
	}
	return level, nil
}
