package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL        = "http://localhost:8080"
	DefaultDebounce       = 300 * time.Millisecond
	DefaultBreakpoint     = 768
	DefaultCellWidth      = 8
	DefaultRequestTimeout = 10 * time.Second
	DefaultLogFile        = "./logs/booksearch.log"
	DefaultLogMaxSize     = 10 // megabytes
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit    string         `yaml:"git_commit" envconfig:"BKS_GIT_COMMIT"`
	GitTag       string         `yaml:"git_tag" envconfig:"BKS_GIT_TAG"`
	BuildTime    string         `yaml:"build_time" envconfig:"BKS_BUILD_TIME"`
	IsProduction bool           `yaml:"is_production" envconfig:"BKS_IS_PRODUCTION"`
	LogLevel     zapcore.Level  `yaml:"log_level" envconfig:"BKS_LOG_LEVEL"`
	LogFile      string         `yaml:"log_file" envconfig:"BKS_LOG_FILE"`
	LogMaxSize   int            `yaml:"log_max_size" envconfig:"BKS_LOG_MAX_SIZE"`
	Catalog      CatalogConfig  `yaml:"catalog"`
	Search       SearchConfig   `yaml:"search"`
	Viewport     ViewportConfig `yaml:"viewport"`
	Tracing      TracingConfig  `yaml:"tracing"`
}

type CatalogConfig struct {
	BaseURL        string        `yaml:"base_url" envconfig:"BKS_CATALOG_BASE_URL"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"BKS_CATALOG_REQUEST_TIMEOUT"`
	RateLimit      float64       `yaml:"rate_limit" envconfig:"BKS_CATALOG_RATE_LIMIT"` // requests per second, 0 disables
	RateBurst      int           `yaml:"rate_burst" envconfig:"BKS_CATALOG_RATE_BURST"`
}

type SearchConfig struct {
	Debounce time.Duration `yaml:"debounce" envconfig:"BKS_SEARCH_DEBOUNCE"`
}

type ViewportConfig struct {
	Breakpoint int `yaml:"breakpoint" envconfig:"BKS_VIEWPORT_BREAKPOINT"`
	CellWidth  int `yaml:"cell_width" envconfig:"BKS_VIEWPORT_CELL_WIDTH"`
}

type TracingConfig struct {
	Enabled  bool   `yaml:"enabled" envconfig:"BKS_TRACING_ENABLED"`
	Endpoint string `yaml:"endpoint" envconfig:"BKS_TRACING_ENDPOINT"`
	Insecure bool   `yaml:"insecure" envconfig:"BKS_TRACING_INSECURE"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables into the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.LogFile) == 0 {
		config.LogFile = DefaultLogFile
	}

	if config.LogMaxSize == 0 {
		config.LogMaxSize = DefaultLogMaxSize
	}

	if len(config.Catalog.BaseURL) == 0 {
		config.Catalog.BaseURL = DefaultBaseURL
	}

	if config.Catalog.RequestTimeout == 0 {
		config.Catalog.RequestTimeout = DefaultRequestTimeout
	}

	if config.Catalog.RateLimit > 0 && config.Catalog.RateBurst <= 0 {
		config.Catalog.RateBurst = 1
	}

	if config.Search.Debounce == 0 {
		config.Search.Debounce = DefaultDebounce
	}

	if config.Viewport.Breakpoint == 0 {
		config.Viewport.Breakpoint = DefaultBreakpoint
	}

	if config.Viewport.CellWidth == 0 {
		config.Viewport.CellWidth = DefaultCellWidth
	}

	u, err := url.Parse(config.Catalog.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("make sure to set a valid catalog base url: %q", config.Catalog.BaseURL)
	}

	if config.Catalog.RequestTimeout < 0 {
		return errors.New("catalog request timeout must not be negative")
	}

	if config.Search.Debounce < 0 {
		return errors.New("search debounce delay must be positive")
	}

	if config.Viewport.Breakpoint < 0 || config.Viewport.CellWidth < 0 {
		return errors.New("viewport breakpoint and cell width must be positive")
	}

	if config.Tracing.Enabled && len(config.Tracing.Endpoint) == 0 {
		return errors.New("make sure to set the tracing endpoint when tracing is enabled")
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data. Both files are optional.
func LoadAndInitConfigs(configFile, envFile, gitCommit, gitTag, buildTime string) (*Config, error) {
	config := &Config{}
	var err error

	// Setup the yaml configuration from file.
	if FileExists(configFile) {
		config, err = LoadConfigFile(configFile)
		if err != nil {
			return config, fmt.Errorf("failed to load configurations from file: %s", err)
		}
	}

	// Set the environment configuration.
	if FileExists(envFile) {
		if err = godotenv.Load(envFile); err != nil {
			return config, fmt.Errorf("failed to set environment configurations: %s", err)
		}
	}

	// Use environment variables with prefix `BKS`.
	err = LoadConfigEnvs("BKS", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
