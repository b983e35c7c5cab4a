package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the image harvester
type Config struct {
	// Result-surface selectors and navigation
	Surface SurfaceConfig `yaml:"surface" json:"surface"`

	// Harvest loop settings
	Harvest HarvestConfig `yaml:"harvest" json:"harvest"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Retry behaviour for image fetches
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Output locations
	Output OutputConfig `yaml:"output" json:"output"`

	// Classification settings
	Classify ClassifyConfig `yaml:"classify" json:"classify"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SurfaceConfig describes the result surface: where to navigate and which
// selectors identify thumbnails, revealed images, and pagination controls.
// The selectors encode assumptions about a third-party page's markup, so all
// of them are configurable rather than hard-coded.
type SurfaceConfig struct {
	SearchURLTemplate     string        `yaml:"search_url_template" json:"search_url_template"`
	ThumbnailSelector     string        `yaml:"thumbnail_selector" json:"thumbnail_selector"`
	ImageSelector         string        `yaml:"image_selector" json:"image_selector"`
	LoadMoreSelector      string        `yaml:"load_more_selector" json:"load_more_selector"`
	SeeMoreAnywaySelector string        `yaml:"see_more_anyway_selector" json:"see_more_anyway_selector"`
	ControlPriority       []string      `yaml:"control_priority" json:"control_priority"`
	Headless              bool          `yaml:"headless" json:"headless"`
	NavigateTimeout       time.Duration `yaml:"navigate_timeout" json:"navigate_timeout"`
}

// HarvestConfig holds harvest loop settings
type HarvestConfig struct {
	TargetCount int           `yaml:"target_count" json:"target_count"`
	MinInterval time.Duration `yaml:"min_interval" json:"min_interval"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
}

// RetryConfig holds retry configuration for image fetches
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts" json:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay" json:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier   float64       `yaml:"multiplier" json:"multiplier"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	TargetDir          string `yaml:"target_dir" json:"target_dir"`
	ClassificationsDir string `yaml:"classifications_dir" json:"classifications_dir"`
}

// ClassifyConfig holds vision classification settings
type ClassifyConfig struct {
	Enabled        bool   `yaml:"enabled" json:"enabled"`
	CredentialName string `yaml:"credential_name" json:"credential_name"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// ControlPriorityDefault is the order pagination controls are checked in.
// "see_more_anyway" comes first: result surfaces render it only when the
// generic "load_more" control has been exhausted, so checking it first avoids
// a stale click on a control that will no longer advance the page.
var ControlPriorityDefault = []string{"see_more_anyway", "load_more"}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Surface: SurfaceConfig{
			SearchURLTemplate:     "https://www.google.com/search?safe=off&site=&tbm=isch&source=hp&q={query}&oq={query}&gs_l=img",
			ThumbnailSelector:     "img.Q4LuWd",
			ImageSelector:         "img.n3VNCb",
			LoadMoreSelector:      ".mye4qd",
			SeeMoreAnywaySelector: ".r0zKGf",
			ControlPriority:       ControlPriorityDefault,
			Headless:              true,
			NavigateTimeout:       30 * time.Second,
		},
		Harvest: HarvestConfig{
			TargetCount: 5,
			MinInterval: 400 * time.Millisecond,
		},
		Download: DownloadConfig{
			Timeout:   30 * time.Second,
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
		Retry: RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
		Output: OutputConfig{
			TargetDir:          "./downloads",
			ClassificationsDir: "./image_classifications",
		},
		Classify: ClassifyConfig{
			Enabled:        false,
			CredentialName: "vision",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if tmpl := os.Getenv("IMAGEHARVEST_SEARCH_URL_TEMPLATE"); tmpl != "" {
		c.Surface.SearchURLTemplate = tmpl
	}
	if count := os.Getenv("IMAGEHARVEST_TARGET_COUNT"); count != "" {
		var val int
		fmt.Sscanf(count, "%d", &val)
		if val > 0 {
			c.Harvest.TargetCount = val
		}
	}
	if interval := os.Getenv("IMAGEHARVEST_MIN_INTERVAL_MS"); interval != "" {
		var val int
		fmt.Sscanf(interval, "%d", &val)
		if val > 0 {
			c.Harvest.MinInterval = time.Duration(val) * time.Millisecond
		}
	}
	if targetDir := os.Getenv("IMAGEHARVEST_TARGET_DIR"); targetDir != "" {
		c.Output.TargetDir = targetDir
	}
	if userAgent := os.Getenv("IMAGEHARVEST_USER_AGENT"); userAgent != "" {
		c.Download.UserAgent = userAgent
	}
	if headless := os.Getenv("IMAGEHARVEST_HEADLESS"); headless != "" {
		c.Surface.Headless = strings.ToLower(headless) != "false"
	}
	if logLevel := os.Getenv("IMAGEHARVEST_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".imageharvest.yaml",
		".imageharvest.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "imageharvest", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "imageharvest", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".imageharvest.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Harvest.TargetCount <= 0 {
		errs = append(errs, errors.New("target count must be positive"))
	}
	if c.Harvest.MinInterval <= 0 {
		errs = append(errs, errors.New("minimum pacing interval must be positive"))
	}

	if c.Surface.SearchURLTemplate == "" {
		errs = append(errs, errors.New("search URL template is required"))
	} else if !strings.Contains(c.Surface.SearchURLTemplate, "{query}") {
		errs = append(errs, errors.New("search URL template must contain a {query} placeholder"))
	}
	if c.Surface.ThumbnailSelector == "" {
		errs = append(errs, errors.New("thumbnail selector is required"))
	}
	if c.Surface.ImageSelector == "" {
		errs = append(errs, errors.New("image selector is required"))
	}
	if len(c.Surface.ControlPriority) == 0 {
		errs = append(errs, errors.New("control priority must list at least one control"))
	}
	for _, kind := range c.Surface.ControlPriority {
		switch kind {
		case "see_more_anyway", "load_more":
		default:
			errs = append(errs, fmt.Errorf("unknown pagination control %q in control priority", kind))
		}
	}

	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Retry.MaxAttempts <= 0 {
		errs = append(errs, errors.New("retry max attempts must be positive"))
	}
	if c.Output.TargetDir == "" {
		errs = append(errs, errors.New("target directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if count, ok := flags["target-count"].(int); ok && count > 0 {
		c.Harvest.TargetCount = count
	}
	if targetDir, ok := flags["target-dir"].(string); ok && targetDir != "" {
		c.Output.TargetDir = targetDir
	}
	if interval, ok := flags["min-interval"].(time.Duration); ok && interval > 0 {
		c.Harvest.MinInterval = interval
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Surface.Headless = headless
	}
	if timeout, ok := flags["download-timeout"].(time.Duration); ok && timeout > 0 {
		c.Download.Timeout = timeout
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".imageharvest.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
