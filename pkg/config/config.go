package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Error policies for per-issue download failures.
const (
	ErrorPolicyAbort = "abort"
	ErrorPolicySkip  = "skip"
)

// Config holds all configuration options for the bugview crawler
type Config struct {
	// Remote bugview service settings
	Bugview BugviewConfig `yaml:"bugview" json:"bugview"`

	// Crawl behavior
	Crawl CrawlConfig `yaml:"crawl" json:"crawl"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// BugviewConfig holds settings for the remote bugview API
type BugviewConfig struct {
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" json:"connect_timeout"`
}

// CrawlConfig holds crawl pacing and policy configuration
type CrawlConfig struct {
	SortField    string        `yaml:"sort_field" json:"sort_field"`
	ListingDelay time.Duration `yaml:"listing_delay" json:"listing_delay"`
	IssueDelay   time.Duration `yaml:"issue_delay" json:"issue_delay"`
	MaxIssueSize int64         `yaml:"max_issue_size" json:"max_issue_size"`
	ErrorPolicy  string        `yaml:"error_policy" json:"error_policy"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Bugview: BugviewConfig{
			BaseURL:        "https://smartos.org/bugview",
			UserAgent:      "bugcrawl",
			RequestTimeout: 30 * time.Second,
			ConnectTimeout: 30 * time.Second,
		},
		Crawl: CrawlConfig{
			SortField:    "created",
			ListingDelay: 500 * time.Millisecond,
			IssueDelay:   1500 * time.Millisecond,
			MaxIssueSize: 10 * 1024 * 1024,
			ErrorPolicy:  ErrorPolicyAbort,
		},
		Output: OutputConfig{
			Directory: "./bugs",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("BUGCRAWL_BASE_URL"); baseURL != "" {
		c.Bugview.BaseURL = baseURL
	}
	if userAgent := os.Getenv("BUGCRAWL_USER_AGENT"); userAgent != "" {
		c.Bugview.UserAgent = userAgent
	}

	if sort := os.Getenv("BUGCRAWL_SORT"); sort != "" {
		c.Crawl.SortField = sort
	}
	if delay := os.Getenv("BUGCRAWL_LISTING_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid BUGCRAWL_LISTING_DELAY: %w", err)
		}
		c.Crawl.ListingDelay = d
	}
	if delay := os.Getenv("BUGCRAWL_ISSUE_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid BUGCRAWL_ISSUE_DELAY: %w", err)
		}
		c.Crawl.IssueDelay = d
	}
	if size := os.Getenv("BUGCRAWL_MAX_ISSUE_SIZE"); size != "" {
		n, err := strconv.ParseInt(size, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid BUGCRAWL_MAX_ISSUE_SIZE: %w", err)
		}
		c.Crawl.MaxIssueSize = n
	}
	if policy := os.Getenv("BUGCRAWL_ERROR_POLICY"); policy != "" {
		c.Crawl.ErrorPolicy = policy
	}

	if dir := os.Getenv("BUGCRAWL_OUTPUT_DIR"); dir != "" {
		c.Output.Directory = dir
	}

	if logLevel := os.Getenv("BUGCRAWL_LOG_LEVEL"); logLevel != "" {
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
	// Check in order of precedence
	locations := []string{
		".bugcrawl.yaml",
		".bugcrawl.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "bugcrawl", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "bugcrawl", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".bugcrawl.yaml"),
		filepath.Join(os.Getenv("HOME"), ".bugcrawl.yml"),
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

	// Validate bugview settings
	if c.Bugview.BaseURL == "" {
		errs = append(errs, errors.New("bugview base URL is required"))
	} else if u, err := url.Parse(c.Bugview.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, errors.New("bugview base URL must be an absolute URL"))
	}
	if c.Bugview.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if c.Bugview.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Bugview.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("connect timeout must be positive"))
	}

	// Validate crawl settings
	validSortFields := map[string]bool{
		"created": true, "updated": true, "key": true,
	}
	if !validSortFields[c.Crawl.SortField] {
		errs = append(errs, errors.New("sort field must be created, updated, or key"))
	}
	if c.Crawl.ListingDelay < 0 {
		errs = append(errs, errors.New("listing delay cannot be negative"))
	}
	if c.Crawl.IssueDelay < 0 {
		errs = append(errs, errors.New("issue delay cannot be negative"))
	}
	if c.Crawl.MaxIssueSize <= 0 {
		errs = append(errs, errors.New("max issue size must be positive"))
	}
	validPolicies := map[string]bool{
		ErrorPolicyAbort: true, ErrorPolicySkip: true,
	}
	if !validPolicies[c.Crawl.ErrorPolicy] {
		errs = append(errs, errors.New("error policy must be abort or skip"))
	}

	// Validate output settings
	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	// Validate logging
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

	// Create directory if it doesn't exist
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
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Bugview.BaseURL = baseURL
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if sort, ok := flags["sort"].(string); ok && sort != "" {
		c.Crawl.SortField = sort
	}
	if delay, ok := flags["listing-delay"].(time.Duration); ok && delay >= 0 {
		c.Crawl.ListingDelay = delay
	}
	if delay, ok := flags["issue-delay"].(time.Duration); ok && delay >= 0 {
		c.Crawl.IssueDelay = delay
	}
	if size, ok := flags["max-issue-size"].(int64); ok && size > 0 {
		c.Crawl.MaxIssueSize = size
	}
	if policy, ok := flags["on-error"].(string); ok && policy != "" {
		c.Crawl.ErrorPolicy = policy
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
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".bugcrawl.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
