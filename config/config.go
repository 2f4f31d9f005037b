// Package config loads and validates the application configuration from the environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment is the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

func (e Environment) String() string {
	return string(e)
}

// ParseEnvironment accepts the short names and their long forms
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	}
	return EnvDevelopment, fmt.Errorf("ENV must be one of dev, staging, prod, test, got: %s", s)
}

const (
	DefaultReloadTimes  = "06:00;18:00"
	DefaultMaxSelection = 20
)

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               Environment
	LogLevel          string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxLogFileSize    int64 // Maximum log file size in bytes
	MaxRequestBody    int64 // Maximum request body size in bytes
	MaxHeaderSize     int64 // Maximum header size in bytes

	InteractionsSource string // file path or http(s) URL, empty for the built-in table only
	ReloadTimes        string // semicolon separated HH:MM list
	MaxSelection       int    // maximum drugs per check
}

// LoadDotEnv loads a .env file from the working directory, then from the
// executable directory. A missing file is not an error.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	ex, exErr := os.Executable()
	if exErr != nil {
		return nil
	}
	err = godotenv.Load(filepath.Join(filepath.Dir(ex), ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	env, err := ParseEnvironment(getEnvWithDefault("ENV", "dev"))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid ENV: %w", err)
	}

	cfg := &Config{
		Port:               getEnvWithDefault("PORT", "8000"),
		Address:            getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:                env,
		LogLevel:           strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogRetentionWeeks:  getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),
		MaxLogFileSize:     getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 100*1024*1024),
		MaxRequestBody:     getInt64EnvWithDefault("MAX_REQUEST_BODY", 1024*1024),
		MaxHeaderSize:      getInt64EnvWithDefault("MAX_HEADER_SIZE", 1024*1024),
		InteractionsSource: strings.TrimSpace(os.Getenv("INTERACTIONS_SOURCE")),
		ReloadTimes:        getEnvWithDefault("RELOAD_TIMES", DefaultReloadTimes),
		MaxSelection:       getIntEnvWithDefault("MAX_SELECTION", DefaultMaxSelection),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// HasSource reports whether an external interaction table is configured
func (c *Config) HasSource() bool {
	return c.InteractionsSource != ""
}

// ReloadTimeList returns the parsed reload times
func (c *Config) ReloadTimeList() []string {
	var out []string
	for _, t := range strings.Split(c.ReloadTimes, ";") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if err := validateSource(cfg.InteractionsSource); err != nil {
		return fmt.Errorf("invalid INTERACTIONS_SOURCE: %w", err)
	}

	if err := validateReloadTimes(cfg.ReloadTimes); err != nil {
		return fmt.Errorf("invalid RELOAD_TIMES: %w", err)
	}

	if err := validateMaxSelection(cfg.MaxSelection); err != nil {
		return fmt.Errorf("invalid MAX_SELECTION: %w", err)
	}

	return nil
}

func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	// Binding all interfaces is allowed for containers, public IPs are not
	if !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsUnspecified() {
		return fmt.Errorf("ADDRESS %s is a public IP, use a private network range", address)
	}

	return nil
}

func validateLogLevel(logLevel string) error {
	switch logLevel {
	case "debug", "info", "warn", "error":
		return nil
	case "":
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}
	return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", logLevel)
}

func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 {
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 {
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

func validateMaxLogFileSize(size int64) error {
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

// validateSource accepts an empty value, an http(s) URL with a host, or a file path
func validateSource(source string) error {
	if source == "" {
		return nil
	}

	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		u, err := url.Parse(source)
		if err != nil {
			return fmt.Errorf("invalid URL: %w", err)
		}
		if u.Host == "" {
			return fmt.Errorf("URL has no host: %s", source)
		}
		return nil
	}

	if strings.Contains(source, "://") {
		return fmt.Errorf("only http and https URLs are supported, got: %s", source)
	}

	return nil
}

func validateReloadTimes(times string) error {
	parts := strings.Split(times, ";")
	count := 0
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := time.Parse("15:04", part); err != nil {
			return fmt.Errorf("time %q must be in HH:MM format", part)
		}
		count++
	}

	if count == 0 {
		return fmt.Errorf("at least one reload time is required")
	}

	return nil
}

func validateMaxSelection(max int) error {
	if max < 2 {
		return fmt.Errorf("MAX_SELECTION must be at least 2, got: %d", max)
	}

	if max > 100 {
		return fmt.Errorf("MAX_SELECTION is too large (max 100), got: %d", max)
	}

	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"MAX_REQUEST_BODY",
		"MAX_HEADER_SIZE",
		"INTERACTIONS_SOURCE",
		"RELOAD_TIMES",
		"MAX_SELECTION",
	}
}
