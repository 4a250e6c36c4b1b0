package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2gdoc/internal/dateutil"
	"github.com/alnah/go-md2gdoc/internal/fileutil"
	"github.com/alnah/go-md2gdoc/internal/logging"
	"github.com/alnah/go-md2gdoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength         = 2048 // Browser limit
	MaxPathLength        = 4096 // PATH_MAX
	MaxUserAgentLength   = 200
	MaxAddrLength        = 255 // host:port
	MaxTitleSuffixLength = 100
	MaxDateFormatLength  = dateutil.MaxDateFormatLength
)

// Value ranges.
const (
	MaxImageTimeout = 2 * time.Minute
	MaxImageBytes   = 50 << 20
	MaxImageCount   = 1000
	MaxFontSize     = 72
)

// Dialects accepted by compile.dialect.
const (
	DialectLines      = "lines"
	DialectHTML       = "html"
	DialectCommonMark = "commonmark"
)

// Image store kinds.
const (
	StoreNone   = "none"
	StoreDrive  = "drive"
	StoreSQLite = "sqlite"
)

// Config holds all configuration for compiling and publishing documents.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Compile CompileConfig `yaml:"compile"`
	Header  HeaderConfig  `yaml:"header"`
	Images  ImagesConfig  `yaml:"images"`
	Server  ServerConfig  `yaml:"server"`
	Publish PublishConfig `yaml:"publish"`
}

// LogConfig defines structured logging options.
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error" (default: "info")
	Format string `yaml:"format"` // "text", "json" (default: "text")
}

// CompileConfig defines source handling options.
type CompileConfig struct {
	Dialect string `yaml:"dialect"` // "lines", "html", "commonmark" (default: "lines")
}

// HeaderConfig defines the metadata header layout.
type HeaderConfig struct {
	DateFormat string  `yaml:"dateFormat"` // Token format or preset (default: "YYYY-MM-DD")
	FontSize   float64 `yaml:"fontSize"`   // Points (default: 10)
}

// ImagesConfig defines how referenced images are fetched and re-hosted.
type ImagesConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Timeout   time.Duration `yaml:"timeout"`   // Per fetch (default: 10s)
	MaxBytes  int64         `yaml:"maxBytes"`  // Per image (default: 10 MiB)
	MaxImages int           `yaml:"maxImages"` // Per document (default: 100)
	UserAgent string        `yaml:"userAgent"`
	Store     StoreConfig   `yaml:"store"`
}

// StoreConfig selects where fetched images are re-hosted.
type StoreConfig struct {
	Kind    string `yaml:"kind"`    // "none", "drive", "sqlite" (default: "none")
	Path    string `yaml:"path"`    // SQLite database file
	BaseURL string `yaml:"baseURL"` // Public URL the serve command is reachable at
}

// ServerConfig defines the HTTP API listener.
type ServerConfig struct {
	Addr string `yaml:"addr"` // Default ":8080"
}

// PublishConfig defines document creation options.
type PublishConfig struct {
	TitleSuffix string `yaml:"titleSuffix"` // Appended to the document title (default: " - Converted")
	MakePublic  bool   `yaml:"makePublic"`  // Share with anyone holding the link
}

// Validate checks enums, ranges and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: log.format %q (must be text or json)", ErrInvalidValue, c.Log.Format)
	}

	switch strings.ToLower(c.Compile.Dialect) {
	case "", DialectLines, DialectHTML, DialectCommonMark:
	default:
		return fmt.Errorf("%w: compile.dialect %q (must be lines, html, or commonmark)", ErrInvalidValue, c.Compile.Dialect)
	}

	if err := validateFieldLength("header.dateFormat", c.Header.DateFormat, MaxDateFormatLength); err != nil {
		return err
	}
	if c.Header.DateFormat != "" {
		if _, err := dateutil.Layout(c.Header.DateFormat); err != nil {
			return fmt.Errorf("header.dateFormat: %w", err)
		}
	}
	if c.Header.FontSize < 0 || c.Header.FontSize > MaxFontSize {
		return fmt.Errorf("%w: header.fontSize must be between 0 and %d, got %.1f", ErrInvalidValue, MaxFontSize, c.Header.FontSize)
	}

	if err := c.Images.validate(); err != nil {
		return err
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	return validateFieldLength("publish.titleSuffix", c.Publish.TitleSuffix, MaxTitleSuffixLength)
}

func (c *ImagesConfig) validate() error {
	if c.Timeout < 0 || c.Timeout > MaxImageTimeout {
		return fmt.Errorf("%w: images.timeout must be between 0 and %s, got %s", ErrInvalidValue, MaxImageTimeout, c.Timeout)
	}
	if c.MaxBytes < 0 || c.MaxBytes > MaxImageBytes {
		return fmt.Errorf("%w: images.maxBytes must be between 0 and %d, got %d", ErrInvalidValue, MaxImageBytes, c.MaxBytes)
	}
	if c.MaxImages < 0 || c.MaxImages > MaxImageCount {
		return fmt.Errorf("%w: images.maxImages must be between 0 and %d, got %d", ErrInvalidValue, MaxImageCount, c.MaxImages)
	}
	if err := validateFieldLength("images.userAgent", c.UserAgent, MaxUserAgentLength); err != nil {
		return err
	}
	if err := validateFieldLength("images.store.path", c.Store.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("images.store.baseURL", c.Store.BaseURL, MaxURLLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Store.Kind) {
	case "", StoreNone, StoreDrive:
	case StoreSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: images.store.path required for the sqlite store", ErrInvalidValue)
		}
		if c.Store.BaseURL == "" {
			return fmt.Errorf("%w: images.store.baseURL required for the sqlite store", ErrInvalidValue)
		}
	default:
		return fmt.Errorf("%w: images.store.kind %q (must be none, drive, or sqlite)", ErrInvalidValue, c.Store.Kind)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Log:     LogConfig{Level: "info", Format: logging.FormatText},
		Compile: CompileConfig{Dialect: DialectLines},
		Header:  HeaderConfig{DateFormat: dateutil.DefaultDateFormat, FontSize: 10},
		Images: ImagesConfig{
			Enabled:   true,
			Timeout:   10 * time.Second,
			MaxBytes:  10 << 20,
			MaxImages: 100,
			UserAgent: "md2gdoc/1.0",
			Store:     StoreConfig{Kind: StoreNone},
		},
		Server:  ServerConfig{Addr: ":8080"},
		Publish: PublishConfig{TitleSuffix: " - Converted"},
	}
}

// LoadConfig loads configuration from a file path or config name, on top of
// DefaultConfig.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-md2gdoc/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-md2gdoc", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
