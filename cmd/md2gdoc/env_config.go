package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-md2gdoc/internal/config"
)

// envPrefix namespaces every recognized variable.
const envPrefix = "MD2GDOC_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath  string // MD2GDOC_CONFIG: config file path
	AccessToken string // MD2GDOC_ACCESS_TOKEN: OAuth2 bearer token
	Dialect     string // MD2GDOC_DIALECT: lines, html, commonmark

	// Tier 2 - Logging and serving
	LogLevel  string // MD2GDOC_LOG_LEVEL: debug, info, warn, error
	LogFormat string // MD2GDOC_LOG_FORMAT: text, json
	Addr      string // MD2GDOC_ADDR: HTTP listen address

	// Tier 3 - Images and batch
	ImageStore   string        // MD2GDOC_IMAGE_STORE: none, drive, sqlite
	ImageTimeout time.Duration // MD2GDOC_IMAGE_TIMEOUT: per-image fetch timeout
	MaxImages    int           // MD2GDOC_MAX_IMAGES: images resolved per document
	Workers      int           // MD2GDOC_WORKERS: parallel workers
}

// knownEnvVars lists valid MD2GDOC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"MD2GDOC_CONFIG":       true,
	"MD2GDOC_ACCESS_TOKEN": true,
	"MD2GDOC_DIALECT":      true,
	// Tier 2 - Logging and serving
	"MD2GDOC_LOG_LEVEL":  true,
	"MD2GDOC_LOG_FORMAT": true,
	"MD2GDOC_ADDR":       true,
	// Tier 3 - Images and batch
	"MD2GDOC_IMAGE_STORE":   true,
	"MD2GDOC_IMAGE_TIMEOUT": true,
	"MD2GDOC_MAX_IMAGES":    true,
	"MD2GDOC_WORKERS":       true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable numbers and durations are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:  getenv("MD2GDOC_CONFIG"),
		AccessToken: getenv("MD2GDOC_ACCESS_TOKEN"),
		Dialect:     getenv("MD2GDOC_DIALECT"),
		LogLevel:    getenv("MD2GDOC_LOG_LEVEL"),
		LogFormat:   getenv("MD2GDOC_LOG_FORMAT"),
		Addr:        getenv("MD2GDOC_ADDR"),
		ImageStore:  getenv("MD2GDOC_IMAGE_STORE"),
	}

	if timeout := getenv("MD2GDOC_IMAGE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.ImageTimeout = d
		}
	}
	if n := getenv("MD2GDOC_MAX_IMAGES"); n != "" {
		if v, err := strconv.Atoi(n); err == nil && v >= 0 {
			cfg.MaxImages = v
		}
	}
	if workers := getenv("MD2GDOC_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2GDOC_* variables.
// Helps catch typos like MD2GDOC_LOGLEVEL instead of MD2GDOC_LOG_LEVEL.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Dialect != "" {
		cfg.Compile.Dialect = env.Dialect
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.ImageStore != "" {
		cfg.Images.Store.Kind = env.ImageStore
	}
	if env.ImageTimeout > 0 {
		cfg.Images.Timeout = env.ImageTimeout
	}
	if env.MaxImages > 0 {
		cfg.Images.MaxImages = env.MaxImages
	}
}
