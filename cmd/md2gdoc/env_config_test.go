package main

// Notes:
// - Variables are injected through a lookup function, so these tests run in
//   parallel without t.Setenv.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-md2gdoc/internal/config"
)

func lookup(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("all variables", func(t *testing.T) {
		t.Parallel()
		cfg := loadEnvConfig(lookup(map[string]string{
			"MD2GDOC_CONFIG":        "/etc/md2gdoc.yaml",
			"MD2GDOC_ACCESS_TOKEN":  "tok",
			"MD2GDOC_DIALECT":       "html",
			"MD2GDOC_LOG_LEVEL":     "debug",
			"MD2GDOC_LOG_FORMAT":    "json",
			"MD2GDOC_ADDR":          ":9090",
			"MD2GDOC_IMAGE_STORE":   "sqlite",
			"MD2GDOC_IMAGE_TIMEOUT": "30s",
			"MD2GDOC_MAX_IMAGES":    "5",
			"MD2GDOC_WORKERS":       "3",
		}))

		want := envConfig{
			ConfigPath:   "/etc/md2gdoc.yaml",
			AccessToken:  "tok",
			Dialect:      "html",
			LogLevel:     "debug",
			LogFormat:    "json",
			Addr:         ":9090",
			ImageStore:   "sqlite",
			ImageTimeout: 30 * time.Second,
			MaxImages:    5,
			Workers:      3,
		}
		if *cfg != want {
			t.Errorf("loadEnvConfig() = %+v, want %+v", *cfg, want)
		}
	})

	t.Run("invalid numbers ignored", func(t *testing.T) {
		t.Parallel()
		cfg := loadEnvConfig(lookup(map[string]string{
			"MD2GDOC_IMAGE_TIMEOUT": "soon",
			"MD2GDOC_MAX_IMAGES":    "-1",
			"MD2GDOC_WORKERS":       "0",
		}))
		if cfg.ImageTimeout != 0 || cfg.MaxImages != 0 || cfg.Workers != 0 {
			t.Errorf("loadEnvConfig() = %+v, want zero values", *cfg)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"MD2GDOC_LOGLEVEL=debug",
		"MD2GDOC_LOG_LEVEL=debug",
		"HOME=/root",
	})

	out := buf.String()
	if !strings.Contains(out, "MD2GDOC_LOGLEVEL") {
		t.Errorf("missing warning for typo: %q", out)
	}
	if strings.Contains(out, "MD2GDOC_LOG_LEVEL ") || strings.Contains(out, "HOME") {
		t.Errorf("unexpected warning: %q", out)
	}
	if n := strings.Count(out, "warning:"); n != 1 {
		t.Errorf("got %d warnings, want 1", n)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Precedence over the config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("env overrides config", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{
			Dialect:      "commonmark",
			LogLevel:     "warn",
			LogFormat:    "json",
			Addr:         ":9000",
			ImageStore:   "drive",
			ImageTimeout: time.Minute,
			MaxImages:    7,
		}, cfg)

		if cfg.Compile.Dialect != "commonmark" || cfg.Log.Level != "warn" || cfg.Log.Format != "json" {
			t.Errorf("compile/log = %+v / %+v", cfg.Compile, cfg.Log)
		}
		if cfg.Server.Addr != ":9000" {
			t.Errorf("Server.Addr = %q", cfg.Server.Addr)
		}
		if cfg.Images.Store.Kind != "drive" || cfg.Images.Timeout != time.Minute || cfg.Images.MaxImages != 7 {
			t.Errorf("Images = %+v", cfg.Images)
		}
	})

	t.Run("empty env keeps config", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{}, cfg)
		if *cfg != *config.DefaultConfig() {
			t.Errorf("config changed: %+v", cfg)
		}
	})
}
