package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/alnah/go-md2gdoc/internal/config"
	"github.com/alnah/go-md2gdoc/internal/hints"
)

// ErrDoctorFailed is returned when doctor finds blocking problems.
var ErrDoctorFailed = errors.New("doctor found errors")

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status      string          `json:"status"`
	Config      configInfo      `json:"config"`
	Credentials credentialsInfo `json:"credentials"`
	Images      imagesInfo      `json:"images"`
	Env         envInfo         `json:"environment"`
	Warnings    []string        `json:"warnings,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
}

// configInfo holds configuration loading results.
type configInfo struct {
	Loaded  bool   `json:"loaded"`
	Source  string `json:"source"` // file path, or "defaults"
	Dialect string `json:"dialect,omitempty"`
}

// credentialsInfo holds document service credential results.
type credentialsInfo struct {
	Found  bool   `json:"found"`
	Source string `json:"source,omitempty"` // "flag", "env", or "adc"
}

// imagesInfo holds image store results.
type imagesInfo struct {
	Enabled bool   `json:"enabled"`
	Store   string `json:"store"`
	Ready   bool   `json:"ready"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Container bool   `json:"container"`
	CI        bool   `json:"ci"`
}

// runDoctor checks configuration, credentials and the image store, and
// reports what compile and publish will be able to do.
func runDoctor(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	result := diagnose(ctx, flags, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ErrDoctorFailed
	}
	return nil
}

// diagnose performs all diagnostic checks.
func diagnose(ctx context.Context, flags *doctorFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Env: envInfo{OS: runtime.GOOS, Arch: runtime.GOARCH},
	}

	a, err := setup(flags.common, env)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v%s", err, hints.For(err, env.Getenv)))
	} else {
		defer func() { _ = a.close() }()
		checkConfig(result, flags.common, a)
		checkCredentials(ctx, result, flags.token, a)
		checkImages(ctx, result, flags.token, a)
	}
	checkEnvironment(result, env.Getenv)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	default:
		result.Status = statusReady
	}
	return result
}

func checkConfig(result *doctorResult, common commonFlags, a *app) {
	result.Config.Loaded = true
	result.Config.Dialect = a.cfg.Compile.Dialect
	result.Config.Source = "defaults"
	if common.config != "" {
		result.Config.Source = common.config
	} else if a.envCfg.ConfigPath != "" {
		result.Config.Source = a.envCfg.ConfigPath
	}
}

// checkCredentials reports a warning only: compile works offline.
func checkCredentials(ctx context.Context, result *doctorResult, token string, a *app) {
	switch {
	case token != "":
		result.Credentials.Source = "flag"
	case a.envCfg.AccessToken != "":
		result.Credentials.Source = "env"
	default:
		result.Credentials.Source = "adc"
	}

	if _, err := a.documentService(ctx, token); err != nil {
		result.Credentials.Source = ""
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No document service credentials: publish is unavailable%s", hints.ForCredentials(a.env.Getenv)))
		return
	}
	result.Credentials.Found = true
}

func checkImages(ctx context.Context, result *doctorResult, token string, a *app) {
	kind := strings.ToLower(a.cfg.Images.Store.Kind)
	if kind == "" {
		kind = config.StoreNone
	}
	result.Images.Enabled = a.cfg.Images.Enabled
	result.Images.Store = kind
	if !a.cfg.Images.Enabled {
		result.Images.Ready = true
		return
	}

	if _, err := a.imageStore(ctx, token); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Image store %s: %v%s", kind, err, hints.ForImageStore(kind)))
		return
	}
	result.Images.Ready = true
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container = hints.IsInContainer() || getenv("KUBERNETES_SERVICE_HOST") != "" || getenv("container") != ""

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2gdoc doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Configuration")
	if r.Config.Loaded {
		fmt.Fprintf(w, "  [OK] Source: %s\n", r.Config.Source)
		fmt.Fprintf(w, "  [OK] Dialect: %s\n", r.Config.Dialect)
	} else {
		fmt.Fprintln(w, "  [ERROR] Not loaded")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Document Service")
	if r.Credentials.Found {
		fmt.Fprintf(w, "  [OK] Credentials: %s\n", r.Credentials.Source)
	} else {
		fmt.Fprintln(w, "  [WARN] Credentials: not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Images")
	switch {
	case !r.Images.Enabled:
		fmt.Fprintln(w, "  [OK] Disabled: images become placeholders")
	case r.Images.Ready:
		fmt.Fprintf(w, "  [OK] Store: %s\n", r.Images.Store)
	default:
		fmt.Fprintf(w, "  [ERROR] Store: %s\n", r.Images.Store)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to compile and publish")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
