// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"errors"
	"strings"

	"github.com/alnah/go-md2gdoc/internal/config"
	"github.com/alnah/go-md2gdoc/internal/fileutil"
	"github.com/alnah/go-md2gdoc/internal/gdocs"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// For returns the hint matching err, or "" when none applies.
// getenv is used to skip suggestions the user already followed.
func For(err error, getenv func(string) string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, gdocs.ErrNoCredentials), errors.Is(err, gdocs.ErrUnauthorized):
		return ForCredentials(getenv)
	case errors.Is(err, gdocs.ErrPermissionDenied):
		return format("the token needs the documents and drive.file scopes")
	case errors.Is(err, gdocs.ErrRateLimited):
		return format("retry later or lower --workers")
	case errors.Is(err, config.ErrConfigNotFound):
		return ForConfigNotFound(err.Error())
	}
	return ""
}

// ForCredentials returns hints for missing or rejected credentials.
// In containers, application default credentials are rarely present, so
// the access token variable is suggested first.
func ForCredentials(getenv func(string) string) string {
	var hints []string

	if getenv("MD2GDOC_ACCESS_TOKEN") == "" {
		hints = append(hints, "set MD2GDOC_ACCESS_TOKEN or pass --token")
	} else {
		hints = append(hints, "MD2GDOC_ACCESS_TOKEN may be expired")
	}

	if getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" && !IsInContainer() {
		hints = append(hints, "or run 'gcloud auth application-default login'")
	}

	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating the first user config path named in
// msg, which lists the searched paths.
func ForConfigNotFound(msg string) string {
	hint := "use --config /path/to/file.yaml"

	fields := strings.FieldsFunc(msg, func(r rune) bool { return r == ' ' || r == ',' })
	for _, p := range fields {
		if strings.Contains(p, "go-md2gdoc") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForImageStore returns hints for image store errors.
func ForImageStore(kind string) string {
	switch kind {
	case config.StoreSQLite:
		return format("images.store.path must be writable; images.store.baseURL must reach 'md2gdoc serve'")
	case config.StoreDrive:
		return format("the drive store uploads with the publish credentials")
	}
	return ""
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
