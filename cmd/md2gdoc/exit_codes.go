package main

import (
	"errors"
	"os"

	md2gdoc "github.com/alnah/go-md2gdoc"
	"github.com/alnah/go-md2gdoc/internal/config"
	"github.com/alnah/go-md2gdoc/internal/fileutil"
	"github.com/alnah/go-md2gdoc/internal/gdocs"
	"github.com/alnah/go-md2gdoc/internal/logging"
)

// Exit codes for the md2gdoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or input
	ExitIO      = 3 // File not found, permission denied
	ExitRemote  = 4 // Document service errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Remote service errors (exit 4)
	if errors.Is(err, md2gdoc.ErrDocumentCreate) ||
		errors.Is(err, md2gdoc.ErrHeaderCreate) ||
		errors.Is(err, md2gdoc.ErrBatchSubmit) ||
		errors.Is(err, md2gdoc.ErrShare) ||
		errors.Is(err, gdocs.ErrNoCredentials) {
		return ExitRemote
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, fileutil.ErrFileTooLarge) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, md2gdoc.ErrEmptySource) ||
		errors.Is(err, md2gdoc.ErrSourceTooLarge) ||
		errors.Is(err, md2gdoc.ErrUnknownDialect) ||
		errors.Is(err, md2gdoc.ErrInvalidHeaderFormat) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidMetadataFlag) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}
