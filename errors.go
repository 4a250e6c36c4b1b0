package md2gdoc

import (
	"errors"

	"github.com/alnah/go-md2gdoc/internal/metadata"
)

// Sentinel errors for library operations.
var (
	// Input validation errors.
	ErrEmptySource     = errors.New("source content cannot be empty")
	ErrSourceTooLarge  = errors.New("source content exceeds maximum size")
	ErrUnknownDialect  = errors.New("unknown source dialect")
	ErrInvalidMetadata = metadata.ErrInvalid

	// Configuration errors.
	ErrInvalidHeaderFormat = errors.New("invalid header format")

	// Publishing errors.
	ErrNoDocumentService = errors.New("no document service configured")
	ErrDocumentCreate    = errors.New("failed to create document")
	ErrHeaderCreate      = errors.New("failed to create document header")
	ErrBatchSubmit       = errors.New("failed to submit edit batch")
	ErrShare             = errors.New("failed to share document")
)
