package md2gdoc

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-md2gdoc/internal/command"
	"github.com/alnah/go-md2gdoc/internal/metadata"
)

// Dialect names a source markup language.
type Dialect string

// Supported dialects.
const (
	// DialectLines treats each line as a block: "#" headings, blank lines,
	// and paragraphs with **bold** and *italic* spans.
	DialectLines Dialect = "lines"
	// DialectHTML accepts a restricted HTML subset: h1-h6, p, img, br.
	DialectHTML Dialect = "html"
	// DialectCommonMark parses CommonMark with GitHub extensions and keeps
	// headings, paragraphs, emphasis and images.
	DialectCommonMark Dialect = "commonmark"
)

// MaxSourceSize bounds the source accepted by Compile (10 MiB).
const MaxSourceSize = 10 << 20

// DefaultTitle is used when neither the input nor the source names one.
const DefaultTitle = "Untitled"

// ParseDialect maps a case-insensitive name to a Dialect. The empty string
// yields DialectLines. "markdown" and "md" are accepted for DialectCommonMark.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(DialectLines):
		return DialectLines, nil
	case string(DialectHTML), "htm":
		return DialectHTML, nil
	case string(DialectCommonMark), "markdown", "md":
		return DialectCommonMark, nil
	}
	return "", fmt.Errorf("%w: %q (must be lines, html, or commonmark)", ErrUnknownDialect, s)
}

// Metadata is an ordered list of header fields. Header lines follow field
// order. It decodes from a JSON object with key order kept.
type Metadata = metadata.Metadata

// Field is one metadata key and value. Value may be a string, bool, number,
// time.Time, []any, Metadata, map[string]any or nil.
type Field = metadata.Field

// Input contains compilation parameters.
type Input struct {
	Source   string   // Markup content (required)
	Dialect  Dialect  // Source dialect (default: compiler default)
	Title    string   // Document title (optional, front matter wins)
	Metadata Metadata // Header fields (optional, front matter wins per key)
}

// Stats summarizes a compilation.
type Stats struct {
	Blocks         int `json:"blocks"`
	Commands       int `json:"commands"`
	HeaderCommands int `json:"headerCommands"`
	Images         int `json:"images"`
	ImageFallbacks int `json:"imageFallbacks"`
}

// Result holds the compiled command batches.
type Result struct {
	Title  string         `json:"title"`
	Header *command.Batch `json:"header,omitempty"` // nil when there is no metadata
	Body   command.Batch  `json:"body"`
	Stats  Stats          `json:"stats"`
}

// ImageResolver maps an image URL to a URI the document service can fetch.
// Returning an error makes the compiler insert a "[Image: url]" placeholder.
type ImageResolver interface {
	Externalize(ctx context.Context, url string) (string, error)
}
