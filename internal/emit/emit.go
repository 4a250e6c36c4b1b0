// Package emit turns segmented blocks into positional edit commands.
//
// The Emitter owns the insertion cursor of one segment. Every command it
// produces references only indices that earlier commands in the same batch
// have already written, so a batch can be submitted without reading the
// target document back.
package emit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alnah/go-md2gdoc/internal/blocks"
	"github.com/alnah/go-md2gdoc/internal/command"
	"github.com/alnah/go-md2gdoc/internal/span"
)

// DefaultMaxImages caps how many images one document may fetch.
const DefaultMaxImages = 100

// Sentinel errors reported to the logger when an image degrades.
var (
	ErrNoImageResolver = errors.New("image hosting is not configured")
	ErrImageLimit      = errors.New("image limit reached for document")
)

// ImageResolver maps a source image URL to a URI the document service can
// fetch. A non-nil error makes the emitter insert a text placeholder.
type ImageResolver interface {
	Externalize(ctx context.Context, url string) (string, error)
}

// Stats summarizes one emission.
type Stats struct {
	Blocks         int `json:"blocks"`
	Commands       int `json:"commands"`
	Images         int `json:"images"`
	ImageFallbacks int `json:"imageFallbacks"`
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithImages sets the resolver used for image blocks.
func WithImages(r ImageResolver) Option {
	return func(e *Emitter) {
		e.images = r
	}
}

// WithLogger sets the logger receiving degraded outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(e *Emitter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMaxImages caps the number of images resolved; later images become
// placeholders. Values below 0 are ignored.
func WithMaxImages(n int) Option {
	return func(e *Emitter) {
		if n >= 0 {
			e.maxImages = n
		}
	}
}

// Emitter appends commands for one segment.
type Emitter struct {
	segment   command.Segment
	cursor    int
	cmds      []command.Command
	images    ImageResolver
	logger    *slog.Logger
	maxImages int
	attempted int
	stats     Stats
}

// New returns an Emitter positioned at the origin of segment.
func New(segment command.Segment, opts ...Option) *Emitter {
	e := &Emitter{
		segment:   segment,
		cursor:    segment.Origin(),
		logger:    slog.New(slog.DiscardHandler),
		maxImages: DefaultMaxImages,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cursor returns the next free insertion index.
func (e *Emitter) Cursor() int {
	return e.cursor
}

// Stats returns counters accumulated so far.
func (e *Emitter) Stats() Stats {
	s := e.stats
	s.Commands = len(e.cmds)
	return s
}

// Batch returns the commands emitted so far.
func (e *Emitter) Batch() command.Batch {
	return command.Batch{Segment: e.segment, Commands: e.cmds}
}

// Emit appends commands for bs in order and returns the batch so far.
// Emission never fails: unresolvable images degrade to placeholders.
func (e *Emitter) Emit(ctx context.Context, bs []blocks.Block) command.Batch {
	for _, b := range bs {
		e.block(ctx, b)
		e.stats.Blocks++
	}
	return e.Batch()
}

func (e *Emitter) block(ctx context.Context, b blocks.Block) {
	switch b.Kind {
	case blocks.Blank, blocks.LineBreak:
		e.insert("\n")
	case blocks.Heading:
		e.heading(b)
	case blocks.Paragraph:
		e.paragraph(b.Text)
	case blocks.Image:
		e.image(ctx, b.URL)
	}
}

func (e *Emitter) heading(b blocks.Block) {
	start := e.cursor
	e.insert(b.Text + "\n")
	if n := command.Len(b.Text); n > 0 {
		e.append(command.StyleParagraph(command.Range{Start: start, End: start + n}, command.HeadingStyle(b.Level)))
	}
}

func (e *Emitter) paragraph(text string) {
	start := e.cursor
	e.insert(text + "\n")
	for _, s := range span.Scan(text) {
		e.append(command.StyleText(command.Range{Start: start + s.Start, End: start + s.End}, s.Kind.Style()))
	}
}

func (e *Emitter) image(ctx context.Context, url string) {
	e.stats.Images++
	uri, err := e.resolve(ctx, url)
	if err != nil {
		e.stats.ImageFallbacks++
		e.logger.WarnContext(ctx, "image replaced by placeholder",
			"url", url,
			"index", e.cursor,
			"error", err,
		)
		e.insert(Placeholder(url))
		return
	}
	e.append(command.InsertImage(e.cursor, uri))
	e.cursor++
}

func (e *Emitter) resolve(ctx context.Context, url string) (string, error) {
	if e.images == nil {
		return "", ErrNoImageResolver
	}
	if e.attempted >= e.maxImages {
		return "", fmt.Errorf("%w (%d)", ErrImageLimit, e.maxImages)
	}
	e.attempted++
	return e.images.Externalize(ctx, url)
}

func (e *Emitter) insert(text string) {
	e.append(command.Insert(e.cursor, text))
	e.cursor += command.Len(text)
}

func (e *Emitter) append(c command.Command) {
	e.cmds = append(e.cmds, c)
}

// Placeholder returns the text inserted in place of an unavailable image.
func Placeholder(url string) string {
	return "[Image: " + url + "]\n"
}
