package md2gdoc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-md2gdoc/internal/blocks"
	"github.com/alnah/go-md2gdoc/internal/command"
	"github.com/alnah/go-md2gdoc/internal/emit"
	"github.com/alnah/go-md2gdoc/internal/frontmatter"
	"github.com/alnah/go-md2gdoc/internal/header"
	"github.com/alnah/go-md2gdoc/internal/metadata"
	"github.com/alnah/go-md2gdoc/internal/sanitize"
)

// Compiler turns source markup into edit command batches.
// A Compiler is immutable after NewCompiler and safe for concurrent use.
type Compiler struct {
	cfg    compilerConfig
	header *header.Formatter
}

// compilerConfig holds options collected before the Compiler is built.
type compilerConfig struct {
	dialect    Dialect
	images     ImageResolver
	maxImages  int
	logger     *slog.Logger
	dateFormat string
	fontSize   float64
	now        func() time.Time
}

// Option configures a Compiler.
type Option func(*compilerConfig)

// WithDialect sets the dialect used when Input.Dialect is empty.
func WithDialect(d Dialect) Option {
	return func(c *compilerConfig) {
		c.dialect = d
	}
}

// WithImageResolver sets how image references become embeddable URIs.
// Without one, every image is replaced by a placeholder.
func WithImageResolver(r ImageResolver) Option {
	return func(c *compilerConfig) {
		c.images = r
	}
}

// WithMaxImages caps how many images one document resolves.
func WithMaxImages(n int) Option {
	return func(c *compilerConfig) {
		c.maxImages = n
	}
}

// WithLogger sets the logger for degraded outcomes and summaries.
func WithLogger(l *slog.Logger) Option {
	return func(c *compilerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHeaderDateFormat sets the date format of header values, as dateutil
// tokens ("DD/MM/YYYY") or a preset ("iso", "european", "us", "long").
func WithHeaderDateFormat(format string) Option {
	return func(c *compilerConfig) {
		c.dateFormat = format
	}
}

// WithHeaderFontSize sets the header text size in points.
func WithHeaderFontSize(pt float64) Option {
	return func(c *compilerConfig) {
		c.fontSize = pt
	}
}

// WithClock sets the clock used to resolve "auto" dates.
func WithClock(now func() time.Time) Option {
	return func(c *compilerConfig) {
		c.now = now
	}
}

// NewCompiler creates a Compiler.
// Returns error if the header date format is invalid.
func NewCompiler(opts ...Option) (*Compiler, error) {
	cfg := compilerConfig{
		dialect:   DialectLines,
		maxImages: emit.DefaultMaxImages,
		logger:    slog.New(slog.DiscardHandler),
		fontSize:  header.DefaultFontSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	dialect, err := ParseDialect(string(cfg.dialect))
	if err != nil {
		return nil, err
	}
	cfg.dialect = dialect

	hopts := []header.Option{header.WithFontSize(cfg.fontSize), header.WithNow(cfg.now)}
	if cfg.dateFormat != "" {
		hopts = append(hopts, header.WithDateFormat(cfg.dateFormat))
	}
	hf, err := header.New(hopts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeaderFormat, err)
	}

	return &Compiler{cfg: cfg, header: hf}, nil
}

// Compile validates input and returns the header and body batches.
// Malformed markup and unavailable images degrade instead of failing; only
// invalid input and a context cancelled before work starts return errors.
func (c *Compiler) Compile(ctx context.Context, input Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dialect, err := c.validateInput(input)
	if err != nil {
		return nil, err
	}

	meta := metadata.Normalize(input.Metadata)
	bs, fm := c.segment(dialect, input.Source)
	for _, f := range fm {
		meta = meta.Set(f.Key, f.Value)
	}
	meta = metadata.Sanitize(meta)

	em := emit.New(command.Body,
		emit.WithImages(c.cfg.images),
		emit.WithMaxImages(c.cfg.maxImages),
		emit.WithLogger(c.cfg.logger))
	body := em.Emit(ctx, bs)
	es := em.Stats()

	result := &Result{
		Title: resolveTitle(input.Title, meta, bs),
		Body:  body,
		Stats: Stats{
			Blocks:         es.Blocks,
			Commands:       es.Commands,
			Images:         es.Images,
			ImageFallbacks: es.ImageFallbacks,
		},
	}
	if hb, ok := c.header.Emit(meta); ok {
		result.Header = &hb
		result.Stats.HeaderCommands = hb.Len()
	}

	c.cfg.logger.Info("document compiled",
		"dialect", string(dialect),
		"blocks", result.Stats.Blocks,
		"commands", result.Stats.Commands,
		"header_commands", result.Stats.HeaderCommands,
		"images", result.Stats.Images,
		"image_fallbacks", result.Stats.ImageFallbacks)

	return result, nil
}

// validateInput checks the trust boundary and resolves the dialect.
func (c *Compiler) validateInput(input Input) (Dialect, error) {
	if strings.TrimSpace(input.Source) == "" {
		return "", ErrEmptySource
	}
	if len(input.Source) > MaxSourceSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrSourceTooLarge, len(input.Source), MaxSourceSize)
	}
	if err := input.Metadata.Validate(); err != nil {
		return "", err
	}
	if input.Dialect == "" {
		return c.cfg.dialect, nil
	}
	return ParseDialect(string(input.Dialect))
}

// segment splits src into blocks, returning front matter for the markdown
// dialects.
func (c *Compiler) segment(dialect Dialect, src string) ([]blocks.Block, metadata.Metadata) {
	if dialect == DialectHTML {
		bs, err := blocks.SegmentHTML(sanitize.HTML(src))
		if err != nil {
			c.cfg.logger.Warn("HTML source could not be parsed", "error", err)
			return nil, nil
		}
		return bs, nil
	}

	fm, body, err := frontmatter.Split(src)
	if err != nil {
		c.cfg.logger.Warn("front matter ignored", "error", err)
	}
	if dialect == DialectCommonMark {
		return blocks.SegmentCommonMark(body), fm
	}
	return blocks.SegmentLines(body), fm
}

// resolveTitle picks the metadata title, then the input title, then the
// first heading.
func resolveTitle(inputTitle string, meta metadata.Metadata, bs []blocks.Block) string {
	if t, ok := meta.Title(); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if t := strings.TrimSpace(inputTitle); t != "" {
		return t
	}
	for _, b := range bs {
		if b.Kind == blocks.Heading && strings.TrimSpace(b.Text) != "" {
			return strings.TrimSpace(b.Text)
		}
	}
	return DefaultTitle
}
