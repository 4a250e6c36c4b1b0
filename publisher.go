package md2gdoc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alnah/go-md2gdoc/internal/command"
	"github.com/alnah/go-md2gdoc/internal/gdocs"
)

// Compile-time interface implementation check.
var _ DocumentService = (*gdocs.Client)(nil)

// DocumentService is the remote document API a Publisher submits to.
type DocumentService interface {
	CreateDocument(ctx context.Context, title string) (gdocs.Document, error)
	CreateHeader(ctx context.Context, docID string) (string, error)
	BatchUpdate(ctx context.Context, docID string, cmds []command.Command) ([]json.RawMessage, error)
	MakePublic(ctx context.Context, fileID string) error
	ShareLink(ctx context.Context, fileID string) (string, error)
}

// DefaultTitleSuffix is appended to the title of published documents.
const DefaultTitleSuffix = " - Converted"

// Document describes a published document.
type Document struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	WebViewLink string `json:"webViewLink"`
	Stats       Stats  `json:"stats"`
}

// PublishOptions holds per-call publishing options.
type PublishOptions struct {
	MakePublic bool // Grant read access to anyone with the link
}

// Publisher compiles input and submits the result as a new document.
type Publisher struct {
	compiler    *Compiler
	service     DocumentService
	titleSuffix string
	logger      *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithTitleSuffix sets the text appended to document titles.
func WithTitleSuffix(s string) PublisherOption {
	return func(p *Publisher) {
		p.titleSuffix = s
	}
}

// WithPublishLogger sets the logger for publishing steps.
func WithPublishLogger(l *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPublisher creates a Publisher.
func NewPublisher(compiler *Compiler, service DocumentService, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		compiler:    compiler,
		service:     service,
		titleSuffix: DefaultTitleSuffix,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish compiles input, creates a document, fills its header (when the
// input has metadata) and body, and returns its share link.
// The header batch is submitted first since its segment ID is only known
// once the header exists.
func (p *Publisher) Publish(ctx context.Context, input Input, opts PublishOptions) (*Document, error) {
	if p.service == nil {
		return nil, ErrNoDocumentService
	}
	result, err := p.compiler.Compile(ctx, input)
	if err != nil {
		return nil, err
	}

	title := result.Title + p.titleSuffix
	doc, err := p.service.CreateDocument(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentCreate, err)
	}
	logger := p.logger.With("document", doc.ID)

	if result.Header != nil {
		if err := p.submitHeader(ctx, doc.ID, *result.Header); err != nil {
			return nil, err
		}
		logger.Debug("header submitted", "commands", result.Header.Len())
	}

	if _, err := p.service.BatchUpdate(ctx, doc.ID, result.Body.Commands); err != nil {
		return nil, fmt.Errorf("%w: body: %w", ErrBatchSubmit, err)
	}

	if opts.MakePublic {
		if err := p.service.MakePublic(ctx, doc.ID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrShare, err)
		}
	}
	link, err := p.service.ShareLink(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShare, err)
	}

	logger.Info("document published", "title", title, "commands", result.Stats.Commands)
	return &Document{
		ID:          doc.ID,
		Title:       title,
		WebViewLink: link,
		Stats:       result.Stats,
	}, nil
}

func (p *Publisher) submitHeader(ctx context.Context, docID string, b command.Batch) error {
	_, rest := b.Split()
	headerID, err := p.service.CreateHeader(ctx, docID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHeaderCreate, err)
	}
	if _, err := p.service.BatchUpdate(ctx, docID, command.Bind(rest, headerID)); err != nil {
		return fmt.Errorf("%w: header: %w", ErrBatchSubmit, err)
	}
	return nil
}
