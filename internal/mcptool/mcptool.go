// Package mcptool exposes compilation and publishing as Model Context
// Protocol tools.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	md2gdoc "github.com/alnah/go-md2gdoc"
)

// Tool names.
const (
	CompileTool = "compile_document"
	PublishTool = "publish_document"
)

// Compiler compiles one input.
type Compiler interface {
	Compile(ctx context.Context, input md2gdoc.Input) (*md2gdoc.Result, error)
}

// Publisher compiles one input and submits it as a new document.
type Publisher interface {
	Publish(ctx context.Context, input md2gdoc.Input, opts md2gdoc.PublishOptions) (*md2gdoc.Document, error)
}

// CompileInput is the argument of compile_document.
type CompileInput struct {
	Source   string           `json:"source" jsonschema:"document source text"`
	Dialect  string           `json:"dialect,omitempty" jsonschema:"source dialect: lines, html, or commonmark (default lines)"`
	Title    string           `json:"title,omitempty" jsonschema:"document title, overridden by a front matter title"`
	Metadata md2gdoc.Metadata `json:"metadata,omitempty" jsonschema:"header fields in display order, overridden per key by front matter"`
}

func (in CompileInput) input() md2gdoc.Input {
	return md2gdoc.Input{
		Source:   in.Source,
		Dialect:  md2gdoc.Dialect(in.Dialect),
		Title:    in.Title,
		Metadata: in.Metadata,
	}
}

// PublishInput is the argument of publish_document.
type PublishInput struct {
	Source     string           `json:"source" jsonschema:"document source text"`
	Dialect    string           `json:"dialect,omitempty" jsonschema:"source dialect: lines, html, or commonmark (default lines)"`
	Title      string           `json:"title,omitempty" jsonschema:"document title before the configured suffix"`
	Metadata   md2gdoc.Metadata `json:"metadata,omitempty" jsonschema:"header fields in display order, overridden per key by front matter"`
	MakePublic bool             `json:"makePublic,omitempty" jsonschema:"grant read access to anyone with the link"`
}

func (in PublishInput) input() md2gdoc.Input {
	return CompileInput{Source: in.Source, Dialect: in.Dialect, Title: in.Title, Metadata: in.Metadata}.input()
}

// Tools holds the handlers.
type Tools struct {
	compiler  Compiler
	publisher Publisher
	logger    *slog.Logger
}

// New returns the tool set. publisher may be nil, in which case only
// compile_document is registered.
func New(compiler Compiler, publisher Publisher, logger *slog.Logger) *Tools {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tools{compiler: compiler, publisher: publisher, logger: logger}
}

// NewServer returns an MCP server with the tools registered.
func NewServer(name, version string, t *Tools) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)
	t.Register(srv)
	return srv
}

// Serve runs srv over stdin and stdout until ctx is cancelled or the client
// disconnects.
func Serve(ctx context.Context, srv *mcp.Server) error {
	return srv.Run(ctx, &mcp.StdioTransport{})
}

// Register adds the tools to srv.
func (t *Tools) Register(srv *mcp.Server) {
	notDestructive := false
	openWorld := true

	mcp.AddTool(srv,
		&mcp.Tool{
			Name:        CompileTool,
			Description: "Compiles document source into ordered edit commands for a remote document, without contacting the document service.",
			InputSchema: schemaFor[CompileInput](),
			Annotations: &mcp.ToolAnnotations{
				Title:           "Compile Document",
				ReadOnlyHint:    true,
				IdempotentHint:  true,
				DestructiveHint: &notDestructive,
				OpenWorldHint:   &openWorld,
			},
		},
		t.HandleCompile,
	)

	if t.publisher == nil {
		return
	}
	mcp.AddTool(srv,
		&mcp.Tool{
			Name:        PublishTool,
			Description: "Compiles document source and creates a new remote document from it. Returns the document ID and share link.",
			InputSchema: schemaFor[PublishInput](),
			Annotations: &mcp.ToolAnnotations{
				Title:           "Publish Document",
				DestructiveHint: &notDestructive,
				OpenWorldHint:   &openWorld,
			},
		},
		t.HandlePublish,
	)
}

// HandleCompile runs compile_document.
func (t *Tools) HandleCompile(ctx context.Context, req *mcp.CallToolRequest, in CompileInput) (*mcp.CallToolResult, any, error) {
	in.Metadata = orderedMetadata(req, in.Metadata)
	result, err := t.compiler.Compile(ctx, in.input())
	if err != nil {
		return nil, nil, fmt.Errorf("compile: %w", err)
	}
	return nil, result, nil
}

// HandlePublish runs publish_document.
func (t *Tools) HandlePublish(ctx context.Context, req *mcp.CallToolRequest, in PublishInput) (*mcp.CallToolResult, any, error) {
	if t.publisher == nil {
		return nil, nil, md2gdoc.ErrNoDocumentService
	}
	in.Metadata = orderedMetadata(req, in.Metadata)
	doc, err := t.publisher.Publish(ctx, in.input(), md2gdoc.PublishOptions{MakePublic: in.MakePublic})
	if err != nil {
		t.logger.WarnContext(ctx, "publish tool failed", "error", err)
		return nil, nil, fmt.Errorf("publish: %w", err)
	}
	return nil, doc, nil
}

// orderedMetadata decodes metadata again from the raw call arguments. The
// SDK validates arguments as a map before decoding them into the input
// struct, so the decoded fields arrive sorted.
func orderedMetadata(req *mcp.CallToolRequest, decoded md2gdoc.Metadata) md2gdoc.Metadata {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return decoded
	}
	var raw struct {
		Metadata md2gdoc.Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &raw); err != nil {
		return decoded
	}
	return raw.Metadata
}
