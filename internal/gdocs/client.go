// Package gdocs is a minimal client for the Google Docs and Drive REST APIs,
// covering what publishing a compiled document needs.
package gdocs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/alnah/go-md2gdoc/internal/command"
)

// Default endpoints.
const (
	DefaultDocsURL   = "https://docs.googleapis.com/v1/"
	DefaultDriveURL  = "https://www.googleapis.com/drive/v3/"
	DefaultUploadURL = "https://www.googleapis.com/upload/drive/v3/"
)

// Scopes requested when credentials come from the environment.
var Scopes = []string{
	"https://www.googleapis.com/auth/documents",
	"https://www.googleapis.com/auth/drive.file",
}

// maxReplyBytes caps how much of a response body is read.
const maxReplyBytes = 4 << 20

// Client talks to the Docs and Drive APIs. It is safe for concurrent use.
type Client struct {
	http      *http.Client
	docsURL   string
	driveURL  string
	uploadURL string
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. It must add credentials
// itself.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithEndpoint points every API at base, laid out like the public hosts
// (base/v1/, base/drive/v3/, base/upload/drive/v3/).
func WithEndpoint(base string) Option {
	base = strings.TrimSuffix(base, "/")
	return func(cl *Client) {
		cl.docsURL = base + "/v1/"
		cl.driveURL = base + "/drive/v3/"
		cl.uploadURL = base + "/upload/drive/v3/"
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New returns a client authenticating with ts.
func New(ctx context.Context, ts oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		http:      oauth2.NewClient(ctx, ts),
		docsURL:   DefaultDocsURL,
		driveURL:  DefaultDriveURL,
		uploadURL: DefaultUploadURL,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TokenSource returns a static source for accessToken, or the application
// default credentials when accessToken is empty.
func TokenSource(ctx context.Context, accessToken string) (oauth2.TokenSource, error) {
	if accessToken != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}), nil
	}
	ts, err := google.DefaultTokenSource(ctx, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoCredentials, err)
	}
	return ts, nil
}

// Document identifies a created document.
type Document struct {
	ID    string `json:"documentId"`
	Title string `json:"title"`
}

// CreateDocument creates an empty document.
func (c *Client) CreateDocument(ctx context.Context, title string) (Document, error) {
	var doc Document
	err := c.do(ctx, "create document", http.MethodPost, c.docsURL+"documents",
		map[string]string{"title": title}, &doc)
	if err != nil {
		return Document{}, err
	}
	if doc.ID == "" {
		return Document{}, fmt.Errorf("create document: %w: missing documentId", ErrMalformedReply)
	}
	return doc, nil
}

// BatchUpdate applies cmds to the document and returns the raw replies, one
// per command.
func (c *Client) BatchUpdate(ctx context.Context, docID string, cmds []command.Command) ([]json.RawMessage, error) {
	if len(cmds) == 0 {
		return nil, nil
	}
	var reply struct {
		Replies []json.RawMessage `json:"replies"`
	}
	endpoint := c.docsURL + "documents/" + url.PathEscape(docID) + ":batchUpdate"
	body := struct {
		Requests []command.Command `json:"requests"`
	}{Requests: cmds}
	if err := c.do(ctx, "batch update", http.MethodPost, endpoint, body, &reply); err != nil {
		return nil, err
	}
	c.logger.Debug("batch applied", "document", docID, "commands", len(cmds))
	return reply.Replies, nil
}

// CreateHeader adds the default header segment and returns its ID.
func (c *Client) CreateHeader(ctx context.Context, docID string) (string, error) {
	replies, err := c.BatchUpdate(ctx, docID, []command.Command{command.CreateHeader()})
	if err != nil {
		return "", err
	}
	if len(replies) == 0 {
		return "", fmt.Errorf("create header: %w: no replies", ErrMalformedReply)
	}
	var reply struct {
		CreateHeader struct {
			HeaderID string `json:"headerId"`
		} `json:"createHeader"`
	}
	if err := json.Unmarshal(replies[0], &reply); err != nil {
		return "", fmt.Errorf("create header: %w: %v", ErrMalformedReply, err)
	}
	if reply.CreateHeader.HeaderID == "" {
		return "", fmt.Errorf("create header: %w: missing headerId", ErrMalformedReply)
	}
	return reply.CreateHeader.HeaderID, nil
}

// ShareLink returns the web view link of a Drive file.
func (c *Client) ShareLink(ctx context.Context, fileID string) (string, error) {
	var reply struct {
		WebViewLink string `json:"webViewLink"`
	}
	endpoint := c.driveURL + "files/" + url.PathEscape(fileID) + "?fields=webViewLink"
	if err := c.do(ctx, "share link", http.MethodGet, endpoint, nil, &reply); err != nil {
		return "", err
	}
	return reply.WebViewLink, nil
}

// MakePublic grants read access to anyone with the link.
func (c *Client) MakePublic(ctx context.Context, fileID string) error {
	endpoint := c.driveURL + "files/" + url.PathEscape(fileID) + "/permissions"
	perm := map[string]string{"type": "anyone", "role": "reader"}
	return c.do(ctx, "make public", http.MethodPost, endpoint, perm, nil)
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, op, out)
}

func (c *Client) send(req *http.Request, op string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return fmt.Errorf("%s: reading reply: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("document service request failed", "op", op, "status", resp.StatusCode)
		return statusError(op, resp.StatusCode, errorMessage(data))
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrMalformedReply, err)
	}
	return nil
}

// errorMessage extracts the message of a Google API error body.
func errorMessage(data []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(data, &e) == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return ""
}
