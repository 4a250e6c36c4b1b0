// Package imageproxy validates, fetches and re-hosts images referenced by a
// document so the document service can embed them.
package imageproxy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/alnah/go-md2gdoc/internal/rehost"
)

// Default limits.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxBytes     = 10 << 20
	DefaultUserAgent    = "md2gdoc/1.0"
	DefaultMaxRedirects = 5
)

// Config bounds a single image fetch.
type Config struct {
	Timeout      time.Duration
	MaxBytes     int64
	UserAgent    string
	MaxRedirects int
}

// DefaultConfig returns the default fetch limits.
func DefaultConfig() Config {
	return Config{
		Timeout:      DefaultTimeout,
		MaxBytes:     DefaultMaxBytes,
		UserAgent:    DefaultUserAgent,
		MaxRedirects: DefaultMaxRedirects,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = d.MaxBytes
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = d.MaxRedirects
	}
	return c
}

// Externalizer turns an image reference into a URI the document service can
// fetch. It is safe for concurrent use.
type Externalizer struct {
	cfg    Config
	policy Policy
	store  rehost.Store
	client *http.Client
	logger *slog.Logger
}

// Option configures an Externalizer.
type Option func(*Externalizer)

// WithPolicy replaces the default URL policy.
func WithPolicy(p Policy) Option {
	return func(e *Externalizer) { e.policy = p }
}

// WithHTTPClient sets the client used for fetching. Its redirect handling is
// replaced so every hop is validated.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Externalizer) {
		if c != nil {
			e.client = c
		}
	}
}

// WithLogger sets the logger for fetch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Externalizer) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Externalizer uploading to store. With a nil store, images
// are still fetched and checked, and the original URL is handed to the
// document service once the fetch succeeds.
func New(cfg Config, store rehost.Store, opts ...Option) *Externalizer {
	e := &Externalizer{
		cfg:    cfg.withDefaults(),
		store:  store,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}

	client := &http.Client{Transport: guardedTransport()}
	if e.client != nil {
		copied := *e.client
		client = &copied
	}
	client.Timeout = e.cfg.Timeout
	client.CheckRedirect = e.checkRedirect
	e.client = client
	return e
}

// Externalize returns a URI for the image at raw. Data URIs are returned
// unchanged. Every failure wraps ErrImageUnavailable.
func (e *Externalizer) Externalize(ctx context.Context, raw string) (string, error) {
	if IsDataURI(raw) {
		return raw, nil
	}
	u, err := e.policy.Validate(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageUnavailable, err)
	}

	data, contentType, err := e.fetch(ctx, u)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageUnavailable, err)
	}
	if e.store == nil {
		e.logger.Debug("image checked", "url", raw, "bytes", len(data))
		return raw, nil
	}
	uri, err := e.store.Put(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %w: %v", ErrImageUnavailable, ErrUpload, err)
	}
	e.logger.Debug("image rehosted", "url", raw, "uri", uri, "bytes", len(data))
	return uri, nil
}

// Fetch downloads the image at raw after validating it. It returns the body
// and its media type.
func (e *Externalizer) Fetch(ctx context.Context, raw string) ([]byte, string, error) {
	u, err := e.policy.Validate(ctx, raw)
	if err != nil {
		return nil, "", err
	}
	return e.fetch(ctx, u)
}

// fetch downloads an already validated URL. Redirect hops are validated by
// checkRedirect.
func (e *Externalizer) fetch(ctx context.Context, u *url.URL) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: HTTP %d", ErrFetch, resp.StatusCode)
	}
	if resp.ContentLength > e.cfg.MaxBytes {
		return nil, "", fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, resp.ContentLength, e.cfg.MaxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.cfg.MaxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading body: %v", ErrFetch, err)
	}
	if int64(len(data)) > e.cfg.MaxBytes {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, e.cfg.MaxBytes)
	}

	contentType := mediaType(resp.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = mediaType(http.DetectContentType(data))
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("%w: %s", ErrNotImage, contentType)
	}
	return data, contentType, nil
}

func (e *Externalizer) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > e.cfg.MaxRedirects {
		return fmt.Errorf("%w: more than %d", ErrTooManyRedirects, e.cfg.MaxRedirects)
	}
	if _, err := e.policy.Validate(req.Context(), req.URL.String()); err != nil {
		return err
	}
	return nil
}

func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(header))
	}
	return mt
}

// guardedTransport refuses connections to unsafe addresses at dial time,
// which covers DNS answers that change between validation and fetch.
func guardedTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout: 5 * time.Second,
		Control: func(_, address string, _ syscall.RawConn) error {
			ap, err := netip.ParseAddrPort(address)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrUnsafeAddress, address)
			}
			if unsafeAddr(ap.Addr()) {
				return fmt.Errorf("%w: %s", ErrUnsafeAddress, ap.Addr())
			}
			return nil
		},
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = nil
	t.DialContext = dialer.DialContext
	return t
}
