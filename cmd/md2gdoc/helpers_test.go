package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-md2gdoc/internal/command"
	"github.com/alnah/go-md2gdoc/internal/gdocs"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fakeService records remote calls.
type fakeService struct {
	mu      sync.Mutex
	titles  []string
	public  []string
	uploads int
	token   string
	err     error
}

func (f *fakeService) CreateDocument(_ context.Context, title string) (gdocs.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return gdocs.Document{}, f.err
	}
	f.titles = append(f.titles, title)
	return gdocs.Document{ID: fmt.Sprintf("doc%d", len(f.titles)), Title: title}, nil
}

func (f *fakeService) CreateHeader(context.Context, string) (string, error) {
	return "kix.h", nil
}

func (f *fakeService) BatchUpdate(context.Context, string, []command.Command) ([]json.RawMessage, error) {
	return nil, nil
}

func (f *fakeService) MakePublic(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.public = append(f.public, id)
	return nil
}

func (f *fakeService) ShareLink(_ context.Context, id string) (string, error) {
	return "https://docs.example/" + id, nil
}

func (f *fakeService) Upload(context.Context, string, string, []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	return "file1", nil
}

// testEnv returns an Environment with captured output, the given
// variables, and svc as the document service.
func testEnv(t *testing.T, vars map[string]string, svc *fakeService) (*Environment, *syncBuffer, *syncBuffer) {
	t.Helper()
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC) },
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		NewService: func(_ context.Context, token string, _ *slog.Logger) (DocumentService, error) {
			if svc == nil {
				return nil, gdocs.ErrNoCredentials
			}
			svc.mu.Lock()
			svc.token = token
			svc.mu.Unlock()
			return svc, nil
		},
	}
	return env, stdout, stderr
}
