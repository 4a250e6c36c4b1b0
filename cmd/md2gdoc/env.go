package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	md2gdoc "github.com/alnah/go-md2gdoc"
	"github.com/alnah/go-md2gdoc/internal/gdocs"
	"github.com/alnah/go-md2gdoc/internal/rehost"
)

// DocumentService is the remote API used by publish and the Drive image
// store.
type DocumentService interface {
	md2gdoc.DocumentService
	rehost.DriveAPI
}

// Compile-time interface implementation check.
var _ DocumentService = (*gdocs.Client)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, environment lookup and the remote service factory.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	// Environ lists KEY=value pairs, used to warn about unknown variables.
	Environ func() []string
	// NewService connects to the document service.
	NewService func(ctx context.Context, accessToken string, logger *slog.Logger) (DocumentService, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:        time.Now,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Getenv:     os.Getenv,
		Environ:    os.Environ,
		NewService: newGoogleService,
	}
}

// newGoogleService authenticates with accessToken, or with Application
// Default Credentials when it is empty.
func newGoogleService(ctx context.Context, accessToken string, logger *slog.Logger) (DocumentService, error) {
	ts, err := gdocs.TokenSource(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return gdocs.New(ctx, ts, gdocs.WithLogger(logger)), nil
}
