// Package rehost stores fetched images somewhere the document service can
// read them from.
package rehost

import (
	"context"
	"errors"
)

// Store persists image bytes and returns a publicly fetchable URI.
type Store interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
}

// Image is a stored image.
type Image struct {
	ContentType string
	Data        []byte
}

// Sentinel errors.
var (
	ErrNotFound  = errors.New("image not found")
	ErrEmptyData = errors.New("empty image data")
	ErrStore     = errors.New("image store failure")
)
