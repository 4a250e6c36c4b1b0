package rehost

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// DriveAPI is the part of the Drive client used to host images.
type DriveAPI interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
	MakePublic(ctx context.Context, fileID string) error
}

// DriveStore uploads images to Drive and shares them publicly so the
// document service can embed them.
type DriveStore struct {
	api DriveAPI
}

// NewDriveStore returns a Store backed by api.
func NewDriveStore(api DriveAPI) *DriveStore {
	return &DriveStore{api: api}
}

// Put uploads data as a new file named after its media subtype.
func (s *DriveStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyData
	}
	name := "image_" + uuid.NewString() + "." + extension(contentType)
	id, err := s.api.Upload(ctx, name, contentType, data)
	if err != nil {
		return "", fmt.Errorf("%w: drive upload: %w", ErrStore, err)
	}
	if err := s.api.MakePublic(ctx, id); err != nil {
		return "", fmt.Errorf("%w: drive share: %w", ErrStore, err)
	}
	return "https://drive.google.com/uc?id=" + url.QueryEscape(id), nil
}

// extension maps "image/svg+xml" to "svg".
func extension(contentType string) string {
	_, sub, ok := strings.Cut(contentType, "/")
	if !ok || sub == "" {
		return "bin"
	}
	sub, _, _ = strings.Cut(sub, "+")
	sub, _, _ = strings.Cut(sub, ";")
	return strings.TrimSpace(sub)
}
