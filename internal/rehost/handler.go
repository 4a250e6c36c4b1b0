package rehost

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Source looks up stored images by ID.
type Source interface {
	Get(ctx context.Context, id string) (Image, error)
}

// Mount registers GET /images/{id} on r.
func Mount(r chi.Router, src Source) {
	r.Get("/images/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		if !validID(id) {
			http.NotFound(w, req)
			return
		}
		img, err := src.Get(req.Context(), id)
		if errors.Is(err, ErrNotFound) {
			http.NotFound(w, req)
			return
		}
		if err != nil {
			http.Error(w, "image store unavailable", http.StatusInternalServerError)
			return
		}
		h := w.Header()
		h.Set("Content-Type", img.ContentType)
		h.Set("Content-Length", strconv.Itoa(len(img.Data)))
		h.Set("Cache-Control", "public, max-age=31536000, immutable")
		h.Set("X-Content-Type-Options", "nosniff")
		_, _ = w.Write(img.Data)
	})
}

// Handler returns a router serving only the image route.
func Handler(src Source) http.Handler {
	r := chi.NewRouter()
	Mount(r, src)
	return r
}

// validID accepts lowercase hex SHA-256 digests.
func validID(id string) bool {
	if len(id) != 64 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
