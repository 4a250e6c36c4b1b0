package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	md2gdoc "github.com/alnah/go-md2gdoc"
	"github.com/alnah/go-md2gdoc/internal/gdocs"
)

// Request limits.
const (
	MaxTitleLength = 500
	// maxBodyBytes leaves room for JSON escaping and the other fields.
	maxBodyBytes = 2*md2gdoc.MaxSourceSize + 64<<10
)

// compileRequest is the body of POST /v1/compile and POST /v1/publish.
type compileRequest struct {
	Source     string           `json:"source"`
	Dialect    string           `json:"dialect,omitempty"`
	Title      string           `json:"title,omitempty"`
	Metadata   md2gdoc.Metadata `json:"metadata,omitempty"`
	MakePublic bool             `json:"makePublic,omitempty"`
}

// Validate checks field presence and bounds before compilation.
func (r compileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Source, validation.Required),
		validation.Field(&r.Dialect, validation.By(func(value any) error {
			s, _ := value.(string)
			if _, err := md2gdoc.ParseDialect(s); err != nil {
				return errors.New("must be lines, html, or commonmark")
			}
			return nil
		})),
		validation.Field(&r.Title, validation.Length(0, MaxTitleLength)),
	)
}

func (r compileRequest) input() md2gdoc.Input {
	return md2gdoc.Input{
		Source:   r.Source,
		Dialect:  md2gdoc.Dialect(r.Dialect),
		Title:    r.Title,
		Metadata: r.Metadata,
	}
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error     string            `json:"error"`
	RequestID string            `json:"requestId,omitempty"`
	Fields    validation.Errors `json:"fields,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	result, err := s.compiler.Compile(r.Context(), req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	doc, err := s.publisher.Publish(r.Context(), req.input(), md2gdoc.PublishOptions{MakePublic: req.MakePublic})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// decode reads and validates the request body. It writes the error reply
// and reports false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (compileRequest, bool) {
	var req compileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, md2gdoc.ErrSourceTooLarge)
			return req, false
		}
		if errors.Is(err, md2gdoc.ErrInvalidMetadata) {
			s.fail(w, r, err)
			return req, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:     "invalid JSON body: " + err.Error(),
			RequestID: middleware.GetReqID(r.Context()),
		})
		return req, false
	}
	if len(req.Source) > md2gdoc.MaxSourceSize {
		s.fail(w, r, fmt.Errorf("%w: %d bytes (max %d)", md2gdoc.ErrSourceTooLarge, len(req.Source), md2gdoc.MaxSourceSize))
		return req, false
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, err)
		return req, false
	}
	return req, true
}

// fail maps err to a status code and writes the error reply.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Error:     err.Error(),
		RequestID: middleware.GetReqID(r.Context()),
	}
	var fields validation.Errors
	if errors.As(err, &fields) {
		resp.Error = "invalid request"
		resp.Fields = fields
	}
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"request_id", resp.RequestID,
			"status", status,
			"error", err)
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	var fields validation.Errors
	switch {
	case errors.As(err, &fields):
		return http.StatusBadRequest
	case errors.Is(err, md2gdoc.ErrSourceTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, md2gdoc.ErrEmptySource),
		errors.Is(err, md2gdoc.ErrUnknownDialect),
		errors.Is(err, md2gdoc.ErrInvalidMetadata):
		return http.StatusBadRequest
	case errors.Is(err, gdocs.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, gdocs.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, md2gdoc.ErrNoDocumentService):
		return http.StatusServiceUnavailable
	case errors.Is(err, md2gdoc.ErrDocumentCreate),
		errors.Is(err, md2gdoc.ErrHeaderCreate),
		errors.Is(err, md2gdoc.ErrBatchSubmit),
		errors.Is(err, md2gdoc.ErrShare):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
