package gdocs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

// Upload stores data as a new Drive file and returns its ID.
func (c *Client) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	meta, err := json.Marshal(map[string]string{"name": name, "mimeType": contentType})
	if err != nil {
		return "", fmt.Errorf("upload: encoding metadata: %w", err)
	}
	if err := writePart(w, "application/json; charset=UTF-8", meta); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	if err := writePart(w, contentType, data); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	endpoint := c.uploadURL + "files?uploadType=multipart&fields=id"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+w.Boundary())

	var reply struct {
		ID string `json:"id"`
	}
	if err := c.send(req, "upload", &reply); err != nil {
		return "", err
	}
	if reply.ID == "" {
		return "", fmt.Errorf("upload: %w: missing id", ErrMalformedReply)
	}
	return reply.ID, nil
}

func writePart(w *multipart.Writer, contentType string, data []byte) error {
	part, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {contentType}})
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}
