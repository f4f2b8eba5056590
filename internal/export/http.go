package export

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
)

// HTTPDownloader answers an HTTP request with the content as a plain-text
// attachment.
type HTTPDownloader struct {
	W http.ResponseWriter
}

func (d *HTTPDownloader) Download(ctx context.Context, filename, content string) error {
	h := d.W.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	h.Set("Content-Length", strconv.Itoa(len(content)))
	d.W.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(d.W, content); err != nil {
		return fmt.Errorf("write download: %w", err)
	}
	return nil
}
