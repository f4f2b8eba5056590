package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirDownloader writes each download as a file inside Dir.
type DirDownloader struct {
	Dir string
}

func (d *DirDownloader) Download(ctx context.Context, filename, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(filename))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
