// Package export hands chunk content to download and clipboard sinks.
package export

import (
	"context"
	"errors"
	"fmt"
)

// ErrClipboardFailure wraps any failure to place content on a clipboard.
var ErrClipboardFailure = errors.New("clipboard write failed")

// Filename returns the download name for the chunk at index (0-based).
func Filename(index int) string {
	return fmt.Sprintf("parte_%d.txt", index+1)
}

// Downloader saves chunk content under a suggested filename.
type Downloader interface {
	Download(ctx context.Context, filename, content string) error
}

// Clipboard places chunk content on a clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, content string) error
}

// ClipboardFunc adapts a function to the Clipboard interface.
type ClipboardFunc func(ctx context.Context, content string) error

func (f ClipboardFunc) WriteText(ctx context.Context, content string) error {
	return f(ctx, content)
}

// Reported is a Clipboard whose outcome was decided elsewhere, typically by a
// browser that already attempted the write and told us how it went.
func Reported(success bool, message string) Clipboard {
	return ClipboardFunc(func(ctx context.Context, content string) error {
		if success {
			return nil
		}
		if message == "" {
			message = "reported by client"
		}
		return fmt.Errorf("%w: %s", ErrClipboardFailure, message)
	})
}
