package export

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes to the clipboard of the machine running the process.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(ctx context.Context, content string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: no clipboard utility available", ErrClipboardFailure)
	}
	if err := clipboard.WriteAll(content); err != nil {
		return fmt.Errorf("%w: %w", ErrClipboardFailure, err)
	}
	return nil
}
