package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither .txt nor .docx.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrExtractionFailed wraps any failure while reading text out of a file.
	ErrExtractionFailed = errors.New("text extraction failed")
)

// Parser converts raw document bytes into plain text.
type Parser interface {
	Parse(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".docx": true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		if ext == "" {
			ext = "(none)"
		}
		return nil, fmt.Errorf("%w: %s (use .txt or .docx)", ErrUnsupportedFormat, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Extract picks a parser for filename and returns the full text of data.
// Either the whole document is extracted or an error is returned; partial
// text is never handed back.
func Extract(filename string, data []byte) (string, error) {
	p, err := ForFile(filename)
	if err != nil {
		return "", err
	}
	text, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrExtractionFailed, filepath.Base(filename), err)
	}
	return text, nil
}
