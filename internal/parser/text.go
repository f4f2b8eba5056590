package parser

import (
	"io"
	"strings"
	"unicode/utf8"
)

// TextParser handles plain text files.
type TextParser struct{}

// Parse returns the file contents as-is. A leading byte order mark is dropped
// and invalid UTF-8 sequences become U+FFFD.
func (p *TextParser) Parse(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	return strings.TrimPrefix(text, "\uFEFF"), nil
}
