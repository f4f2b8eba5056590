package chunker

import (
	"errors"
	"fmt"
)

// Fixed chunking parameters, in characters.
const (
	ChunkSize   = 4000
	OverlapSize = 20
)

// ErrInvalidConfiguration is returned when the chunk size and overlap cannot
// produce a forward-moving window.
var ErrInvalidConfiguration = errors.New("invalid chunk configuration")

// Chunk is one indexed slice of the document text.
type Chunk struct {
	Index   int    `json:"index"`
	Content string `json:"content"`
}

// Validate checks chunkSize > overlapSize >= 0.
func Validate(chunkSize, overlapSize int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidConfiguration, chunkSize)
	}
	if overlapSize < 0 {
		return fmt.Errorf("%w: overlap %d must not be negative", ErrInvalidConfiguration, overlapSize)
	}
	if overlapSize >= chunkSize {
		return fmt.Errorf("%w: overlap %d must be less than chunk size %d", ErrInvalidConfiguration, overlapSize, chunkSize)
	}
	return nil
}

// Split cuts text into windows of chunkSize characters, each starting
// chunkSize-overlapSize characters after the previous one. The last window
// may be shorter. Splitting stops once a window reaches the end of the text,
// so text no longer than chunkSize always yields a single chunk.
func Split(text string, chunkSize, overlapSize int) ([]string, error) {
	if err := Validate(chunkSize, overlapSize); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	step := chunkSize - overlapSize
	parts := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := min(start+chunkSize, len(runes))
		parts = append(parts, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return parts, nil
}

// ChunkText splits text with the fixed ChunkSize and OverlapSize.
func ChunkText(text string) ([]Chunk, error) {
	parts, err := Split(text, ChunkSize, OverlapSize)
	if err != nil {
		return nil, err
	}
	chunks := make([]Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = Chunk{Index: i, Content: p}
	}
	return chunks, nil
}

// ExpectedCount returns how many chunks Split produces for a text of n
// characters.
func ExpectedCount(n, chunkSize, overlapSize int) int {
	if n <= 0 {
		return 0
	}
	if n <= chunkSize {
		return 1
	}
	step := chunkSize - overlapSize
	return (n-chunkSize+step-1)/step + 1
}
