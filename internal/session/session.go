// Package session holds the state of one interactive splitting session:
// the document text, the current chunk sequence and which chunks were copied.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/docsplit/internal/chunker"
	"github.com/dgallion1/docsplit/internal/export"
	"github.com/dgallion1/docsplit/internal/parser"
	"github.com/dgallion1/docsplit/internal/tracker"
)

var (
	// ErrChunkNotFound is returned for an index outside the current chunk sequence.
	ErrChunkNotFound = errors.New("chunk not found")
	// ErrStaleGeneration is returned when a caller refers to a chunk sequence
	// that has since been replaced by a newer split.
	ErrStaleGeneration = errors.New("chunk sequence has changed")
)

// SourceInput marks text that was typed or pasted directly.
const SourceInput = "input"

// Session is the state of one user's work. All methods are safe for
// concurrent use; each call runs to completion before the next is applied.
type Session struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	text       string
	source     string
	chunks     []chunker.Chunk
	generation int
	acked      *tracker.Tracker
}

// New returns an empty session.
func New(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		source:    SourceInput,
		acked:     tracker.New(0),
	}
}

// SetText replaces the document text with directly entered text.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.source = SourceInput
	s.touch()
}

// LoadFile extracts the text of an uploaded .txt or .docx file and makes it
// the document text. On any error the previous text is kept.
func (s *Session) LoadFile(filename string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := parser.Extract(filename, data)
	if err != nil {
		return err
	}
	s.text = text
	s.source = filename
	s.touch()
	return nil
}

// Text returns the current document text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Split chunks the trimmed document text, replacing the previous chunk
// sequence and clearing every acknowledgment. Blank text leaves the session
// untouched and reports false.
func (s *Session) Split() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := strings.TrimSpace(s.text)
	if text == "" {
		return false, nil
	}
	chunks, err := chunker.ChunkText(text)
	if err != nil {
		return false, fmt.Errorf("split: %w", err)
	}

	s.chunks = chunks
	s.acked.Reset(len(chunks))
	s.generation++
	s.touch()
	return true, nil
}

// Generation identifies the current chunk sequence. It is 0 before the first
// split and grows by one with every split.
func (s *Session) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Chunks returns a copy of the current chunk sequence.
func (s *Session) Chunks() []chunker.Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chunker.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}

// Chunk returns the chunk at index.
func (s *Session) Chunk(index int) (chunker.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunkLocked(index)
}

func (s *Session) IsCopied(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acked.IsAcknowledged(index)
}

// CopiedCount returns how many chunks of the current sequence were copied.
func (s *Session) CopiedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.acked.Count()
}

// Download hands the chunk at index to d under its parte_N.txt name.
// The lock is released before d runs, so a slow sink does not hold up the
// session.
func (s *Session) Download(ctx context.Context, index int, d export.Downloader) error {
	c, err := s.Chunk(index)
	if err != nil {
		return err
	}
	return d.Download(ctx, export.Filename(c.Index), c.Content)
}

// Copy writes the chunk at index to clip and records the acknowledgment once
// the write succeeds. generation 0 means the current sequence; any other
// value must match Generation. A failed write leaves every acknowledgment as
// it was.
func (s *Session) Copy(ctx context.Context, generation, index int, clip export.Clipboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != 0 && generation != s.generation {
		return fmt.Errorf("%w: got generation %d, current is %d", ErrStaleGeneration, generation, s.generation)
	}
	c, err := s.chunkLocked(index)
	if err != nil {
		return err
	}
	if err := clip.WriteText(ctx, c.Content); err != nil {
		if !errors.Is(err, export.ErrClipboardFailure) {
			err = fmt.Errorf("%w: %w", export.ErrClipboardFailure, err)
		}
		return err
	}
	if err := s.acked.Acknowledge(index); err != nil {
		return err
	}
	s.touch()
	return nil
}

func (s *Session) chunkLocked(index int) (chunker.Chunk, error) {
	if index < 0 || index >= len(s.chunks) {
		return chunker.Chunk{}, fmt.Errorf("%w: index %d of %d", ErrChunkNotFound, index, len(s.chunks))
	}
	return s.chunks[index], nil
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

// lastUpdate is used by the store to decide expiry.
func (s *Session) lastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UpdatedAt
}

// Snapshot is a read-only, JSON-safe copy of session state.
type Snapshot struct {
	ID          string    `json:"session_id"`
	Source      string    `json:"source"`
	Characters  int       `json:"characters"`
	Generation  int       `json:"generation"`
	ChunkCount  int       `json:"chunk_count"`
	CopiedCount int       `json:"copied_count"`
	Copied      []int     `json:"copied"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the session state. Characters counts
// the trimmed text, the part that a split would cut.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ChunkState is a chunk together with its acknowledgment.
type ChunkState struct {
	chunker.Chunk
	Copied bool
}

// View returns the snapshot and every chunk's state read under one lock, so
// both describe the same generation.
func (s *Session) View() (Snapshot, []ChunkState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	states := make([]ChunkState, len(s.chunks))
	for i, c := range s.chunks {
		states[i] = ChunkState{Chunk: c, Copied: s.acked.IsAcknowledged(c.Index)}
	}
	return s.snapshotLocked(), states
}

// ChunkState returns the chunk at index and whether it was copied.
func (s *Session) ChunkState(index int) (ChunkState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.chunkLocked(index)
	if err != nil {
		return ChunkState{}, err
	}
	return ChunkState{Chunk: c, Copied: s.acked.IsAcknowledged(index)}, nil
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:          s.ID,
		Source:      s.source,
		Characters:  chunker.Len(strings.TrimSpace(s.text)),
		Generation:  s.generation,
		ChunkCount:  len(s.chunks),
		CopiedCount: s.acked.Count(),
		Copied:      s.acked.Indices(),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
