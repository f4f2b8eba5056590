package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docsplit/internal/export"
	"github.com/dgallion1/docsplit/internal/parser"
)

type recordingDownloader struct {
	filename string
	content  string
}

func (d *recordingDownloader) Download(ctx context.Context, filename, content string) error {
	d.filename = filename
	d.content = content
	return nil
}

func splitSession(t *testing.T, text string) *Session {
	t.Helper()
	s := New("test")
	s.SetText(text)
	ok, err := s.Split()
	if err != nil {
		t.Fatalf("unexpected split error: %v", err)
	}
	if !ok {
		t.Fatal("expected split to happen")
	}
	return s
}

func TestSession_SplitTrimsText(t *testing.T) {
	s := splitSession(t, "  \n hola mundo \t\n")
	chunks := s.Chunks()
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "hola mundo" {
		t.Errorf("expected trimmed content, got %q", chunks[0].Content)
	}
	if s.Generation() != 1 {
		t.Errorf("expected generation 1, got %d", s.Generation())
	}
}

func TestSession_SplitBlankTextIsNoOp(t *testing.T) {
	s := splitSession(t, strings.Repeat("x", 9000))
	if err := s.Copy(context.Background(), 0, 1, export.Reported(true, "")); err != nil {
		t.Fatalf("unexpected copy error: %v", err)
	}

	s.SetText("   \n\t ")
	ok, err := s.Split()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected blank split to report false")
	}
	if n := len(s.Chunks()); n != 3 {
		t.Errorf("expected previous 3 chunks to be kept, got %d", n)
	}
	if !s.IsCopied(1) {
		t.Error("expected acknowledgment to survive a blank split")
	}
	if s.Generation() != 1 {
		t.Errorf("expected generation to stay 1, got %d", s.Generation())
	}
}

func TestSession_SplitBeforeAnyText(t *testing.T) {
	s := New("fresh")
	ok, err := s.Split()
	if err != nil || ok {
		t.Fatalf("expected (false, nil), got (%v, %v)", ok, err)
	}
	if len(s.Chunks()) != 0 {
		t.Error("expected no chunks")
	}
}

func TestSession_SplitResetsAcknowledgments(t *testing.T) {
	s := splitSession(t, strings.Repeat("a", 12000))
	ctx := context.Background()
	for _, i := range []int{0, 2, 3} {
		if err := s.Copy(ctx, 0, i, export.Reported(true, "")); err != nil {
			t.Fatalf("copy %d: %v", i, err)
		}
	}
	if s.CopiedCount() != 3 {
		t.Fatalf("expected 3 copied, got %d", s.CopiedCount())
	}

	s.SetText(strings.Repeat("b", 5000))
	if _, err := s.Split(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.CopiedCount() != 0 {
		t.Errorf("expected 0 copied after split, got %d", s.CopiedCount())
	}
	for i := 0; i < 4; i++ {
		if s.IsCopied(i) {
			t.Errorf("expected chunk %d not copied after split", i)
		}
	}
	if s.Generation() != 2 {
		t.Errorf("expected generation 2, got %d", s.Generation())
	}
}

func TestSession_CopySuccessAcknowledges(t *testing.T) {
	s := splitSession(t, strings.Repeat("z", 15000))
	var written string
	clip := export.ClipboardFunc(func(ctx context.Context, content string) error {
		written = content
		return nil
	})

	if err := s.Copy(context.Background(), 0, 2, clip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsCopied(2) {
		t.Error("expected chunk 2 to be copied")
	}
	if s.CopiedCount() != 1 {
		t.Errorf("expected count 1, got %d", s.CopiedCount())
	}
	c, _ := s.Chunk(2)
	if written != c.Content {
		t.Error("expected clipboard to receive the exact chunk content")
	}

	if err := s.Copy(context.Background(), 0, 2, clip); err != nil {
		t.Fatalf("unexpected error on repeat copy: %v", err)
	}
	if s.CopiedCount() != 1 {
		t.Errorf("expected count to stay 1, got %d", s.CopiedCount())
	}
}

func TestSession_CopyFailureDoesNotAcknowledge(t *testing.T) {
	s := splitSession(t, strings.Repeat("z", 15000))
	ctx := context.Background()
	if err := s.Copy(ctx, 0, 0, export.Reported(true, "")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failing := export.ClipboardFunc(func(ctx context.Context, content string) error {
		return errors.New("denied")
	})
	err := s.Copy(ctx, 0, 2, failing)
	if !errors.Is(err, export.ErrClipboardFailure) {
		t.Fatalf("expected ErrClipboardFailure, got %v", err)
	}
	if s.IsCopied(2) {
		t.Error("expected chunk 2 to stay unacknowledged")
	}
	if !s.IsCopied(0) || s.CopiedCount() != 1 {
		t.Error("expected other acknowledgments to be unaffected")
	}
}

func TestSession_CopyStaleGeneration(t *testing.T) {
	s := splitSession(t, "first")
	s.SetText("second")
	s.Split()

	err := s.Copy(context.Background(), 1, 0, export.Reported(true, ""))
	if !errors.Is(err, ErrStaleGeneration) {
		t.Fatalf("expected ErrStaleGeneration, got %v", err)
	}
	if s.CopiedCount() != 0 {
		t.Error("expected no acknowledgment for a stale reference")
	}
	if err := s.Copy(context.Background(), 2, 0, export.Reported(true, "")); err != nil {
		t.Errorf("expected current generation to be accepted, got %v", err)
	}
}

func TestSession_CopyUnknownChunk(t *testing.T) {
	s := splitSession(t, "short")
	called := false
	clip := export.ClipboardFunc(func(ctx context.Context, content string) error {
		called = true
		return nil
	})
	if err := s.Copy(context.Background(), 0, 1, clip); !errors.Is(err, ErrChunkNotFound) {
		t.Fatalf("expected ErrChunkNotFound, got %v", err)
	}
	if called {
		t.Error("expected clipboard not to be called for an unknown chunk")
	}
}

func TestSession_Download(t *testing.T) {
	s := splitSession(t, strings.Repeat("d", 4100))
	d := &recordingDownloader{}
	if err := s.Download(context.Background(), 1, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.filename != "parte_2.txt" {
		t.Errorf("expected parte_2.txt, got %s", d.filename)
	}
	if d.content != strings.Repeat("d", 120) {
		t.Errorf("expected 120 characters, got %d", len(d.content))
	}
	if s.CopiedCount() != 0 {
		t.Error("expected download not to acknowledge")
	}
}

func TestSession_LoadUnsupportedKeepsText(t *testing.T) {
	s := New("t")
	s.SetText("previous")
	err := s.LoadFile("paper.pdf", []byte("%PDF"))
	if !errors.Is(err, parser.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if s.Text() != "previous" {
		t.Errorf("expected text unchanged, got %q", s.Text())
	}
}

func TestSession_LoadExtractionFailureKeepsText(t *testing.T) {
	s := New("t")
	s.SetText("previous")
	err := s.LoadFile("broken.docx", []byte("not a docx"))
	if !errors.Is(err, parser.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if s.Text() != "previous" {
		t.Errorf("expected text unchanged, got %q", s.Text())
	}
}

func TestSession_LoadTextFile(t *testing.T) {
	s := New("t")
	if err := s.LoadFile("notes.txt", []byte("contenido")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := s.Snapshot()
	if snap.Source != "notes.txt" {
		t.Errorf("expected source notes.txt, got %q", snap.Source)
	}
	if snap.Characters != 9 {
		t.Errorf("expected 9 characters, got %d", snap.Characters)
	}
	if snap.ChunkCount != 0 {
		t.Errorf("expected loading not to split, got %d chunks", snap.ChunkCount)
	}
}

func TestSession_Snapshot(t *testing.T) {
	s := splitSession(t, " "+strings.Repeat("ñ", 8000)+" ")
	s.Copy(context.Background(), 0, 2, export.Reported(true, ""))
	s.Copy(context.Background(), 0, 0, export.Reported(true, ""))

	snap := s.Snapshot()
	if snap.Characters != 8000 {
		t.Errorf("expected 8000 characters, got %d", snap.Characters)
	}
	if snap.ChunkCount != 3 {
		t.Errorf("expected 3 chunks, got %d", snap.ChunkCount)
	}
	if snap.CopiedCount != 2 {
		t.Errorf("expected 2 copied, got %d", snap.CopiedCount)
	}
	if len(snap.Copied) != 2 || snap.Copied[0] != 0 || snap.Copied[1] != 2 {
		t.Errorf("expected copied [0 2], got %v", snap.Copied)
	}
	if snap.Source != SourceInput {
		t.Errorf("expected source %q, got %q", SourceInput, snap.Source)
	}
}

func TestSession_ViewMatchesSnapshot(t *testing.T) {
	s := splitSession(t, strings.Repeat("v", 9000))
	if err := s.Copy(context.Background(), 0, 2, export.Reported(true, "")); err != nil {
		t.Fatalf("unexpected copy error: %v", err)
	}

	snap, states := s.View()
	if snap.ChunkCount != len(states) {
		t.Fatalf("expected %d states, got %d", snap.ChunkCount, len(states))
	}
	for i, st := range states {
		if st.Index != i {
			t.Errorf("expected index %d, got %d", i, st.Index)
		}
		if want := i == 2; st.Copied != want {
			t.Errorf("chunk %d: expected copied=%v, got %v", i, want, st.Copied)
		}
	}

	st, err := s.ChunkState(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.Copied || st.Content != states[2].Content {
		t.Errorf("expected copied chunk 2, got %+v", st)
	}
	if _, err := s.ChunkState(3); !errors.Is(err, ErrChunkNotFound) {
		t.Errorf("expected ErrChunkNotFound, got %v", err)
	}
}

// reentrantDownloader calls back into the session while it writes.
type reentrantDownloader struct {
	sess *Session
}

func (d *reentrantDownloader) Download(ctx context.Context, filename, content string) error {
	d.sess.SetText("changed while downloading")
	return nil
}

func TestSession_DownloadDoesNotHoldLock(t *testing.T) {
	s := splitSession(t, "short text")

	done := make(chan error, 1)
	go func() {
		done <- s.Download(context.Background(), 0, &reentrantDownloader{sess: s})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("download blocked other session actions")
	}
	if s.Text() != "changed while downloading" {
		t.Errorf("expected text set during download, got %q", s.Text())
	}
}
