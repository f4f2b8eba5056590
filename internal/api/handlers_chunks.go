package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dgallion1/docsplit/internal/chunker"
	"github.com/dgallion1/docsplit/internal/export"
	"github.com/dgallion1/docsplit/internal/session"
	"github.com/go-chi/chi/v5"
)

type chunkSummary struct {
	Index      int    `json:"index"`
	Filename   string `json:"filename"`
	Characters int    `json:"characters"`
	Tokens     int    `json:"tokens"`
	Copied     bool   `json:"copied"`
}

func chunkSummaries(states []session.ChunkState) []chunkSummary {
	out := make([]chunkSummary, 0, len(states))
	for _, c := range states {
		out = append(out, chunkSummary{
			Index:      c.Index,
			Filename:   export.Filename(c.Index),
			Characters: chunker.Len(c.Content),
			Tokens:     chunker.EstimateTokens(c.Content),
			Copied:     c.Copied,
		})
	}
	return out
}

func (s *Server) handleListChunks(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	snap, states := sess.View()
	writeJSON(w, http.StatusOK, map[string]any{
		"generation":   snap.Generation,
		"chunk_count":  snap.ChunkCount,
		"copied_count": snap.CopiedCount,
		"chunks":       chunkSummaries(states),
	})
}

func (s *Server) handleGetChunk(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	index, ok := chunkIndex(w, r)
	if !ok {
		return
	}
	c, err := sess.ChunkState(index)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"index":      c.Index,
		"filename":   export.Filename(c.Index),
		"characters": chunker.Len(c.Content),
		"copied":     c.Copied,
		"content":    c.Content,
	})
}

func (s *Server) handleDownloadChunk(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	index, ok := chunkIndex(w, r)
	if !ok {
		return
	}
	if err := sess.Download(r.Context(), index, &export.HTTPDownloader{W: w}); err != nil {
		if errors.Is(err, session.ErrChunkNotFound) {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		// Headers are already out; nothing left to tell the client.
		s.log.Warn("download interrupted", "session_id", sess.ID, "index", index, "error", err)
	}
}

// copyReport is what the browser sends after attempting its own clipboard
// write for a chunk.
type copyReport struct {
	Generation int    `json:"generation"`
	Success    bool   `json:"success"`
	Error      string `json:"error"`
}

func (s *Server) handleCopyChunk(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	index, ok := chunkIndex(w, r)
	if !ok {
		return
	}

	var report copyReport
	if err := json.NewDecoder(io.LimitReader(r.Body, 64*1024)).Decode(&report); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	log := s.log.With("session_id", sess.ID, "index", index)
	err := sess.Copy(r.Context(), report.Generation, index, export.Reported(report.Success, report.Error))
	switch {
	case err == nil:
	case errors.Is(err, session.ErrStaleGeneration):
		jsonError(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, session.ErrChunkNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, export.ErrClipboardFailure):
		log.Info("clipboard copy failed", "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	default:
		log.Error("copy failed", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	snap := sess.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"index":        index,
		"acknowledged": true,
		"copied_count": snap.CopiedCount,
		"chunk_count":  snap.ChunkCount,
	})
}

func chunkIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		jsonError(w, "chunk index must be a non-negative integer", http.StatusBadRequest)
		return 0, false
	}
	return index, true
}
