package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docsplit/internal/parser"
	"github.com/dgallion1/docsplit/internal/session"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.log.Warn("create session failed", "error", err)
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.log.Info("session created", "session_id", sess.ID)
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !s.sessions.Delete(id) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setTextRequest struct {
	Text *string `json:"text"`
}

func (s *Server) handleSetText(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024)
	var req setTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Text == nil {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	sess.SetText(*req.Text)
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	log := s.log.With("session_id", sess.ID)

	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		log.Info("rejected upload", "filename", filename)
		jsonError(w, fmt.Sprintf("unsupported file type: %s (use .txt or .docx)", filepath.Ext(filename)), http.StatusUnsupportedMediaType)
		return
	}

	// Read file data.
	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	start := time.Now()
	err = sess.LoadFile(filename, data)
	s.extractStats.Since(start)
	if err != nil {
		switch {
		case errors.Is(err, parser.ErrUnsupportedFormat):
			jsonError(w, err.Error(), http.StatusUnsupportedMediaType)
		case errors.Is(err, parser.ErrExtractionFailed):
			log.Warn("extraction failed", "filename", filename, "error", err)
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			log.Error("load file failed", "filename", filename, "error", err)
			jsonError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	log.Info("file loaded", "filename", filename, "bytes", len(data))
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	start := time.Now()
	split, err := sess.Split()
	s.splitStats.Since(start)
	if err != nil {
		s.log.Error("split failed", "session_id", sess.ID, "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	snap, states := sess.View()
	if split {
		s.log.Info("text split", "session_id", sess.ID, "chunks", snap.ChunkCount, "generation", snap.Generation)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"split":   split,
		"session": snap,
		"chunks":  chunkSummaries(states),
	})
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
