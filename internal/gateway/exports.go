package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"resumeforge/internal/uploads"
)

// Export endpoints store rendered documents (PDF/HTML output of a tailored
// resume or letter) in object storage and hand out download links. They are
// registered only when a bucket is configured.

func (s *Server) handlePutExport(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Path        string `json:"path"`
		ContentType string `json:"contentType"`
		Content     string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(in.Path) == "" || in.Content == "" {
		http.Error(w, "path and content are required", http.StatusBadRequest)
		return
	}
	userID := r.PathValue("user")
	if err := s.Uploads.Put(r.Context(), userID, in.Path, []byte(in.Content), in.ContentType); err != nil {
		s.Logger.Error("store export failed",
			zap.String("user_id", userID), zap.String("path", in.Path), zap.Error(err))
		http.Error(w, "store failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": in.Path})
}

func (s *Server) handleListExports(w http.ResponseWriter, r *http.Request) {
	paths, err := s.Uploads.List(r.Context(), r.PathValue("user"))
	if err != nil {
		s.Logger.Error("list exports failed", zap.Error(err))
		http.Error(w, "list failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exports": paths})
}

func (s *Server) handleExportURL(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}
	url, err := s.Uploads.SignedURL(r.Context(), r.PathValue("user"), path)
	if err != nil {
		if errors.Is(err, uploads.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.Logger.Error("sign export url failed", zap.Error(err))
		http.Error(w, "sign failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": url})
}
