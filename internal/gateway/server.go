// Package gateway is the HTTP surface: JSON endpoints for resume CRUD and
// generation runs, plus a websocket stream of per-run task progress.
package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumeforge/internal/feature"
	"resumeforge/internal/schema"
	"resumeforge/internal/store"
	"resumeforge/internal/uploads"
	"resumeforge/internal/workflow"
)

type Server struct {
	Features *feature.Service
	Store    *store.Store
	Hub      *Hub
	Logger   *zap.Logger
	// Uploads is optional; export routes are registered only when set.
	Uploads *uploads.Bucket
}

func NewServer(features *feature.Service, st *store.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{Features: features, Store: st, Hub: NewHub(), Logger: log}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/resumes", s.handlePutResume)
	mux.HandleFunc("GET /v1/resumes", s.handleListResumes)
	mux.HandleFunc("GET /v1/resumes/{id}", s.handleGetResume)
	mux.HandleFunc("POST /v1/resumes/{id}/tailor", s.handleTailor)
	mux.HandleFunc("GET /v1/resumes/{id}/tailored", s.handleGetTailored)
	mux.HandleFunc("GET /v1/resumes/{id}/cover-letters", s.handleListCoverLetters)
	mux.HandleFunc("POST /v1/cover-letters", s.handleGenerateCoverLetter)
	mux.HandleFunc("POST /v1/themes", s.handleGenerateTheme)
	mux.HandleFunc("GET /v1/themes", s.handleListThemes)
	mux.HandleFunc("GET /ws/progress", s.handleProgressWS)
	if s.Uploads != nil {
		mux.HandleFunc("POST /v1/exports/{user}", s.handlePutExport)
		mux.HandleFunc("GET /v1/exports/{user}", s.handleListExports)
		mux.HandleFunc("GET /v1/exports/{user}/url", s.handleExportURL)
	}
	return cors(mux)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handlePutResume(w http.ResponseWriter, r *http.Request) {
	var resume schema.Resume
	if err := json.NewDecoder(r.Body).Decode(&resume); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(resume.ID) == "" {
		resume.ID = uuid.NewString()
	}
	if err := s.Store.PutResume(r.Context(), resume); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	resumes, err := s.Store.ListResumes(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"resumes": resumes})
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	resume, err := s.Store.GetResume(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	var in struct {
		JobURL string `json:"jobUrl"`
		RunID  string `json:"runId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.JobURL) == "" {
		http.Error(w, "jobUrl is required", http.StatusBadRequest)
		return
	}
	resumeID := r.PathValue("id")
	runID := resolveRunID(in.RunID)

	// Scope the progress callback to this run so websocket subscribers can
	// follow it by run id.
	svc := *s.Features
	svc.OnEvent = s.progressFor(runID)

	result, err := svc.TailorResume(r.Context(), resumeID, in.JobURL)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.Store.SaveTailored(r.Context(), resumeID, result.Resume); err != nil {
		s.Logger.Warn("persist tailored resume failed",
			zap.String("resume_id", resumeID), zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]any{"runId": runID, "result": result})
}

func (s *Server) handleGetTailored(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Store.GetTailored(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleGenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	var in struct {
		feature.CoverLetterRequest
		RunID string `json:"runId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req := in.CoverLetterRequest
	if strings.TrimSpace(req.ResumeID) == "" || strings.TrimSpace(req.JobURL) == "" {
		http.Error(w, "resumeId and jobUrl are required", http.StatusBadRequest)
		return
	}
	runID := resolveRunID(in.RunID)
	svc := *s.Features
	svc.OnEvent = s.progressFor(runID)

	out, err := svc.GenerateCoverLetter(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.Store.SaveCoverLetter(r.Context(), out.Letter); err != nil {
		s.Logger.Warn("persist cover letter failed",
			zap.String("resume_id", req.ResumeID), zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]any{"runId": runID, "result": out})
}

func (s *Server) handleListCoverLetters(w http.ResponseWriter, r *http.Request) {
	letters, err := s.Store.ListCoverLetters(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"coverLetters": letters})
}

func (s *Server) handleGenerateTheme(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID string `json:"userId"`
		Prompt string `json:"prompt"`
		RunID  string `json:"runId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Prompt) == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}
	runID := resolveRunID(in.RunID)
	svc := *s.Features
	svc.OnEvent = s.progressFor(runID)

	out, err := svc.GenerateTheme(r.Context(), in.UserID, in.Prompt)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.Store.SaveTheme(r.Context(), out.Theme); err != nil {
		s.Logger.Warn("persist theme failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, map[string]any{"runId": runID, "result": out})
}

func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := s.Store.ListThemes(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"themes": themes})
}

// resolveRunID honors a caller-chosen run id so the client can open the
// progress websocket before starting the run. Runs fire events synchronously;
// a server-generated id would only be disclosed after the run already ended.
func resolveRunID(requested string) string {
	if id := strings.TrimSpace(requested); id != "" {
		return id
	}
	return uuid.NewString()
}

func (s *Server) progressFor(runID string) workflow.Progress {
	return func(stage int, task string, status string) {
		s.Hub.Publish(ProgressEvent{RunID: runID, Stage: stage, Task: task, Status: status})
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, feature.ErrNoResumeContent):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, feature.ErrLetterFailed), errors.Is(err, feature.ErrThemeFailed):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		s.Logger.Error("request failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
