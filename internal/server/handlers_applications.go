package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/db"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/dedup"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

// handleListApplications returns stored applications with optional filters
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	if !s.requireStorage(w) {
		return
	}

	filters := db.ApplicationFilters{
		Company: r.URL.Query().Get("company"),
		Status:  r.URL.Query().Get("status"),
	}

	apps, err := s.db.ListApplications(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if apps == nil {
		apps = []types.Application{}
	}
	s.jsonResponse(w, http.StatusOK, apps)
}

// handleCreateApplication stores a manually entered application
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	if !s.requireStorage(w) {
		return
	}

	var app types.Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if app.Company == "" {
		err := &ErrValidation{Field: "company", Message: "company is required"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	now := time.Now().UTC()
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	app.CreatedAt = now
	app.UpdatedAt = now

	if err := s.db.InsertApplication(r.Context(), app); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, app)
}

// handleGetApplication returns a single application by ID
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	if !s.requireStorage(w) {
		return
	}

	id := r.PathValue("id")
	app, err := s.db.GetApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if app == nil {
		nf := &ErrApplicationNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleUpdateApplication replaces a stored application
func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	if !s.requireStorage(w) {
		return
	}

	var app types.Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	app.ID = r.PathValue("id")
	if app.Company == "" {
		err := &ErrValidation{Field: "company", Message: "company is required"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.db.UpdateApplication(r.Context(), app); err != nil {
		nf := &ErrApplicationNotFound{ID: app.ID}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleDeleteApplication removes a stored application
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	if !s.requireStorage(w) {
		return
	}

	id := r.PathValue("id")
	if err := s.db.DeleteApplication(r.Context(), id); err != nil {
		nf := &ErrApplicationNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(nf), nf.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckDuplicateRequest represents the body for /applications/check-duplicate
type CheckDuplicateRequest struct {
	Application types.Application   `json:"application"`
	Existing    []types.Application `json:"existing,omitempty"`
}

// handleCheckDuplicate scores a candidate against stored applications, for
// real-time warnings during manual entry
func (s *Server) handleCheckDuplicate(w http.ResponseWriter, r *http.Request) {
	var req CheckDuplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Application.Company == "" {
		err := &ErrValidation{Field: "application.company", Message: "company is required"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	existing := req.Existing
	if existing == nil {
		existing = s.existingApplications(r)
	}

	result := dedup.NewDefaultDetector().CheckRecord(req.Application, existing)
	s.jsonResponse(w, http.StatusOK, result)
}

// PrefillRequest represents the body for /applications/prefill
type PrefillRequest struct {
	URL string `json:"url"`
}

// handlePrefill fetches a job posting page and extracts application fields
func (s *Server) handlePrefill(w http.ResponseWriter, r *http.Request) {
	var req PrefillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.URL == "" {
		err := &ErrValidation{Field: "url", Message: "url is required"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	prefill, err := s.fetcher.JobPage(r.Context(), req.URL)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, prefill)
}
