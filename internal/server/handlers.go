package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/db"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/mapping"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/pipeline"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

// ImportRequest represents the request body for /imports
type ImportRequest struct {
	// CSV holds the file content as text; Data holds it base64-encoded
	// for files that are not valid UTF-8 (UTF-16, Latin-1).
	CSV      string             `json:"csv,omitempty"`
	Data     string             `json:"data,omitempty"`
	Filename string             `json:"filename,omitempty"`
	Mapping  types.FieldMapping `json:"mapping,omitempty"`
	SkipRows []int              `json:"skipRows,omitempty"`
	// Commit persists imported applications to the database.
	Commit bool `json:"commit,omitempty"`
}

// ImportResponse represents the response for /imports
type ImportResponse struct {
	RunID  string           `json:"run_id,omitempty"`
	Result *pipeline.Result `json:"result"`
}

func (req *ImportRequest) fileBytes() ([]byte, error) {
	if req.Data != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return nil, &ErrValidation{Field: "data", Message: "invalid base64"}
		}
		return decoded, nil
	}
	if req.CSV != "" {
		return []byte(req.CSV), nil
	}
	return nil, &ErrValidation{Field: "csv", Message: "either csv or data is required"}
}

func (req *ImportRequest) skipRowSet() map[int]bool {
	if len(req.SkipRows) == 0 {
		return nil
	}
	set := make(map[int]bool, len(req.SkipRows))
	for _, row := range req.SkipRows {
		set[row] = true
	}
	return set
}

// maxUploadSize caps multipart CSV uploads.
const maxUploadSize = 32 << 20

// decodeImportRequest reads an import request from either a JSON body or a
// multipart form with a "file" part.
func decodeImportRequest(r *http.Request) (*ImportRequest, []byte, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, nil, &ErrValidation{Field: "form", Message: "could not parse multipart form"}
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, nil, &ErrValidation{Field: "file", Message: "file part is required"}
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
		if err != nil {
			return nil, nil, &ErrValidation{Field: "file", Message: "could not read file"}
		}

		req := &ImportRequest{
			Filename: header.Filename,
			Commit:   r.FormValue("commit") == "true",
		}
		if m := r.FormValue("mapping"); m != "" {
			if err := json.Unmarshal([]byte(m), &req.Mapping); err != nil {
				return nil, nil, &ErrValidation{Field: "mapping", Message: "invalid mapping JSON"}
			}
		}
		if sr := r.FormValue("skipRows"); sr != "" {
			if err := json.Unmarshal([]byte(sr), &req.SkipRows); err != nil {
				return nil, nil, &ErrValidation{Field: "skipRows", Message: "invalid skipRows JSON"}
			}
		}
		return req, data, nil
	}

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, nil, &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	data, err := req.fileBytes()
	if err != nil {
		return nil, nil, err
	}
	return &req, data, nil
}

// existingApplications loads stored applications for duplicate detection
func (s *Server) existingApplications(r *http.Request) []types.Application {
	if s.db == nil {
		return nil
	}
	apps, err := s.db.ListApplications(r.Context(), db.ApplicationFilters{Limit: 10000})
	if err != nil {
		log.Printf("Could not load existing applications for duplicate check: %v", err)
		return nil
	}
	return apps
}

// handleImport runs a full import and returns the result in one response
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	req, data, err := decodeImportRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := pipeline.Run(r.Context(), data, pipeline.Options{
		Mapping:  req.Mapping,
		Existing: s.existingApplications(r),
		SkipRows: req.skipRowSet(),
	})
	if err != nil {
		var perr *pipeline.PipelineError
		if errors.As(err, &perr) {
			s.errorResponse(w, http.StatusUnprocessableEntity, perr.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := ImportResponse{Result: result}
	if runID := s.recordImport(r, req, result); runID != uuid.Nil {
		resp.RunID = runID.String()
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleImportStream runs an import and streams progress as SSE events
func (s *Server) handleImportStream(w http.ResponseWriter, r *http.Request) {
	req, data, err := decodeImportRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := pipeline.Run(r.Context(), data, pipeline.Options{
		Mapping:  req.Mapping,
		Existing: s.existingApplications(r),
		SkipRows: req.skipRowSet(),
		OnProgress: sse.WriteProgress,
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}

	resp := ImportResponse{Result: result}
	if runID := s.recordImport(r, req, result); runID != uuid.Nil {
		resp.RunID = runID.String()
	}

	sse.WriteResult(resp) //nolint:errcheck
}

// recordImport persists the run history and, when requested, the imported
// applications. Returns uuid.Nil when no database is configured.
func (s *Server) recordImport(r *http.Request, req *ImportRequest, result *pipeline.Result) uuid.UUID {
	if s.db == nil {
		return uuid.Nil
	}

	filename := req.Filename
	if filename == "" {
		filename = "upload.csv"
	}

	runID, err := s.db.CreateImportRun(r.Context(), filename)
	if err != nil {
		log.Printf("Could not record import run: %v", err)
		return uuid.Nil
	}

	status := "completed"
	if req.Commit && len(result.Applications) > 0 {
		if err := s.db.InsertApplications(r.Context(), result.Applications); err != nil {
			log.Printf("Could not persist imported applications: %v", err)
			status = "failed"
		}
	}

	if err := s.db.CompleteImportRun(r.Context(), runID, status, result.Summary); err != nil {
		log.Printf("Could not complete import run: %v", err)
	}
	return runID
}

// handleListImports returns recent import runs
func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	if !s.requireStorage(w) {
		return
	}

	runs, err := s.db.ListImportRuns(r.Context(), 50)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if runs == nil {
		runs = []db.ImportRun{}
	}
	s.jsonResponse(w, http.StatusOK, runs)
}

// handleGetImport returns a single import run by ID
func (s *Server) handleGetImport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStorage(w) {
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return
	}

	run, err := s.db.GetImportRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Import run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleTemplate serves the downloadable CSV template
func (s *Server) handleTemplate(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="application-template.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(mapping.GenerateTemplate())); err != nil {
		log.Printf("Error writing template: %v", err)
	}
}
