package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/fetch"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/server/ratelimit"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

// newTestServer builds a server without a database connection
func newTestServer() *Server {
	return &Server{
		fetcher:     fetch.NewClient(),
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
	}
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := doJSON(t, newTestServer(), "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disabled", body["storage"])
}

func TestHandleImport(t *testing.T) {
	rec := doJSON(t, newTestServer(), "POST", "/imports", ImportRequest{
		CSV: "Company,Position\nGoogle,SWE\nStripe,SRE\n",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.Applications, 2)
	assert.Equal(t, 2, resp.Result.Summary.SuccessfulRows)
	assert.Empty(t, resp.RunID, "no run is recorded without a database")
}

func TestHandleImport_MultipartUpload(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "applications.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Company,Position\nGoogle,SWE\n"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("skipRows", "[]"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/imports", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	newTestServer().routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Result.Applications, 1)
}

func TestHandleImport_MultipartMissingFilePart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("commit", "false"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/imports", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	newTestServer().routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleImport_MissingBody(t *testing.T) {
	rec := doJSON(t, newTestServer(), "POST", "/imports", ImportRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "csv or data is required")
}

func TestHandleImport_UnparseableFile(t *testing.T) {
	rec := doJSON(t, newTestServer(), "POST", "/imports", ImportRequest{
		CSV: "Company,Position\n",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleImport_InvalidBase64(t *testing.T) {
	rec := doJSON(t, newTestServer(), "POST", "/imports", ImportRequest{
		Data: "not base64!!",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleImportStream(t *testing.T) {
	rec := doJSON(t, newTestServer(), "POST", "/imports/stream", ImportRequest{
		CSV: "Company,Position\nGoogle,SWE\n",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: progress")
	assert.Contains(t, body, `"stage":"complete"`)
	assert.Contains(t, body, "event: result")

	// The result event must come after all progress events
	assert.Greater(t, strings.LastIndex(body, "event: result"), strings.LastIndex(body, "event: progress"))
}

func TestHandleImportStream_FailureEmitsErrorEvent(t *testing.T) {
	rec := doJSON(t, newTestServer(), "POST", "/imports/stream", ImportRequest{
		CSV: "Company\n",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event: error")
}

func TestHandleTemplate(t *testing.T) {
	rec := doJSON(t, newTestServer(), "GET", "/template.csv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "application-template.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2, "template has a header row and one example row")
	assert.Contains(t, lines[0], "Company")
}

func TestHandleCheckDuplicate(t *testing.T) {
	rec := doJSON(t, newTestServer(), "POST", "/applications/check-duplicate", CheckDuplicateRequest{
		Application: types.Application{Company: "Google", Position: "Software Engineer"},
		Existing: []types.Application{
			{ID: "a1", Company: "Google Inc", Position: "Software Engineer"},
			{ID: "a2", Company: "Netflix", Position: "Data Scientist"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var result map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	matches, ok := result["matches"].([]any)
	require.True(t, ok, "expected at least one match: %s", rec.Body.String())
	assert.Len(t, matches, 1)
}

func TestHandleCheckDuplicate_RequiresCompany(t *testing.T) {
	rec := doJSON(t, newTestServer(), "POST", "/applications/check-duplicate", CheckDuplicateRequest{
		Application: types.Application{Position: "SWE"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePrefill(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Platform Engineer at Acme</title></head><body><main>Go experience required.</main></body></html>`))
	}))
	defer page.Close()

	rec := doJSON(t, newTestServer(), "POST", "/applications/prefill", PrefillRequest{URL: page.URL})

	require.Equal(t, http.StatusOK, rec.Code)
	var prefill fetch.Prefill
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prefill))
	assert.Equal(t, "Platform Engineer", prefill.Position)
	assert.Equal(t, "Acme", prefill.Company)
	assert.Equal(t, page.URL, prefill.JobURL)
}

func TestHandlePrefill_RequiresURL(t *testing.T) {
	rec := doJSON(t, newTestServer(), "POST", "/applications/prefill", PrefillRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStorageEndpointsWithoutDatabase(t *testing.T) {
	s := newTestServer()

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/applications"},
		{"GET", "/imports"},
		{"DELETE", "/applications/abc"},
	}
	for _, p := range paths {
		rec := doJSON(t, s, p.method, p.path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "%s %s", p.method, p.path)
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&ErrApplicationNotFound{ID: "x"}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrValidation{Field: "f", Message: "m"}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
}
