package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

// SSEWriter streams import events to a client as Server-Sent Events. A
// stream carries zero or more progress events followed by exactly one
// terminal event: result on success, error on failure.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends a named event with a JSON payload
func (s *SSEWriter) WriteEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteProgress sends one pipeline progress event
func (s *SSEWriter) WriteProgress(event types.ImportProgress) {
	s.WriteEvent("progress", event) //nolint:errcheck
}

// WriteResult sends the terminal result event
func (s *SSEWriter) WriteResult(resp ImportResponse) error {
	return s.WriteEvent("result", resp)
}

// WriteError sends the terminal error event
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent("error", map[string]string{"error": message}) //nolint:errcheck
}
