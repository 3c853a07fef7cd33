package api

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// writeJSON encodes v to a buffer first to prevent partial writes, then
// sends it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("api: failed to encode response: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("api: failed to write response: %v", err)
	}
}

// pathID extracts the trailing path segment after prefix, e.g. the message
// ID in /email/summary/{id}. Returns "" when the segment is missing.
func pathID(r *http.Request, prefix string) string {
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == r.URL.Path {
		return ""
	}
	return strings.Trim(id, "/")
}
