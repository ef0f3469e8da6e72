package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/creerlio/talentbank/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps err onto the status taxonomy. Collaborator failures are
// logged here and reported to the client without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path, "status", status)
	}
	writeJSON(w, status, map[string]string{"error": apperr.PublicMessage(err)})
}

// requestOrigin is the scheme and host the client used to reach us
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	if r.Host == "" {
		return ""
	}
	return scheme + "://" + r.Host
}

// NotFound is the JSON fallback for unknown routes
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
}
