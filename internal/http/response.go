package http

import (
	"encoding/json"
	"net/http"

	"gastos/internal/core"
	applog "gastos/internal/log"
	"gastos/internal/middleware/trace"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Path    string `json:"path"`
	TraceID string `json:"traceId"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentHTTP).ErrorContext(r.Context(), "Failed to encode response",
			applog.FieldError, err,
			applog.FieldPath, r.URL.Path)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, APIError{
		Status:  status,
		Message: message,
		Path:    r.URL.Path,
		TraceID: trace.GetRequestID(r.Context()),
	})
}

// writeServiceError maps a service error onto its HTTP status. Internal
// failures are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidation(err):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case core.IsNotFound(err):
		writeError(w, r, http.StatusNotFound, err.Error())
	case core.IsConflict(err):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		applog.FromContext(r.Context()).WithComponent(applog.ComponentHTTP).ErrorContext(r.Context(), "Request failed",
			applog.NewFields().
				WithError(err).
				WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "").
				ToSlice()...)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
