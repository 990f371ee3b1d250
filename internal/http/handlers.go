package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"gastos/internal/services"
)

const readyTimeout = 3 * time.Second

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady pings every configured dependency
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	names := make([]string, 0, len(s.deps.Checks))
	for name := range s.deps.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status, code := "ready", http.StatusOK
	checks := make(map[string]string, len(names))
	for _, name := range names {
		dep := s.deps.Checks[name]
		if dep == nil {
			checks[name] = "disabled"
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			checks[name] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	writeJSON(w, r, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
		"rate_limiter": map[string]any{
			"active_clients": s.limiter.ActiveClients(),
			"rejected":       s.limiter.Rejected(),
		},
		"requests": map[string]any{
			"total":         s.tracer.GetMetrics().TotalRequests,
			"server_errors": s.tracer.GetMetrics().ServerErrors,
			"suspicious":    s.detector.GetMetrics().SuspiciousRequests,
		},
	})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", services.DefaultActivityLimit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	entries, err := s.deps.Activity.Recent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entries)
}
