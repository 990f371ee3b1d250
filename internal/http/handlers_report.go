package http

import "net/http"

func (s *Server) handlePersonReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.deps.Reports.PersonReport(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.deps.Reports.CategoryReport(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}
