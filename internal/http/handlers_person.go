package http

import (
	"net/http"

	"gastos/internal/core"
)

func (s *Server) handleListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := s.deps.Persons.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, persons)
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req core.CreatePersonRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	person, err := s.deps.Persons.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, person)
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := s.deps.Persons.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
