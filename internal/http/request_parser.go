// Package http exposes the household finance API over JSON.
//
// This file holds the helpers shared by handlers for reading path
// parameters, query strings and JSON bodies.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"gastos/internal/core"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads exactly one JSON object from the body into dst. Unknown
// fields, trailing data and oversized bodies are rejected as invalid input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is empty", core.ErrInvalidInput)
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: request body exceeds %d bytes", core.ErrInvalidInput, maxErr.Limit)
		case core.IsValidation(err):
			return err
		default:
			return fmt.Errorf("%w: malformed JSON: %s", core.ErrInvalidInput, err.Error())
		}
	}

	if dec.More() {
		return fmt.Errorf("%w: request body must contain a single JSON object", core.ErrInvalidInput)
	}
	return nil
}

// pathID parses a positive integer route parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", core.ErrInvalidInput, name, raw)
	}
	return id, nil
}

// queryInt returns the named query parameter, or def when it is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", core.ErrInvalidInput, name, raw)
	}
	return v, nil
}
