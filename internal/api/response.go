package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// statusFor maps a service error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotAvailable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).
			Str("request_id", RequestID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

// decodeJSON reads a request body. Unknown fields such as a client-supplied
// id are ignored.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalidf("invalid JSON body: %v", err)
	}
	return nil
}

// callerID reads the acting user's id from the identity header.
func (s *HTTPServer) callerID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(s.userHeader))
	if raw == "" {
		return 0, domain.Invalidf("header %s is required", s.userHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.Invalidf("header %s must be a number", s.userHeader)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, domain.Invalidf("%s must be a number", name)
	}
	return id, nil
}

// pageParams parses from/size. size defaults to the configured page size and
// may not exceed the configured maximum.
func (s *HTTPServer) pageParams(r *http.Request) (models.Page, error) {
	q := r.URL.Query()

	from := 0
	if raw := q.Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return models.Page{}, domain.Invalidf("from must be a non-negative number")
		}
		from = v
	}

	size := s.cfg.Pagination.DefaultSize
	if raw := q.Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return models.Page{}, domain.Invalidf("size must be a positive number")
		}
		size = v
	}
	if size > s.cfg.Pagination.MaxSize {
		return models.Page{}, domain.Invalidf("size must not exceed %d", s.cfg.Pagination.MaxSize)
	}

	return models.PageFrom(from, size), nil
}
