package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankcore/internal/adapter/http/dto"
	"github.com/iho/bankcore/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError classifies err and writes the structured error body.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapDomainError(err), dto.NewErrorResponse(err))
}

// writeBadRequest reports a malformed request.
func writeBadRequest(w http.ResponseWriter, format string, args ...any) {
	writeError(w, fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidOperation}, args...)...))
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch domain.KindOf(err) {
	case domain.KindAccountNotFound, domain.KindEntryNotFound:
		return http.StatusNotFound
	case domain.KindInvalidAmount, domain.KindInvalidOperation, domain.KindPolicyViolation:
		return http.StatusBadRequest
	case domain.KindInactiveAccount, domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v, reporting a bad request on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid request body: %v", err)
		return false
	}
	return true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseTimeQuery parses an RFC3339 timestamp or a YYYY-MM-DD date. A
// missing parameter yields nil.
func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, val); err == nil {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("%w: %s must be RFC3339 or YYYY-MM-DD, got %q", domain.ErrInvalidOperation, key, val)
}

// parseBoolQuery parses an optional boolean query parameter.
func parseBoolQuery(r *http.Request, key string) (*bool, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean, got %q", domain.ErrInvalidOperation, key, val)
	}

	return &b, nil
}

func accountNumberParam(r *http.Request) string {
	return chi.URLParam(r, "number")
}
