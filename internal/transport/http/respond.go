package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"quiz-results-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps the error taxonomy onto HTTP statuses: not-found
// sentinels to 404, validation sentinels to 400, access to 403, payment to
// 402, anything else to 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrResultNotFound),
		errors.Is(err, domain.ErrAssociationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrQuizMismatch),
		errors.Is(err, domain.ErrOptionMismatch),
		errors.Is(err, domain.ErrDuplicateAnswer),
		errors.Is(err, domain.ErrAlreadyFinished),
		errors.Is(err, domain.ErrNoOptions),
		errors.Is(err, domain.ErrQuizFree):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAccessDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrPaymentDeclined):
		writeError(w, http.StatusPaymentRequired, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// paginated is the list envelope: total count plus the requested page.
type paginated[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func pageParams(r *http.Request) (limit, offset int) {
	limit = parseIntDefault(r.URL.Query().Get("limit"), 20)
	if limit > 100 {
		limit = 100
	}
	if limit <= 0 {
		limit = 20
	}
	offset = parseIntDefault(r.URL.Query().Get("offset"), 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func parseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
