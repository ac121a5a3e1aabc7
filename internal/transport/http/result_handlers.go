package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quiz-results-service/internal/domain"
)

func decodeJSON(r *http.Request, dst any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	return json.NewDecoder(r.Body).Decode(dst)
}

// GET /results
func (h *Handlers) listResults(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())
	limit, offset := pageParams(r)
	results, total, err := h.results.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if results == nil {
		results = []domain.QuizResult{}
	}
	writeJSON(w, http.StatusOK, paginated[domain.QuizResult]{Count: total, Results: results})
}

// POST /results {quiz}
func (h *Handlers) createResult(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())
	var req struct {
		Quiz string `json:"quiz"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Quiz == "" {
		writeError(w, http.StatusBadRequest, "quiz is required")
		return
	}
	res, err := h.results.Start(r.Context(), userID, req.Quiz)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// GET /results/{resultID}
func (h *Handlers) getResult(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())
	res, err := h.results.Get(r.Context(), userID, chi.URLParam(r, "resultID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// PATCH /results/{resultID} {is_finished}
func (h *Handlers) patchResult(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())
	var req struct {
		IsFinished *bool `json:"is_finished"`
	}
	if err := decodeJSON(r, &req); err != nil || req.IsFinished == nil {
		writeError(w, http.StatusBadRequest, "is_finished is required")
		return
	}
	res, err := h.results.Finalize(r.Context(), userID, chi.URLParam(r, "resultID"), *req.IsFinished)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /results/{resultID}/last-question
func (h *Handlers) lastQuestion(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())
	questionID, ok, err := h.results.LastQuestion(r.Context(), userID, chi.URLParam(r, "resultID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var body struct {
		LastQuestionID *string `json:"last_question_id"`
	}
	if ok {
		body.LastQuestionID = &questionID
	}
	writeJSON(w, http.StatusOK, body)
}

// POST /question-results {question, quiz(=result id), options:[{option}]}
func (h *Handlers) createQuestionResult(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())
	var req struct {
		Question string `json:"question"`
		Quiz     string `json:"quiz"`
		Options  []struct {
			Option string `json:"option"`
		} `json:"options"`
	}
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if req.Question == "" || req.Quiz == "" {
		writeError(w, http.StatusBadRequest, "question and quiz are required")
		return
	}
	optionIDs := make([]string, 0, len(req.Options))
	for _, o := range req.Options {
		optionIDs = append(optionIDs, o.Option)
	}
	qr, err := h.results.RecordAnswer(r.Context(), userID, req.Quiz, req.Question, optionIDs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, qr)
}
