package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quiz-results-service/internal/domain"
)

// optionView and questionView are the student-safe projections: correctness
// flags never leave the service.
type optionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type questionView struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Options []optionView `json:"options"`
}

type quizView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	PriceCents    int64  `json:"price_cents"`
	IsFree        bool   `json:"is_free"`
	QuestionCount int    `json:"question_count"`
}

func toQuizView(q domain.Quiz) quizView {
	return quizView{
		ID:            q.ID,
		Title:         q.Title,
		PriceCents:    q.PriceCents,
		IsFree:        q.IsFree,
		QuestionCount: len(q.Questions),
	}
}

func toQuestionViews(questions []domain.Question) []questionView {
	out := make([]questionView, 0, len(questions))
	for _, q := range questions {
		view := questionView{ID: q.ID, Text: q.Text, Options: make([]optionView, 0, len(q.Options))}
		for _, opt := range q.Options {
			view.Options = append(view.Options, optionView{ID: opt.ID, Text: opt.Text})
		}
		out = append(out, view)
	}
	return out
}

// GET /quizzes
func (h *Handlers) listQuizzes(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	quizzes, total, err := h.catalog.ListQuizzes(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	views := make([]quizView, 0, len(quizzes))
	for _, q := range quizzes {
		views = append(views, toQuizView(q))
	}
	writeJSON(w, http.StatusOK, paginated[quizView]{Count: total, Results: views})
}

// GET /quizzes/{quizID}
func (h *Handlers) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.catalog.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuizView(quiz))
}

// GET /quizzes/{quizID}/questions — gated on the purchase/free-tier check.
func (h *Handlers) getQuizQuestions(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())
	quiz, err := h.catalog.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	allowed, err := h.access.CanView(r.Context(), userID, quiz)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !allowed {
		writeDomainError(w, domain.ErrAccessDenied)
		return
	}
	writeJSON(w, http.StatusOK, toQuestionViews(quiz.Questions))
}

// POST /quizzes/{quizID}/purchase
func (h *Handlers) purchaseQuiz(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())
	purchase, err := h.access.Purchase(r.Context(), userID, chi.URLParam(r, "quizID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchase)
}

// POST /favorites {quiz}
func (h *Handlers) addFavorite(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())
	var req struct {
		Quiz string `json:"quiz"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Quiz == "" {
		writeError(w, http.StatusBadRequest, "quiz is required")
		return
	}
	a, err := h.assoc.Add(r.Context(), userID, req.Quiz, domain.AssociationFavorite)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// DELETE /favorites/{quizID}
func (h *Handlers) removeFavorite(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())
	err := h.assoc.Remove(r.Context(), userID, chi.URLParam(r, "quizID"), domain.AssociationFavorite)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /favorites
func (h *Handlers) listFavorites(w http.ResponseWriter, r *http.Request) {
	userID := UserFromContext(r.Context())
	links, err := h.assoc.List(r.Context(), userID, domain.AssociationFavorite)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}
