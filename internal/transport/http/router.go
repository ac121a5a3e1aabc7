package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"quiz-results-service/internal/app"
)

// Handlers bundles the use-case services behind the REST surface.
type Handlers struct {
	results *app.ResultService
	access  *app.AccessService
	assoc   *app.AssociationService
	catalog app.CatalogRepository
	feed    *app.ProgressFeed
	auth    *Authenticator
}

func NewHandlers(results *app.ResultService, access *app.AccessService, assoc *app.AssociationService, catalog app.CatalogRepository, feed *app.ProgressFeed, auth *Authenticator) *Handlers {
	return &Handlers{results: results, access: access, assoc: assoc, catalog: catalog, feed: feed, auth: auth}
}

// NewRouter wires the API surface. Catalog browsing is open to anonymous
// callers; everything user-scoped sits behind the bearer check.
func (h *Handlers) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Get("/quizzes", h.listQuizzes)
	r.Get("/quizzes/{quizID}", h.getQuiz)

	r.Group(func(pr chi.Router) {
		pr.Use(h.auth.RequireUser)

		pr.Get("/quizzes/{quizID}/questions", h.getQuizQuestions)
		pr.Post("/quizzes/{quizID}/purchase", h.purchaseQuiz)

		pr.Get("/results", h.listResults)
		pr.Post("/results", h.createResult)
		pr.Get("/results/{resultID}", h.getResult)
		pr.Patch("/results/{resultID}", h.patchResult)
		pr.Get("/results/{resultID}/last-question", h.lastQuestion)
		pr.Get("/results/{resultID}/live", h.serveLive)

		pr.Post("/question-results", h.createQuestionResult)

		pr.Post("/favorites", h.addFavorite)
		pr.Delete("/favorites/{quizID}", h.removeFavorite)
		pr.Get("/favorites", h.listFavorites)
	})

	return r
}
