package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/secure-notes/internal/application"
)

// Handler is the HTTP adapter entrypoint.
// Keeping only the application dependency here preserves adapter boundaries.
type Handler struct {
	service *application.Service
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers routes and the middleware stack.
// Centralizing routes here keeps auth gating and error behavior consistent.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(handler.loggingMiddleware)

	r.Get("/health", handler.health)
	r.Get("/metrics", handler.metrics)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", handler.register)
		r.Post("/login", handler.login)
		r.Post("/logout", handler.logout)

		r.Group(func(r chi.Router) {
			r.Use(handler.sessionAuthMiddleware)
			r.Get("/login-history", handler.loginHistory)
			r.Get("/notes", handler.listNotes)
			r.Post("/notes", handler.createNote)
			r.Put("/notes/{id}", handler.updateNote)
			r.Delete("/notes/{id}", handler.deleteNote)
		})
	})

	return r
}
