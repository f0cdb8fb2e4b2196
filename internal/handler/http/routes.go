// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-diary-keeper/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, h.withMetrics, middleware.Recoverer)
	router.Use(middleware.Compress(5, "application/json", "text/plain"))

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/signup", h.signup)
		r.Post("/api/user/token", h.loginForm)
		r.Post("/api/user/signin", h.loginJSON)
		r.Get("/api/version", h.getServerVersion)
		if h.metrics != nil {
			r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
		}
	})

	// routes behind the auth gate
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/user/logout", h.logout)

		r.Get("/api/users/me", h.getMe)
		r.Put("/api/users/me", h.updateMe)
		r.Put("/api/users/me/password", h.changePassword)

		r.Group(func(r chi.Router) {
			r.Use(h.requireRole(models.RoleProfessor))
			r.Get("/api/users", h.listUsers)
			r.Patch("/api/users/{username}/status", h.setUserStatus)
		})

		r.Post("/api/notes", h.createNote)
		r.Get("/api/notes", h.listNotes)
		r.Get("/api/notes/search/{query}", h.searchNotes)
		r.Get("/api/notes/{id}", h.getNote)
		r.Put("/api/notes/{id}", h.updateNote)
		r.Delete("/api/notes/{id}", h.deleteNote)

		r.Get("/api/attachments", h.getAttachment)
	})

	router.NotFound(notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
