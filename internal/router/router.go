// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for
// topichub. It organizes routes into the JSON API, the OAuth callback and
// the client routes served by the single-page app.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"topichub/internal/handlers"
	"topichub/internal/middleware"
)

// Options tunes the middleware chain.
type Options struct {
	// Secure marks cookies Secure and enables HSTS.
	Secure bool
	// ReconcileInterval is how often a session is re-checked against the
	// user store.
	ReconcileInterval time.Duration
	// AuthLimiter throttles sign-up and sign-in. Nil disables throttling.
	AuthLimiter *middleware.RateLimiter
}

// Handlers bundles the handler groups the router dispatches to.
type Handlers struct {
	Topics *handlers.Topics
	Auth   *handlers.Auth
	Users  *handlers.Users
	Public *handlers.Public
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. users may be nil to skip session reconcile.
func New(sessions middleware.SessionStore, users middleware.UserLookup, opts Options, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(opts.Secure))
	r.Use(middleware.LoadSession(sessions, users, opts.ReconcileInterval))

	r.NotFound(h.Public.NotFound)

	// Health check: no CSRF.
	r.Get("/health", h.Public.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.Secure))

		r.Get("/categories", h.Public.Categories)

		r.Route("/topics", func(r chi.Router) {
			r.Get("/", h.Topics.List)
			r.Get("/{topic_id}", h.Topics.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", h.Topics.Create)
				r.Put("/{topic_id}/draft", h.Topics.SaveDraft)
				r.Post("/{topic_id}/publish", h.Topics.Publish)
				r.Delete("/{topic_id}", h.Topics.Delete)
			})
		})

		r.Route("/users/{user_id}", func(r chi.Router) {
			r.Get("/profile", h.Users.Profile)
			r.With(middleware.RequireAuth).Get("/drafts", h.Users.Drafts)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if opts.AuthLimiter != nil {
					r.Use(opts.AuthLimiter.Middleware)
				}
				r.Post("/sign-up", h.Auth.SignUp)
				r.Post("/sign-in", h.Auth.SignIn)
			})
			r.Post("/sign-out", h.Auth.SignOut)
			r.Get("/session", h.Auth.Session)
			r.Get("/google", h.Auth.Google)
		})
	})

	// The provider redirects the browser here; state and nonce replace CSRF.
	r.Get("/auth/callback", h.Auth.Callback)

	// Client routes, all rendered by the single-page app.
	r.Handle("/assets/*", h.Public.Assets())
	for _, path := range []string{
		"/",
		"/sign-up",
		"/sign-in",
		"/user/{user_id}/profile",
		"/topic/{topic_id}",
		"/topic/{topic_id}/create",
		"/topic/{topic_id}/edit",
	} {
		r.Get(path, h.Public.SPA)
	}

	return r
}
