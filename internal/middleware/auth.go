// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"topichub/internal/models"
	"topichub/internal/notice"
	"topichub/internal/render"
	"topichub/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// SessionStore is the part of *session.Store the middleware uses.
type SessionStore interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
	Update(ctx context.Context, r *http.Request, data *session.Data) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// UserLookup finds the live user record. *store.UserStore satisfies it.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// LoadSession restores the identity from the cached session and stores it
// in the request context; downstream handlers read it via SessionFromCtx.
// It does not enforce authentication.
//
// A session last verified more than interval ago is reconciled with the
// users table: a deleted user ends the session, a changed email or role is
// written back. If the lookup fails the cached identity is kept.
func LoadSession(store SessionStore, users UserLookup, interval time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session load failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if data != nil && users != nil && data.NeedsReconcile(time.Now(), interval) {
				data = reconcile(w, r, store, users, data)
			}

			if data != nil {
				r = r.WithContext(context.WithValue(r.Context(), SessionKey, data))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// reconcile refreshes data from the users table. It returns nil when the
// session was ended.
func reconcile(w http.ResponseWriter, r *http.Request, store SessionStore, users UserLookup, data *session.Data) *session.Data {
	ctx := r.Context()
	u, err := users.FindByID(ctx, data.UserID)
	if err != nil {
		slog.Warn("session reconcile failed, keeping cached identity", "user_id", data.UserID, "error", err)
		return data
	}

	if u == nil {
		if err := store.Destroy(ctx, w, r); err != nil {
			slog.Warn("destroy stale session", "user_id", data.UserID, "error", err)
		}
		slog.Info("session ended for deleted user", "user_id", data.UserID)
		return nil
	}

	data.Email = u.Email
	data.Role = string(u.Role)
	data.VerifiedAt = time.Now()
	if err := store.Update(ctx, r, data); err != nil {
		slog.Warn("session refresh failed", "user_id", data.UserID, "error", err)
	}
	return data
}

// RequireAuth answers 401 with a login notice when no session is loaded.
// Must be applied after LoadSession in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromCtx(r.Context()) == nil {
			render.JSON(w, http.StatusUnauthorized, render.Envelope{
				Notice:   render.Note(r, notice.LevelWarning, notice.LoginRequired),
				Redirect: "/sign-in",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// ViewerID returns the signed-in user's ID, or uuid.Nil for anonymous
// requests.
func ViewerID(ctx context.Context) uuid.UUID {
	if data := SessionFromCtx(ctx); data != nil {
		return data.UserID
	}
	return uuid.Nil
}
