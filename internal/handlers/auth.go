// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"topichub/internal/auth"
	"topichub/internal/middleware"
	"topichub/internal/models"
	"topichub/internal/notice"
	"topichub/internal/render"
	"topichub/internal/session"
)

const (
	// nonceCookieName binds a Google sign-in attempt to the browser that
	// started it.
	nonceCookieName = "th_oauth_nonce"

	// oauthFailedPath is where a failed Google sign-in lands.
	oauthFailedPath = "/sign-in?error=oauth"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	auth     AuthService
	sessions SessionManager
	baseURL  string
	secure   bool
}

// NewAuth creates a new Auth handler group. baseURL is the public site
// origin used for post-OAuth redirects; secure marks cookies Secure.
func NewAuth(svc AuthService, sessions SessionManager, baseURL string, secure bool) *Auth {
	return &Auth{auth: svc, sessions: sessions, baseURL: baseURL, secure: secure}
}

// SignUp registers an email account.
func (a *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var in auth.SignUpInput
	if err := render.Decode(w, r, &in, maxAuthBody); err != nil {
		render.Message(w, r, http.StatusBadRequest, notice.LevelWarning, notice.BadRequest)
		return
	}

	u, err := a.auth.SignUp(r.Context(), in)
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		render.JSON(w, http.StatusUnprocessableEntity, render.Envelope{
			Notice: render.Note(r, notice.LevelWarning, notice.SignUpInvalid),
			Errors: fieldMessages(notice.FromRequest(r), verr),
		})
	case errors.Is(err, auth.ErrAgreementsRequired):
		render.Message(w, r, http.StatusUnprocessableEntity, notice.LevelWarning, notice.SignUpAgreements)
	case errors.Is(err, auth.ErrAlreadyRegistered):
		render.Message(w, r, http.StatusConflict, notice.LevelWarning, notice.AlreadyRegistered)
	case err != nil:
		slog.Error("sign up failed", "error", err)
		render.Message(w, r, http.StatusInternalServerError, notice.LevelError, notice.SignUpFailed)
	default:
		render.JSON(w, http.StatusCreated, render.Envelope{
			Data:     identityOf(u),
			Notice:   render.Note(r, notice.LevelSuccess, notice.SignUpDone),
			Redirect: "/sign-in",
		})
	}
}

// SignIn checks email credentials and starts a session.
func (a *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	var in auth.SignInInput
	if err := render.Decode(w, r, &in, maxAuthBody); err != nil {
		render.Message(w, r, http.StatusBadRequest, notice.LevelWarning, notice.BadRequest)
		return
	}

	u, err := a.auth.SignIn(r.Context(), in)
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		render.JSON(w, http.StatusUnprocessableEntity, render.Envelope{
			Notice: render.Note(r, notice.LevelWarning, notice.SignInInvalid),
			Errors: fieldMessages(notice.FromRequest(r), verr),
		})
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		render.Message(w, r, http.StatusUnauthorized, notice.LevelWarning, notice.InvalidCredentials)
		return
	case err != nil:
		slog.Error("sign in failed", "error", err)
		render.Message(w, r, http.StatusInternalServerError, notice.LevelError, notice.SignInFailed)
		return
	}

	if err := a.startSession(w, r, u); err != nil {
		render.Message(w, r, http.StatusInternalServerError, notice.LevelError, notice.SignInFailed)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{
		Data:     identityOf(u),
		Notice:   render.Note(r, notice.LevelSuccess, notice.SignInDone),
		Redirect: "/",
	})
}

func (a *Auth) startSession(w http.ResponseWriter, r *http.Request, u *models.User) error {
	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
	})
	if err != nil {
		slog.Error("session create failed", "user_id", u.ID, "error", err)
	}
	return err
}

// SignOut ends the session. It succeeds whether or not one exists.
func (a *Auth) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	render.JSON(w, http.StatusOK, render.Envelope{
		Notice:   render.Note(r, notice.LevelInfo, notice.SignedOut),
		Redirect: "/",
	})
}

// Session returns the current identity, or null when signed out. The CSRF
// token is echoed in a header for clients that cannot read the cookie.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) {
	if token := middleware.CSRFTokenFromCtx(r.Context()); token != "" {
		w.Header().Set(middleware.CSRFHeaderName, token)
	}
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		render.Data(w, nil)
		return
	}
	render.Data(w, identity{ID: sess.UserID, Email: sess.Email, Role: sess.Role})
}

// Google redirects to Google's consent screen.
func (a *Auth) Google(w http.ResponseWriter, r *http.Request) {
	authURL, nonce, err := a.auth.GoogleAuthURL()
	if err != nil {
		if !errors.Is(err, auth.ErrOAuthUnavailable) {
			slog.Error("google auth url failed", "error", err)
		}
		http.Redirect(w, r, a.baseURL+oauthFailedPath, http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     nonceCookieName,
		Value:    nonce,
		Path:     "/auth/callback",
		MaxAge:   int(auth.StateTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback completes the Google flow, starts a session and sends the
// browser to the feed.
func (a *Auth) Callback(w http.ResponseWriter, r *http.Request) {
	nonce := ""
	if c, err := r.Cookie(nonceCookieName); err == nil {
		nonce = c.Value
	}
	http.SetCookie(w, &http.Cookie{
		Name:     nonceCookieName,
		Value:    "",
		Path:     "/auth/callback",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})

	q := r.URL.Query()
	if reason := q.Get("error"); reason != "" {
		slog.Info("google sign-in declined", "reason", reason)
		http.Redirect(w, r, a.baseURL+oauthFailedPath, http.StatusFound)
		return
	}

	u, err := a.auth.SignInWithGoogle(r.Context(), q.Get("code"), q.Get("state"), nonce)
	if err != nil {
		slog.Warn("google sign-in failed", "error", err)
		http.Redirect(w, r, a.baseURL+oauthFailedPath, http.StatusFound)
		return
	}

	if err := a.startSession(w, r, u); err != nil {
		http.Redirect(w, r, a.baseURL+oauthFailedPath, http.StatusFound)
		return
	}
	http.Redirect(w, r, a.baseURL+"/", http.StatusFound)
}
