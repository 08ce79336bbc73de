// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"mime"
	"net/http"

	"topichub/internal/notice"
	"topichub/internal/render"
)

const (
	// csrfTokenLength is the byte length of CSRF tokens (32 bytes = 64 hex chars).
	csrfTokenLength = 32

	// CSRFCookieName is the cookie that holds the CSRF token.
	CSRFCookieName = "th_csrf"

	// CSRFHeaderName is the header the client echoes the token in.
	CSRFHeaderName = "X-CSRF-Token"

	// CSRFFormField is the form field checked when the header is absent.
	CSRFFormField = "csrf_token"

	// maxCSRFFormBody bounds the urlencoded body read to find CSRFFormField.
	maxCSRFFormBody = 1 << 20
)

// csrfCtxKey carries the token for handlers that return it to the client.
const csrfCtxKey contextKey = "csrf_token"

// NewCSRF provides double-submit cookie protection. It issues a token
// cookie readable by the client and requires state-changing requests (POST,
// PUT, PATCH, DELETE) to echo it in the X-CSRF-Token header or csrf_token
// field. secure marks the cookie Secure.
func NewCSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CSRFCookieName)
			if err != nil || cookie.Value == "" {
				token, err := generateCSRFToken()
				if err != nil {
					render.Message(w, r, http.StatusInternalServerError, notice.LevelError, notice.Internal)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false, // the client reads it to set the header
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
				cookie = &http.Cookie{Value: token}
			}
			r = r.WithContext(context.WithValue(r.Context(), csrfCtxKey, cookie.Value))

			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			submitted := r.Header.Get(CSRFHeaderName)
			if submitted == "" {
				submitted = formToken(w, r)
			}

			if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(submitted)) != 1 {
				render.Message(w, r, http.StatusForbidden, notice.LevelError, notice.InvalidCSRF)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// formToken reads CSRFFormField from a bounded urlencoded body or the query
// string. Multipart bodies are never parsed here; they must use the header.
func formToken(w http.ResponseWriter, r *http.Request) string {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, maxCSRFFormBody)
		return r.FormValue(CSRFFormField)
	}
	return r.URL.Query().Get(CSRFFormField)
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

// CSRFTokenFromCtx returns the token NewCSRF stored in the context, or ""
// when the middleware did not run.
func CSRFTokenFromCtx(ctx context.Context) string {
	token, _ := ctx.Value(csrfCtxKey).(string)
	return token
}

// generateCSRFToken creates a cryptographically random token.
func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
