// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render writes JSON API responses. Every response uses the same
// envelope so the client can show the notice and follow the redirect
// without knowing which endpoint it called.
package render

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"topichub/internal/notice"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Data     any               `json:"data"`
	Notice   *notice.Notice    `json:"notice,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
}

// JSON writes env with the given status.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// Data writes a 200 response carrying data and no notice.
func Data(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Data: data})
}

// Note builds a notice in the language of r.
func Note(r *http.Request, level notice.Level, code string, args ...any) *notice.Notice {
	return notice.New(notice.FromRequest(r), level, code, args...)
}

// Message writes a response whose only content is a notice.
func Message(w http.ResponseWriter, r *http.Request, status int, level notice.Level, code string, args ...any) {
	JSON(w, status, Envelope{Notice: Note(r, level, code, args...)})
}

// Decode reads a JSON request body into v, rejecting unknown fields and
// bodies over maxBytes.
func Decode(w http.ResponseWriter, r *http.Request, v any, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
