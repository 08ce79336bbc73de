// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"

	"topichub/internal/models"
	"topichub/internal/notice"
	"topichub/internal/render"
)

// Check probes one backend for the health endpoint.
type Check func(ctx context.Context) error

// healthTimeout bounds all checks of one health request.
const healthTimeout = 2 * time.Second

// Public groups the endpoints that need no session: health, the category
// set and the single-page client.
type Public struct {
	checks  map[string]Check
	webRoot string
}

// NewPublic creates a new Public handler group. checks may be empty, in
// which case /health only reports liveness. An empty webRoot disables SPA
// serving.
func NewPublic(checks map[string]Check, webRoot string) *Public {
	return &Public{checks: checks, webRoot: webRoot}
}

// Health reports "ok", or 503 naming the failed backends.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	var failed []string
	for name, check := range p.checks {
		if err := check(ctx); err != nil {
			slog.Warn("health check failed", "backend", name, "error", err)
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		render.JSON(w, http.StatusServiceUnavailable, render.Envelope{
			Data: map[string]any{"status": "degraded", "failed": failed},
		})
		return
	}
	render.Data(w, map[string]string{"status": "ok"})
}

type categoryView struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Categories lists the filter options with labels in the request language.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	base, _ := notice.FromRequest(r).Base()
	englishBase, _ := language.English.Base()
	english := base == englishBase

	out := make([]categoryView, 0, len(models.Categories))
	for _, c := range models.Categories {
		label := c.LabelKO
		if english {
			label = c.LabelEN
		}
		out = append(out, categoryView{Value: c.Value, Label: label})
	}
	render.Data(w, out)
}

// Assets serves the client bundle under /assets/.
func (p *Public) Assets() http.Handler {
	if p.webRoot == "" {
		return http.NotFoundHandler()
	}
	return http.StripPrefix("/assets/", http.FileServer(http.Dir(filepath.Join(p.webRoot, "assets"))))
}

// SPA serves index.html for a client route. The client decides what to
// render from the URL.
func (p *Public) SPA(w http.ResponseWriter, r *http.Request) {
	if p.webRoot == "" || strings.HasPrefix(r.URL.Path, "/api/") {
		p.NotFound(w, r)
		return
	}
	index := filepath.Join(p.webRoot, "index.html")
	if _, err := os.Stat(index); err != nil {
		slog.Error("client bundle missing", "path", index, "error", err)
		p.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, index)
}

// NotFound is the JSON 404 for unrouted paths.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	render.Message(w, r, http.StatusNotFound, notice.LevelError, notice.NotFound)
}
