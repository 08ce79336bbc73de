// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"topichub/internal/middleware"
	"topichub/internal/notice"
	"topichub/internal/render"
	"topichub/internal/topic"
)

// Users groups the profile endpoints.
type Users struct {
	users  UserFinder
	topics TopicService
}

// NewUsers creates a new Users handler group.
func NewUsers(users UserFinder, topics TopicService) *Users {
	return &Users{users: users, topics: topics}
}

type profile struct {
	ID             uuid.UUID `json:"id"`
	JoinedAt       time.Time `json:"joined_at"`
	PublishedCount int       `json:"published_count"`
}

// Profile serves the public profile of a user.
func (h *Users) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		render.Message(w, r, http.StatusNotFound, notice.LevelError, notice.UserNotFound)
		return
	}

	u, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if u == nil {
		render.Message(w, r, http.StatusNotFound, notice.LevelError, notice.UserNotFound)
		return
	}

	count, err := h.topics.PublishedCount(r.Context(), id)
	if err != nil {
		internalError(w, r, err)
		return
	}
	render.Data(w, profile{ID: u.ID, JoinedAt: u.CreatedAt, PublishedCount: count})
}

// Drafts lists the signed-in user's own drafts.
func (h *Users) Drafts(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		render.Message(w, r, http.StatusNotFound, notice.LevelError, notice.UserNotFound)
		return
	}

	drafts, err := h.topics.Drafts(r.Context(), middleware.ViewerID(r.Context()), id)
	if errors.Is(err, topic.ErrForbidden) {
		render.Message(w, r, http.StatusForbidden, notice.LevelError, notice.ProfileForbidden)
		return
	}
	if err != nil {
		topicError(w, r, err)
		return
	}
	render.Data(w, drafts)
}
