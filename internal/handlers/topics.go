// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"topichub/internal/middleware"
	"topichub/internal/notice"
	"topichub/internal/render"
	"topichub/internal/topic"
)

// Topics groups the feed and editor endpoints.
type Topics struct {
	topics TopicService
}

// NewTopics creates a new Topics handler group.
func NewTopics(topics TopicService) *Topics {
	return &Topics{topics: topics}
}

// List serves the published feed filtered by ?q= and ?category=. An empty
// result is a 200 with an informational notice.
func (h *Topics) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.topics.ListPublished(r.Context(), topic.Filter{
		Search:   q.Get("q"),
		Category: q.Get("category"),
	})
	if errors.Is(err, topic.ErrInvalidCategory) {
		render.Message(w, r, http.StatusBadRequest, notice.LevelWarning, notice.FeedInvalidCategory)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}

	env := render.Envelope{Data: items}
	if len(items) == 0 {
		env.Notice = render.Note(r, notice.LevelInfo, notice.FeedEmpty)
	}
	render.JSON(w, http.StatusOK, env)
}

// Create inserts a blank draft and points the client at its editor.
func (h *Topics) Create(w http.ResponseWriter, r *http.Request) {
	t, err := h.topics.CreateDraft(r.Context(), middleware.ViewerID(r.Context()))
	if err != nil {
		topicError(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, render.Envelope{
		Data:     t,
		Notice:   render.Note(r, notice.LevelSuccess, notice.TopicCreated),
		Redirect: fmt.Sprintf("/topic/%d/create", t.ID),
	})
}

// Get serves one topic with the viewer's delete permission.
func (h *Topics) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := topicID(r)
	if !ok {
		topicError(w, r, topic.ErrNotFound)
		return
	}
	d, err := h.topics.Get(r.Context(), middleware.ViewerID(r.Context()), id)
	if err != nil {
		topicError(w, r, err)
		return
	}
	render.Data(w, d)
}

// SaveDraft stores the editor state as a draft.
func (h *Topics) SaveDraft(w http.ResponseWriter, r *http.Request) {
	id, draft, ok := h.readWrite(w, r)
	if !ok {
		return
	}
	t, err := h.topics.Save(r.Context(), middleware.ViewerID(r.Context()), id, draft)
	if err != nil {
		topicError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{
		Data:   t,
		Notice: render.Note(r, notice.LevelSuccess, notice.TopicSaved),
	})
}

// Publish stores the editor state as a published topic and sends the
// client back to the feed.
func (h *Topics) Publish(w http.ResponseWriter, r *http.Request) {
	id, draft, ok := h.readWrite(w, r)
	if !ok {
		return
	}
	t, err := h.topics.Publish(r.Context(), middleware.ViewerID(r.Context()), id, draft)
	if err != nil {
		topicError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{
		Data:     t,
		Notice:   render.Note(r, notice.LevelSuccess, notice.TopicPublished),
		Redirect: "/",
	})
}

func (h *Topics) readWrite(w http.ResponseWriter, r *http.Request) (int64, topic.Draft, bool) {
	id, ok := topicID(r)
	if !ok {
		topicError(w, r, topic.ErrNotFound)
		return 0, topic.Draft{}, false
	}
	draft, err := readDraft(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			topicError(w, r, topic.ErrInvalidThumbnail)
		} else {
			render.Message(w, r, http.StatusBadRequest, notice.LevelWarning, notice.BadRequest)
		}
		return 0, topic.Draft{}, false
	}
	return id, draft, true
}

// Delete removes the viewer's topic. The request must carry confirm=true;
// without it the client is asked to confirm and nothing is deleted.
func (h *Topics) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := topicID(r)
	if !ok {
		topicError(w, r, topic.ErrNotFound)
		return
	}
	if r.URL.Query().Get("confirm") != "true" {
		render.Message(w, r, http.StatusPreconditionRequired, notice.LevelWarning, notice.TopicDeleteConfirm)
		return
	}

	if err := h.topics.Delete(r.Context(), middleware.ViewerID(r.Context()), id); err != nil {
		topicError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, render.Envelope{
		Notice:   render.Note(r, notice.LevelSuccess, notice.TopicDeleted),
		Redirect: "/",
	})
}
