// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"topichub/internal/imaging"
	"topichub/internal/topic"
)

// Request size limits.
const (
	// maxAuthBody bounds the sign-up and sign-in JSON bodies.
	maxAuthBody = 16 << 10

	// maxDraftBody bounds a save or publish request: one thumbnail plus
	// the block content and the short fields.
	maxDraftBody = imaging.MaxUploadSize + topic.MaxContentBytes + 64<<10

	// maxFormMemory is how much of a multipart form is kept in memory
	// before spilling to temporary files.
	maxFormMemory = 12 << 20
)

var errBadForm = errors.New("handlers: malformed form")

// topicID reads the {topic_id} URL parameter.
func topicID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "topic_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// userID reads the {user_id} URL parameter.
func userID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "user_id"))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// readDraft parses the editor form. The body may be multipart (with an
// optional "thumbnail" file part) or URL-encoded. A field that is not sent
// at all is absent, the same as a blank one.
func readDraft(w http.ResponseWriter, r *http.Request) (topic.Draft, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDraftBody)

	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return topic.Draft{}, fmt.Errorf("%w: %w", errBadForm, err)
	}

	var d topic.Draft
	d.Title = formValue(r, topic.FieldTitle)
	d.Category = formValue(r, topic.FieldCategory)
	d.Content = formValue(r, topic.FieldContent)
	if v := formValue(r, "thumbnail_url"); v != nil {
		d.Thumbnail.URL = *v
	}

	if r.MultipartForm != nil {
		if files := r.MultipartForm.File[topic.FieldThumbnail]; len(files) > 0 {
			data, err := readPart(files[0])
			if err != nil {
				return topic.Draft{}, err
			}
			d.Thumbnail.File = data
			d.Thumbnail.Name = files[0].Filename
		}
	}
	return d, nil
}

// formValue returns the field's value, or nil when it was not sent.
func formValue(r *http.Request, key string) *string {
	values, ok := r.Form[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// readPart reads an uploaded file, allowing one byte over the limit so
// imaging can report an oversized file.
func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadForm, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, imaging.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadForm, err)
	}
	return data, nil
}
