// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package topic

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"topichub/internal/models"
)

const (
	// MaxTitleRunes bounds the topic title.
	MaxTitleRunes = 300

	// MaxContentBytes bounds the serialized block tree.
	MaxContentBytes = 1 << 20

	// ExcerptLength is the number of characters shown on feed cards.
	ExcerptLength = 200
)

// Field names used in IncompleteError and validation responses.
const (
	FieldTitle     = "title"
	FieldCategory  = "category"
	FieldThumbnail = "thumbnail"
	FieldContent   = "content"
)

// Thumbnail is the image input of a save or publish. At most one of File
// and URL is used; File wins when both are set.
type Thumbnail struct {
	// File holds a newly chosen image to upload.
	File []byte
	// Name is the client's file name, used only for logging.
	Name string
	// URL is a previously uploaded thumbnail reused unchanged.
	URL string
}

func (t Thumbnail) present() bool {
	return len(t.File) > 0 || t.URL != ""
}

// Draft is the full editor state sent on every save or publish. Nil or
// blank fields are absent and stored as NULL.
type Draft struct {
	Title     *string
	Category  *string
	Content   *string
	Thumbnail Thumbnail
}

// normalize trims the short text fields and turns blank values into nil.
func (d Draft) normalize() Draft {
	d.Title = trimmed(d.Title)
	d.Category = trimmed(d.Category)
	if d.Content != nil && strings.TrimSpace(*d.Content) == "" {
		d.Content = nil
	}
	d.Thumbnail.URL = strings.TrimSpace(d.Thumbnail.URL)
	return d
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// empty reports whether no field is present.
func (d Draft) empty() bool {
	return d.Title == nil && d.Category == nil && d.Content == nil && !d.Thumbnail.present()
}

// missing lists the absent fields in form order.
func (d Draft) missing() []string {
	var m []string
	if d.Title == nil {
		m = append(m, FieldTitle)
	}
	if d.Category == nil {
		m = append(m, FieldCategory)
	}
	if !d.Thumbnail.present() {
		m = append(m, FieldThumbnail)
	}
	if d.Content == nil {
		m = append(m, FieldContent)
	}
	return m
}

// validate checks the fields that can be judged without the stored topic.
func (d Draft) validate() error {
	if d.Category != nil && !models.IsCategory(*d.Category) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, *d.Category)
	}
	if d.Title != nil && utf8.RuneCountInString(*d.Title) > MaxTitleRunes {
		return fmt.Errorf("%w: more than %d characters", ErrTitleTooLong, MaxTitleRunes)
	}
	if d.Content != nil {
		if len(*d.Content) > MaxContentBytes {
			return fmt.Errorf("%w: %d bytes", ErrContentTooLarge, len(*d.Content))
		}
		if !gjson.Valid(*d.Content) {
			return ErrInvalidContent
		}
	}
	return nil
}
