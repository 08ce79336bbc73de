// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package topic

import (
	"errors"
	"strings"
)

var (
	ErrLoginRequired    = errors.New("topic: login required")
	ErrForbidden        = errors.New("topic: not the author")
	ErrNotFound         = errors.New("topic: not found")
	ErrNothingToSave    = errors.New("topic: nothing to save")
	ErrIncomplete       = errors.New("topic: required fields missing")
	ErrInvalidCategory  = errors.New("topic: unknown category")
	ErrTitleTooLong     = errors.New("topic: title too long")
	ErrContentTooLarge  = errors.New("topic: content too large")
	ErrInvalidContent   = errors.New("topic: content is not valid JSON")
	ErrInvalidThumbnail = errors.New("topic: invalid thumbnail")
	ErrUpload           = errors.New("topic: thumbnail upload failed")
)

// IncompleteError lists the fields Publish found empty, in form order.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return "topic: required fields missing: " + strings.Join(e.Missing, ", ")
}

// Is makes errors.Is(err, ErrIncomplete) match.
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}
