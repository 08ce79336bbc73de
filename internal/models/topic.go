// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// TopicStatus represents the publishing state of a topic.
type TopicStatus string

const (
	TopicStatusTemp    TopicStatus = "TEMP"
	TopicStatusPublish TopicStatus = "PUBLISH"
)

// Topic is a user-authored post. Every content field is nullable: a draft
// row is created empty and filled in by later saves. Content holds the
// serialized block tree produced by the editor and is otherwise opaque.
type Topic struct {
	ID        int64       `json:"id"`
	Author    uuid.UUID   `json:"author"`
	Title     *string     `json:"title"`
	Category  *string     `json:"category"`
	Thumbnail *string     `json:"thumbnail"`
	Content   *string     `json:"content"`
	Status    TopicStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// IsPublished returns true if the topic is visible in the public feed.
func (t *Topic) IsPublished() bool {
	return t.Status == TopicStatusPublish
}

// IsAuthor reports whether the given user wrote the topic.
func (t *Topic) IsAuthor(userID uuid.UUID) bool {
	return userID != uuid.Nil && t.Author == userID
}

// IsBlank reports whether none of the content fields has been written yet.
func (t *Topic) IsBlank() bool {
	return t.Title == nil && t.Category == nil && t.Thumbnail == nil && t.Content == nil
}
