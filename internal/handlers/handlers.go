// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API. Handlers parse the request,
// call a service with the viewer taken from the session, and translate the
// result or error into a response envelope with a localized notice.
package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"topichub/internal/auth"
	"topichub/internal/models"
	"topichub/internal/session"
	"topichub/internal/topic"
)

// TopicService is implemented by *topic.Service.
type TopicService interface {
	ListPublished(ctx context.Context, f topic.Filter) ([]topic.FeedItem, error)
	CreateDraft(ctx context.Context, viewer uuid.UUID) (*models.Topic, error)
	Get(ctx context.Context, viewer uuid.UUID, id int64) (*topic.Detail, error)
	Save(ctx context.Context, viewer uuid.UUID, id int64, d topic.Draft) (*models.Topic, error)
	Publish(ctx context.Context, viewer uuid.UUID, id int64, d topic.Draft) (*models.Topic, error)
	Delete(ctx context.Context, viewer uuid.UUID, id int64) error
	PublishedCount(ctx context.Context, author uuid.UUID) (int, error)
	Drafts(ctx context.Context, viewer, author uuid.UUID) ([]models.Topic, error)
}

// AuthService is implemented by *auth.Service.
type AuthService interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (*models.User, error)
	SignIn(ctx context.Context, in auth.SignInInput) (*models.User, error)
	GoogleEnabled() bool
	GoogleAuthURL() (authURL, nonce string, err error)
	SignInWithGoogle(ctx context.Context, code, state, nonce string) (*models.User, error)
}

// SessionManager is the part of *session.Store the auth handlers use.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// UserFinder is implemented by *store.UserStore.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// identity is the signed-in user as returned to the client.
type identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

func identityOf(u *models.User) identity {
	return identity{ID: u.ID, Email: u.Email, Role: string(u.Role)}
}
