// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth implements email sign-up and sign-in and the Google OAuth
// flow. It returns the authenticated user; creating the session is left
// to the HTTP layer.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"topichub/internal/models"
	"topichub/internal/store"
)

// UserStore is the account storage the service needs. *store.UserStore
// satisfies it.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, email, password string) (*models.User, error)
	UpsertOAuth(ctx context.Context, email, subject string, refreshToken *string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// SignUpInput is the sign-up form.
type SignUpInput struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,min=8,maxbytes=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	TermsAgreed     bool   `json:"terms_agreed"`
	PrivacyAgreed   bool   `json:"privacy_agreed"`
}

// SignInInput is the sign-in form.
type SignInInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

// Service implements the account operations.
type Service struct {
	users    UserStore
	google   *Google // nil when Google sign-in is not configured
	validate *validator.Validate
}

// NewService creates a Service. google may be nil.
func NewService(users UserStore, google *Google) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt only hashes the first 72 bytes; max counts runes.
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return &Service{users: users, google: google, validate: v}
}

// maxBytes checks a string field's length in bytes against the rule
// parameter.
func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

// GoogleEnabled reports whether Google sign-in is configured.
func (s *Service) GoogleEnabled() bool { return s.google != nil }

// SignUp registers an email account. The form is validated before any
// store call.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.check(in); err != nil {
		return nil, err
	}
	if !in.TermsAgreed || !in.PrivacyAgreed {
		return nil, ErrAgreementsRequired
	}

	u, err := s.users.Create(ctx, in.Email, in.Password)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return nil, ErrAlreadyRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	slog.Info("user signed up", "user_id", u.ID)
	return u, nil
}

// SignIn checks email credentials. An unknown email and a wrong password
// both return ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, in SignInInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.check(in); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if u == nil || !s.users.CheckPassword(u, in.Password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GoogleAuthURL starts the Google flow. It returns the consent screen URL
// and the nonce the caller must bind to the browser.
func (s *Service) GoogleAuthURL() (authURL, nonce string, err error) {
	if s.google == nil {
		return "", "", ErrOAuthUnavailable
	}
	return s.google.AuthURL()
}

// SignInWithGoogle completes the Google flow and returns the linked or
// newly created account.
func (s *Service) SignInWithGoogle(ctx context.Context, code, state, nonce string) (*models.User, error) {
	if s.google == nil {
		return nil, ErrOAuthUnavailable
	}
	id, err := s.google.Exchange(ctx, code, state, nonce)
	if err != nil {
		return nil, err
	}

	u, err := s.users.UpsertOAuth(ctx, normalizeEmail(id.Email), id.Subject, id.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("google sign in: %w", err)
	}
	slog.Info("user signed in with google", "user_id", u.ID)
	return u, nil
}

// check runs struct validation and converts failures to a ValidationError.
func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]FieldError, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = FieldError{Rule: fe.Tag(), Param: fe.Param()}
		}
	}
	return &ValidationError{Fields: fields}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
