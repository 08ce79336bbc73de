// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrAgreementsRequired = errors.New("auth: required agreements not accepted")
	ErrAlreadyRegistered  = errors.New("auth: account already registered")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrOAuthUnavailable   = errors.New("auth: google sign-in not configured")
	ErrInvalidState       = errors.New("auth: invalid oauth state")
	ErrOAuthFailed        = errors.New("auth: google sign-in failed")
)

// FieldError is one failed rule on a form field.
type FieldError struct {
	// Rule is the validator tag that failed, e.g. "email" or "min".
	Rule string
	// Param is the rule parameter, e.g. "8" for min=8.
	Param string
}

// ValidationError lists the form fields that failed validation, keyed by
// their JSON name. It matches ErrInvalidInput.
type ValidationError struct {
	Fields map[string]FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "auth: invalid fields: " + strings.Join(names, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
