// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"topichub/internal/auth"
	"topichub/internal/notice"
	"topichub/internal/render"
	"topichub/internal/topic"
)

// topicError writes the response for an error returned by TopicService.
func topicError(w http.ResponseWriter, r *http.Request, err error) {
	lang := notice.FromRequest(r)
	warn := func(status int, code string, fields map[string]string, args ...any) {
		render.JSON(w, status, render.Envelope{
			Notice: notice.New(lang, notice.LevelWarning, code, args...),
			Errors: fields,
		})
	}

	var incomplete *topic.IncompleteError
	switch {
	case errors.Is(err, topic.ErrLoginRequired):
		render.JSON(w, http.StatusUnauthorized, render.Envelope{
			Notice:   notice.New(lang, notice.LevelWarning, notice.LoginRequired),
			Redirect: "/sign-in",
		})

	case errors.Is(err, topic.ErrForbidden):
		render.Message(w, r, http.StatusForbidden, notice.LevelError, notice.TopicForbidden)

	case errors.Is(err, topic.ErrNotFound):
		render.Message(w, r, http.StatusNotFound, notice.LevelError, notice.TopicNotFound)

	case errors.Is(err, topic.ErrNothingToSave):
		warn(http.StatusBadRequest, notice.TopicNothingToSave, nil)

	case errors.As(err, &incomplete):
		fields := make(map[string]string, len(incomplete.Missing))
		for _, f := range incomplete.Missing {
			fields[f] = notice.Text(lang, notice.FieldRequired)
		}
		warn(http.StatusUnprocessableEntity, notice.TopicIncomplete, fields, strings.Join(incomplete.Missing, ", "))

	case errors.Is(err, topic.ErrInvalidCategory):
		warn(http.StatusUnprocessableEntity, notice.TopicInvalidCategory,
			map[string]string{topic.FieldCategory: notice.Text(lang, notice.TopicInvalidCategory)})

	case errors.Is(err, topic.ErrTitleTooLong):
		warn(http.StatusUnprocessableEntity, notice.TopicInvalidField,
			map[string]string{topic.FieldTitle: notice.Text(lang, notice.FieldMax, strconv.Itoa(topic.MaxTitleRunes))})

	case errors.Is(err, topic.ErrContentTooLarge), errors.Is(err, topic.ErrInvalidContent):
		warn(http.StatusUnprocessableEntity, notice.TopicInvalidField,
			map[string]string{topic.FieldContent: notice.Text(lang, notice.TopicInvalidField)})

	case errors.Is(err, topic.ErrInvalidThumbnail):
		warn(http.StatusUnprocessableEntity, notice.TopicInvalidImage,
			map[string]string{topic.FieldThumbnail: notice.Text(lang, notice.TopicInvalidImage)})

	case errors.Is(err, topic.ErrUpload):
		slog.Error("thumbnail upload failed", "path", r.URL.Path, "error", err)
		render.Message(w, r, http.StatusBadGateway, notice.LevelError, notice.TopicUploadFailed)

	default:
		internalError(w, r, err)
	}
}

// internalError logs err and writes a generic 500.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	render.Message(w, r, http.StatusInternalServerError, notice.LevelError, notice.Internal)
}

// fieldMessages localizes form validation failures.
func fieldMessages(lang language.Tag, verr *auth.ValidationError) map[string]string {
	out := make(map[string]string, len(verr.Fields))
	for name, fe := range verr.Fields {
		out[name] = fieldMessage(lang, fe)
	}
	return out
}

func fieldMessage(lang language.Tag, fe auth.FieldError) string {
	switch fe.Rule {
	case "required":
		return notice.Text(lang, notice.FieldRequired)
	case "email":
		return notice.Text(lang, notice.FieldEmail)
	case "min":
		return notice.Text(lang, notice.FieldMin, fe.Param)
	case "max":
		return notice.Text(lang, notice.FieldMax, fe.Param)
	case "maxbytes":
		return notice.Text(lang, notice.FieldMaxBytes, fe.Param)
	case "eqfield":
		return notice.Text(lang, notice.FieldMismatch)
	default:
		return notice.Text(lang, notice.TopicInvalidField)
	}
}
