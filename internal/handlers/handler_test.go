// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// stub services, request helpers and envelope decoding.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"topichub/internal/auth"
	"topichub/internal/middleware"
	"topichub/internal/models"
	"topichub/internal/session"
	"topichub/internal/topic"
)

// stubTopics implements TopicService with canned results and records the
// arguments of the last call.
type stubTopics struct {
	feed    []topic.FeedItem
	topic   *models.Topic
	detail  *topic.Detail
	drafts  []models.Topic
	count   int
	err     error
	calls   int
	viewer  uuid.UUID
	id      int64
	filter  topic.Filter
	draft   topic.Draft
	deleted bool
}

func (s *stubTopics) ListPublished(_ context.Context, f topic.Filter) ([]topic.FeedItem, error) {
	s.calls++
	s.filter = f
	return s.feed, s.err
}

func (s *stubTopics) CreateDraft(_ context.Context, viewer uuid.UUID) (*models.Topic, error) {
	s.calls++
	s.viewer = viewer
	return s.topic, s.err
}

func (s *stubTopics) Get(_ context.Context, viewer uuid.UUID, id int64) (*topic.Detail, error) {
	s.calls++
	s.viewer, s.id = viewer, id
	return s.detail, s.err
}

func (s *stubTopics) Save(_ context.Context, viewer uuid.UUID, id int64, d topic.Draft) (*models.Topic, error) {
	s.calls++
	s.viewer, s.id, s.draft = viewer, id, d
	return s.topic, s.err
}

func (s *stubTopics) Publish(_ context.Context, viewer uuid.UUID, id int64, d topic.Draft) (*models.Topic, error) {
	s.calls++
	s.viewer, s.id, s.draft = viewer, id, d
	return s.topic, s.err
}

func (s *stubTopics) Delete(_ context.Context, viewer uuid.UUID, id int64) error {
	s.calls++
	s.viewer, s.id = viewer, id
	if s.err == nil {
		s.deleted = true
	}
	return s.err
}

func (s *stubTopics) PublishedCount(_ context.Context, author uuid.UUID) (int, error) {
	s.calls++
	s.viewer = author
	return s.count, s.err
}

func (s *stubTopics) Drafts(_ context.Context, viewer, author uuid.UUID) ([]models.Topic, error) {
	s.calls++
	s.viewer = viewer
	if viewer != author {
		return nil, topic.ErrForbidden
	}
	return s.drafts, s.err
}

// stubAuth implements AuthService.
type stubAuth struct {
	user      *models.User
	err       error
	googleURL string
	nonce     string
	googleErr error

	signUp   auth.SignUpInput
	signIn   auth.SignInInput
	code     string
	state    string
	gotNonce string
	calls    int
}

func (s *stubAuth) SignUp(_ context.Context, in auth.SignUpInput) (*models.User, error) {
	s.calls++
	s.signUp = in
	return s.user, s.err
}

func (s *stubAuth) SignIn(_ context.Context, in auth.SignInInput) (*models.User, error) {
	s.calls++
	s.signIn = in
	return s.user, s.err
}

func (s *stubAuth) GoogleEnabled() bool { return s.googleURL != "" }

func (s *stubAuth) GoogleAuthURL() (string, string, error) {
	if s.googleErr != nil {
		return "", "", s.googleErr
	}
	return s.googleURL, s.nonce, nil
}

func (s *stubAuth) SignInWithGoogle(_ context.Context, code, state, nonce string) (*models.User, error) {
	s.calls++
	s.code, s.state, s.gotNonce = code, state, nonce
	return s.user, s.err
}

// stubSessions implements SessionManager.
type stubSessions struct {
	created   *session.Data
	destroyed bool
	err       error
}

func (s *stubSessions) Create(_ context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.created = data
	http.SetCookie(w, &http.Cookie{Name: "th_session", Value: "sid"})
	return "sid", nil
}

func (s *stubSessions) Destroy(_ context.Context, _ http.ResponseWriter, _ *http.Request) error {
	s.destroyed = true
	return s.err
}

// stubUsers implements UserFinder.
type stubUsers struct {
	user *models.User
	err  error
}

func (s *stubUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, s.err
	}
	return s.user, s.err
}

// envelope mirrors render.Envelope with raw data for assertions.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Notice *struct {
		Level   string `json:"level"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"notice"`
	Redirect string            `json:"redirect"`
	Errors   map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

// noticeCode returns the notice code of the response, or "".
func noticeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if env.Notice == nil {
		return ""
	}
	return env.Notice.Code
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID) *session.Data {
	return &session.Data{
		UserID: userID,
		Email:  "writer@topichub.local",
		Role:   string(models.RoleAuthenticated),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndSession adds both chi URL param and session to a request.
func withChiURLParamAndSession(r *http.Request, key, value string, sess *session.Data) *http.Request {
	r = withChiURLParam(r, key, value)
	if sess == nil {
		return r
	}
	return r.WithContext(ctxWithSession(r.Context(), sess))
}

func strPtr(s string) *string { return &s }
