// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notice holds the user-facing messages returned with API
// responses. Each message has a stable code and Korean and English text;
// the language is matched from the request's Accept-Language header with
// Korean as the fallback.
package notice

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Level is the severity shown by the client toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a localized message attached to a response.
type Notice struct {
	Level   Level  `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Message codes.
const (
	TopicCreated         = "topic.created"
	TopicSaved           = "topic.saved"
	TopicPublished       = "topic.published"
	TopicDeleted         = "topic.deleted"
	TopicIncomplete      = "topic.incomplete"
	TopicNothingToSave   = "topic.nothing_to_save"
	TopicNotFound        = "topic.not_found"
	TopicForbidden       = "topic.forbidden"
	TopicInvalidCategory = "topic.invalid_category"
	TopicInvalidField    = "topic.invalid_field"
	TopicInvalidImage    = "topic.invalid_thumbnail"
	TopicUploadFailed    = "topic.upload_failed"
	TopicDeleteConfirm   = "topic.delete_confirm"
	FeedEmpty            = "feed.empty"
	FeedInvalidCategory  = "feed.invalid_category"
	LoginRequired        = "auth.login_required"
	SignUpDone           = "auth.sign_up_done"
	SignUpInvalid        = "auth.sign_up_invalid"
	SignUpAgreements     = "auth.agreements_required"
	AlreadyRegistered    = "auth.already_registered"
	SignUpFailed         = "auth.sign_up_failed"
	SignInDone           = "auth.sign_in_done"
	SignInInvalid        = "auth.sign_in_invalid"
	InvalidCredentials   = "auth.invalid_credentials"
	SignInFailed         = "auth.sign_in_failed"
	SignedOut            = "auth.signed_out"
	OAuthUnavailable     = "auth.oauth_unavailable"
	ProfileForbidden     = "user.forbidden"
	UserNotFound         = "user.not_found"
	BadRequest           = "request.bad"
	NotFound             = "request.not_found"
	TooManyRequests      = "request.too_many"
	InvalidCSRF          = "request.invalid_csrf"
	Internal             = "server.internal"

	// Field-level messages for form errors.
	FieldRequired = "field.required"
	FieldEmail    = "field.email"
	FieldMin      = "field.min"
	FieldMax      = "field.max"
	FieldMaxBytes = "field.max_bytes"
	FieldMismatch = "field.mismatch"
)

var messages = map[string][2]string{ // code: {ko, en}
	TopicCreated:         {"토픽을 생성하였습니다.", "Your topic has been created."},
	TopicSaved:           {"작성 중인 토픽을 저장하였습니다.", "Your draft has been saved."},
	TopicPublished:       {"토픽을 발행하였습니다.", "Your topic has been published."},
	TopicDeleted:         {"토픽 삭제를 완료하였습니다.", "The topic has been deleted."},
	TopicIncomplete:      {"입력되지 않은 항목이 있습니다. 필수값을 입력해주세요. (%s)", "Some required fields are empty. Please fill them in. (%s)"},
	TopicNothingToSave:   {"저장할 내용이 없습니다. 한 가지 이상 입력해주세요.", "There is nothing to save yet. Fill in at least one field."},
	TopicNotFound:        {"토픽을 찾을 수 없습니다.", "The topic could not be found."},
	TopicForbidden:       {"본인이 작성한 토픽만 수정하거나 삭제할 수 있습니다.", "Only the author can change or delete this topic."},
	TopicInvalidCategory: {"선택할 수 없는 카테고리입니다.", "That category is not available."},
	TopicInvalidField:    {"입력값을 확인해주세요.", "Please check what you entered."},
	TopicInvalidImage:    {"썸네일은 10MB 이하의 JPG, PNG, GIF, WEBP 이미지만 가능합니다.", "Thumbnails must be JPG, PNG, GIF or WEBP images up to 10 MB."},
	TopicUploadFailed:    {"해당 파일의 Public URL 조회를 실패하였습니다.", "The thumbnail upload failed."},
	TopicDeleteConfirm:   {"삭제하시면 해당 토픽의 모든 내용이 영구적으로 삭제되어 복구할 수 없습니다.", "Deleting removes this topic permanently. It cannot be restored."},
	FeedEmpty:            {"조회 가능한 토픽이 없습니다.", "There are no topics to show."},
	FeedInvalidCategory:  {"존재하지 않는 카테고리입니다.", "That category does not exist."},
	LoginRequired:        {"토픽 작성은 로그인 후 이용 가능합니다.", "Please sign in to write a topic."},
	SignUpDone:           {"회원가입을 완료하였습니다.", "Your account has been created."},
	SignUpInvalid:        {"입력하신 정보를 다시 확인해주세요.", "Please check the form and try again."},
	SignUpAgreements:     {"잠깐! 필수 동의가 아직 완료되지 않았어요!", "Please accept the required agreements first."},
	AlreadyRegistered:    {"이미 가입된 계정입니다.", "This account is already registered."},
	SignUpFailed:         {"회원가입 중 오류가 발생했습니다.", "Something went wrong while creating your account."},
	SignInDone:           {"로그인을 완료하였습니다.", "You are signed in."},
	SignInInvalid:        {"이메일과 비밀번호를 확인해주세요.", "Please check your email and password."},
	InvalidCredentials:   {"입력하신 정보가 일치하지 않습니다.", "The email or password does not match."},
	SignInFailed:         {"로그인 중 오류가 발생하였습니다.", "Something went wrong while signing in."},
	SignedOut:            {"로그아웃되었습니다.", "You have been signed out."},
	OAuthUnavailable:     {"구글 로그인을 사용할 수 없습니다.", "Google sign-in is not available."},
	ProfileForbidden:     {"본인의 임시 저장 목록만 볼 수 있습니다.", "You can only view your own drafts."},
	UserNotFound:         {"사용자를 찾을 수 없습니다.", "The user could not be found."},
	BadRequest:           {"잘못된 요청입니다.", "The request is not valid."},
	NotFound:             {"요청하신 페이지를 찾을 수 없습니다.", "The page could not be found."},
	TooManyRequests:      {"요청이 너무 많습니다. 잠시 후 다시 시도해주세요.", "Too many requests. Please try again shortly."},
	InvalidCSRF:          {"요청이 만료되었습니다. 페이지를 새로고침해주세요.", "The request has expired. Please reload the page."},
	Internal:             {"일시적인 오류가 발생했습니다. 다시 시도해주세요.", "Something went wrong. Please try again."},

	FieldRequired: {"필수 입력 항목입니다.", "This field is required."},
	FieldEmail:    {"이메일 형식이 올바르지 않습니다.", "Enter a valid email address."},
	FieldMin:      {"%s자 이상 입력해주세요.", "Use at least %s characters."},
	FieldMax:      {"%s자 이하로 입력해주세요.", "Use at most %s characters."},
	FieldMaxBytes: {"너무 깁니다. %s바이트 이하로 입력해주세요.", "This is too long. Use at most %s bytes."},
	FieldMismatch: {"비밀번호가 일치하지 않습니다.", "The passwords do not match."},
}

// Supported lists the catalog languages. The first entry is the fallback.
var Supported = []language.Tag{language.Korean, language.English}

var (
	matcher = language.NewMatcher(Supported)
	cat     = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Korean))
	for code, text := range messages {
		b.SetString(language.Korean, code, text[0])
		b.SetString(language.English, code, text[1])
	}
	return b
}

// Match picks the best supported language for an Accept-Language value.
func Match(acceptLanguage string) language.Tag {
	tags, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	_, idx, _ := matcher.Match(tags...)
	return Supported[idx]
}

// FromRequest picks the best supported language for r.
func FromRequest(r *http.Request) language.Tag {
	return Match(r.Header.Get("Accept-Language"))
}

// Text renders the message for code in lang.
func Text(lang language.Tag, code string, args ...any) string {
	p := message.NewPrinter(lang, message.Catalog(cat))
	return p.Sprintf(code, args...)
}

// New builds a notice for code in lang.
func New(lang language.Tag, level Level, code string, args ...any) *Notice {
	return &Notice{Level: level, Code: code, Message: Text(lang, code, args...)}
}

// Has reports whether code is in the catalog.
func Has(code string) bool {
	_, ok := messages[code]
	return ok
}
