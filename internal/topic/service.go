// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package topic implements the topic feed, the editor workflow (create
// draft, save, publish) and topic detail and deletion. Authorization is
// enforced here: every write checks that the viewer is the author, and the
// store scopes the write to the author as well.
package topic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"topichub/internal/blocks"
	"topichub/internal/imaging"
	"topichub/internal/models"
	"topichub/internal/store"
)

// TopicStore is the row storage the service needs. *store.TopicStore
// satisfies it.
type TopicStore interface {
	CreateDraft(ctx context.Context, author uuid.UUID) (*models.Topic, error)
	FindByID(ctx context.Context, id int64) (*models.Topic, error)
	ListPublished(ctx context.Context, q store.FeedQuery) ([]models.Topic, error)
	ListDraftsByAuthor(ctx context.Context, author uuid.UUID) ([]models.Topic, error)
	CountPublishedByAuthor(ctx context.Context, author uuid.UUID) (int, error)
	Update(ctx context.Context, id int64, author uuid.UUID, f store.TopicFields, status models.TopicStatus) (*models.Topic, error)
	Delete(ctx context.Context, id int64, author uuid.UUID) (bool, error)
	DeleteAbandonedDrafts(ctx context.Context, cutoff time.Time) (int64, error)
}

// FileStore is the object storage the service needs. *storage.Client
// satisfies it.
type FileStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	FileURL(key string) string
	ExtractKey(rawURL string) (string, bool)
	Delete(ctx context.Context, key string) error
}

// FeedCache caches serialized feed results. Get returns the cache
// generation it read; Set stores under that generation so a result computed
// before an Invalidate is never served. *cache.FeedCache satisfies it.
type FeedCache interface {
	Get(ctx context.Context, key string) ([]byte, int64, bool)
	Set(ctx context.Context, version int64, key string, data []byte)
	Invalidate(ctx context.Context)
}

// Config tunes the service.
type Config struct {
	// CaseInsensitiveSearch switches title search from LIKE to ILIKE.
	CaseInsensitiveSearch bool
}

// Service implements the topic operations.
type Service struct {
	topics TopicStore
	files  FileStore // nil when object storage is not configured
	feed   FeedCache // nil disables feed caching
	cfg    Config
}

// NewService creates a Service. files and feed may be nil.
func NewService(topics TopicStore, files FileStore, feed FeedCache, cfg Config) *Service {
	return &Service{topics: topics, files: files, feed: feed, cfg: cfg}
}

// Filter narrows the feed. Empty values are not applied.
type Filter struct {
	Search   string
	Category string
}

// FeedItem is one card in the feed.
type FeedItem struct {
	ID        int64     `json:"id"`
	Author    uuid.UUID `json:"author"`
	Title     *string   `json:"title"`
	Category  *string   `json:"category"`
	Thumbnail *string   `json:"thumbnail"`
	Excerpt   string    `json:"excerpt"`
	CreatedAt time.Time `json:"created_at"`
}

// Detail is a topic as shown to a particular viewer.
type Detail struct {
	models.Topic
	CanDelete bool `json:"can_delete"`
}

// ListPublished returns the published topics matching f, newest first.
// Only PUBLISH topics are ever returned.
func (s *Service) ListPublished(ctx context.Context, f Filter) ([]FeedItem, error) {
	f.Search = strings.TrimSpace(f.Search)
	f.Category = strings.TrimSpace(f.Category)
	if f.Category != models.CategoryAll && !models.IsCategory(f.Category) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, f.Category)
	}

	key := s.feedKey(f)
	cached, version, ok := s.cachedFeed(ctx, key)
	if ok {
		return cached, nil
	}

	topics, err := s.topics.ListPublished(ctx, store.FeedQuery{
		Search:          f.Search,
		Category:        f.Category,
		CaseInsensitive: s.cfg.CaseInsensitiveSearch,
	})
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(topics))
	for _, t := range topics {
		item := FeedItem{
			ID:        t.ID,
			Author:    t.Author,
			Title:     t.Title,
			Category:  t.Category,
			Thumbnail: t.Thumbnail,
			CreatedAt: t.CreatedAt,
		}
		if t.Content != nil {
			item.Excerpt = blocks.Excerpt(*t.Content, ExcerptLength)
		}
		items = append(items, item)
	}

	if s.feed != nil {
		if data, err := json.Marshal(items); err == nil {
			s.feed.Set(ctx, version, key, data)
		}
	}
	return items, nil
}

func (s *Service) feedKey(f Filter) string {
	ci := "0"
	if s.cfg.CaseInsensitiveSearch {
		ci = "1"
	}
	return url.Values{"q": {f.Search}, "category": {f.Category}, "ci": {ci}}.Encode()
}

func (s *Service) cachedFeed(ctx context.Context, key string) ([]FeedItem, int64, bool) {
	if s.feed == nil {
		return nil, -1, false
	}
	data, version, ok := s.feed.Get(ctx, key)
	if !ok {
		return nil, version, false
	}
	var items []FeedItem
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("feed cache entry unreadable", "key", key, "error", err)
		return nil, version, false
	}
	return items, version, true
}

func (s *Service) invalidateFeed(ctx context.Context) {
	if s.feed != nil {
		s.feed.Invalidate(ctx)
	}
}

// CreateDraft inserts an empty TEMP topic for the viewer.
func (s *Service) CreateDraft(ctx context.Context, viewer uuid.UUID) (*models.Topic, error) {
	if viewer == uuid.Nil {
		return nil, ErrLoginRequired
	}
	t, err := s.topics.CreateDraft(ctx, viewer)
	if err != nil {
		return nil, err
	}
	slog.Info("draft created", "topic_id", t.ID, "author", viewer)
	return t, nil
}

// Get returns the topic with its delete permission for viewer. A TEMP
// topic is only visible to its author.
func (s *Service) Get(ctx context.Context, viewer uuid.UUID, id int64) (*Detail, error) {
	t, err := s.topics.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || (!t.IsPublished() && !t.IsAuthor(viewer)) {
		return nil, ErrNotFound
	}
	return &Detail{Topic: *t, CanDelete: t.IsAuthor(viewer)}, nil
}

// Save stores the draft as TEMP. At least one field must be present.
func (s *Service) Save(ctx context.Context, viewer uuid.UUID, id int64, d Draft) (*models.Topic, error) {
	if viewer == uuid.Nil {
		return nil, ErrLoginRequired
	}
	d = d.normalize()
	if d.empty() {
		return nil, ErrNothingToSave
	}
	return s.write(ctx, viewer, id, d, models.TopicStatusTemp)
}

// Publish stores the draft as PUBLISH. Every field must be present.
func (s *Service) Publish(ctx context.Context, viewer uuid.UUID, id int64, d Draft) (*models.Topic, error) {
	if viewer == uuid.Nil {
		return nil, ErrLoginRequired
	}
	d = d.normalize()
	if missing := d.missing(); len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing}
	}
	return s.write(ctx, viewer, id, d, models.TopicStatusPublish)
}

// write is shared by Save and Publish: validate, authorize, resolve the
// thumbnail, then update the row scoped to the author.
func (s *Service) write(ctx context.Context, viewer uuid.UUID, id int64, d Draft, status models.TopicStatus) (*models.Topic, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	current, err := s.authorize(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	thumbnail, err := s.resolveThumbnail(ctx, d.Thumbnail, current.Thumbnail)
	if err != nil {
		return nil, err
	}

	updated, err := s.topics.Update(ctx, id, viewer, store.TopicFields{
		Title:     d.Title,
		Category:  d.Category,
		Thumbnail: thumbnail,
		Content:   d.Content,
	}, status)
	if err == nil && updated == nil {
		// Deleted between the author check and the update.
		err = ErrNotFound
	}
	uploaded := len(d.Thumbnail.File) > 0
	if err != nil {
		if uploaded {
			s.removeThumbnail(ctx, thumbnail)
		}
		return nil, err
	}
	if !sameThumbnail(current.Thumbnail, thumbnail) {
		s.removeThumbnail(ctx, current.Thumbnail)
	}

	if current.IsPublished() || updated.IsPublished() {
		s.invalidateFeed(ctx)
	}
	slog.Info("topic written", "topic_id", id, "status", status, "author", viewer)
	return updated, nil
}

// authorize loads the topic and checks viewer owns it.
func (s *Service) authorize(ctx context.Context, viewer uuid.UUID, id int64) (*models.Topic, error) {
	t, err := s.topics.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	if !t.IsAuthor(viewer) {
		return nil, ErrForbidden
	}
	return t, nil
}

// resolveThumbnail turns the thumbnail input into the value to persist: a
// new file is inspected, uploaded and replaced by its public URL; an
// existing URL is reused only if it is the topic's current thumbnail; no
// input persists NULL. Each uploaded object is referenced by exactly one
// topic, so Delete may remove it.
func (s *Service) resolveThumbnail(ctx context.Context, t Thumbnail, current *string) (*string, error) {
	switch {
	case len(t.File) > 0:
		upload, err := s.upload(ctx, t)
		if err != nil {
			return nil, err
		}
		return &upload.URL, nil

	case t.URL != "":
		if current != nil && *current == t.URL {
			return &t.URL, nil
		}
		return nil, fmt.Errorf("%w: url is not this topic's thumbnail", ErrInvalidThumbnail)

	default:
		return nil, nil
	}
}

// upload stores a new thumbnail file. The upload and the URL derivation
// run in sequence; a failed upload aborts the write.
func (s *Service) upload(ctx context.Context, t Thumbnail) (*models.Upload, error) {
	if s.files == nil {
		return nil, fmt.Errorf("%w: storage not configured", ErrUpload)
	}

	info, err := imaging.Inspect(t.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidThumbnail, err)
	}
	data, info, err := imaging.Fit(t.File, info, imaging.MaxWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidThumbnail, err)
	}

	key := models.NewThumbnailKey(info.Ext)
	if err := s.files.Upload(ctx, key, info.ContentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	u := &models.Upload{
		Key:         key,
		URL:         s.files.FileURL(key),
		ContentType: info.ContentType,
		SizeBytes:   int64(len(data)),
		Width:       info.Width,
		Height:      info.Height,
	}
	slog.Info("thumbnail uploaded", "key", key, "name", t.Name, "size", u.HumanSize(),
		"width", u.Width, "height", u.Height)
	return u, nil
}

// Delete permanently removes the viewer's topic and, best effort, its
// uploaded thumbnail.
func (s *Service) Delete(ctx context.Context, viewer uuid.UUID, id int64) error {
	if viewer == uuid.Nil {
		return ErrLoginRequired
	}

	t, err := s.authorize(ctx, viewer, id)
	if err != nil {
		return err
	}

	deleted, err := s.topics.Delete(ctx, id, viewer)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	slog.Info("topic deleted", "topic_id", id, "author", viewer, "blank", t.IsBlank())

	if t.IsPublished() {
		s.invalidateFeed(ctx)
	}
	s.removeThumbnail(ctx, t.Thumbnail)
	return nil
}

func sameThumbnail(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *Service) removeThumbnail(ctx context.Context, thumbnail *string) {
	if s.files == nil || thumbnail == nil {
		return
	}
	key, ok := s.files.ExtractKey(*thumbnail)
	if !ok || !models.IsThumbnailKey(key) {
		return
	}
	if err := s.files.Delete(ctx, key); err != nil {
		slog.Warn("thumbnail delete failed", "key", key, "error", err)
	}
}

// PublishedCount returns how many published topics the user has.
func (s *Service) PublishedCount(ctx context.Context, author uuid.UUID) (int, error) {
	return s.topics.CountPublishedByAuthor(ctx, author)
}

// Drafts lists the viewer's own TEMP topics.
func (s *Service) Drafts(ctx context.Context, viewer, author uuid.UUID) ([]models.Topic, error) {
	if viewer == uuid.Nil {
		return nil, ErrLoginRequired
	}
	if viewer != author {
		return nil, ErrForbidden
	}
	return s.topics.ListDraftsByAuthor(ctx, author)
}
