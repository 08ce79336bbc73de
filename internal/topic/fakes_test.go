// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package topic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"topichub/internal/models"
	"topichub/internal/store"
)

// fakeTopics is an in-memory TopicStore that counts write calls.
type fakeTopics struct {
	mu      sync.Mutex
	rows    map[int64]*models.Topic
	nextID  int64
	clock   time.Time
	updates int
	deletes int
	failOn  string

	// afterList runs once, after ListPublished has read its rows.
	afterList func()
}

func newFakeTopics() *fakeTopics {
	return &fakeTopics{
		rows:  map[int64]*models.Topic{},
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeTopics) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

// seed adds a row directly, bypassing the service.
func (f *fakeTopics) seed(t models.Topic) *models.Topic {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = f.tick()
	}
	t.UpdatedAt = t.CreatedAt
	f.rows[t.ID] = &t
	cp := t
	return &cp
}

func (f *fakeTopics) CreateDraft(_ context.Context, author uuid.UUID) (*models.Topic, error) {
	if f.failOn == "create" {
		return nil, errors.New("insert failed")
	}
	return f.seed(models.Topic{Author: author, Status: models.TopicStatusTemp}), nil
}

func (f *fakeTopics) FindByID(_ context.Context, id int64) (*models.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTopics) ListPublished(_ context.Context, q store.FeedQuery) ([]models.Topic, error) {
	out := f.published(q)
	if hook := f.afterList; hook != nil {
		f.afterList = nil
		hook()
	}
	return out, nil
}

func (f *fakeTopics) published(q store.FeedQuery) []models.Topic {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Topic{}
	for _, t := range f.rows {
		if !t.IsPublished() {
			continue
		}
		if q.Search != "" {
			title := ""
			if t.Title != nil {
				title = *t.Title
			}
			if q.CaseInsensitive {
				if !strings.Contains(strings.ToLower(title), strings.ToLower(q.Search)) {
					continue
				}
			} else if !strings.Contains(title, q.Search) {
				continue
			}
		}
		if q.Category != "" && (t.Category == nil || *t.Category != q.Category) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (f *fakeTopics) ListDraftsByAuthor(_ context.Context, author uuid.UUID) ([]models.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Topic{}
	for _, t := range f.rows {
		if t.Author == author && t.Status == models.TopicStatusTemp {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTopics) CountPublishedByAuthor(_ context.Context, author uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.rows {
		if t.Author == author && t.IsPublished() {
			n++
		}
	}
	return n, nil
}

func (f *fakeTopics) Update(_ context.Context, id int64, author uuid.UUID, fields store.TopicFields, status models.TopicStatus) (*models.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.failOn == "update" {
		return nil, errors.New("update failed")
	}
	t, ok := f.rows[id]
	if !ok || t.Author != author {
		return nil, nil
	}
	t.Title, t.Category, t.Thumbnail, t.Content = fields.Title, fields.Category, fields.Thumbnail, fields.Content
	t.Status = status
	t.UpdatedAt = f.tick()
	cp := *t
	return &cp, nil
}

func (f *fakeTopics) Delete(_ context.Context, id int64, author uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	t, ok := f.rows[id]
	if !ok || t.Author != author {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

func (f *fakeTopics) DeleteAbandonedDrafts(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, t := range f.rows {
		if t.Status == models.TopicStatusTemp && t.IsBlank() && t.CreatedAt.Before(cutoff) {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

// fakeFiles is an in-memory FileStore.
type fakeFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
	uploads int
	deleted []string
	fail    bool
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{objects: map[string][]byte{}}
}

const fakeFilesBase = "https://cdn.test/files/"

func (f *fakeFiles) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.fail {
		return errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeFiles) FileURL(key string) string { return fakeFilesBase + key }

func (f *fakeFiles) ExtractKey(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, fakeFilesBase) || len(rawURL) == len(fakeFilesBase) {
		return "", false
	}
	return strings.TrimPrefix(rawURL, fakeFilesBase), true
}

func (f *fakeFiles) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

// fakeFeed is an in-memory FeedCache with generations like the Valkey one.
type fakeFeed struct {
	mu          sync.Mutex
	version     int64
	entries     map[string][]byte
	hits        int
	invalidated int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{entries: map[string][]byte{}}
}

func (f *fakeFeed) entryKey(version int64, key string) string {
	return fmt.Sprintf("v%d:%s", version, key)
}

func (f *fakeFeed) Get(_ context.Context, key string) ([]byte, int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.entries[f.entryKey(f.version, key)]
	if ok {
		f.hits++
	}
	return data, f.version, ok
}

func (f *fakeFeed) Set(_ context.Context, version int64, key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[f.entryKey(version, key)] = data
}

func (f *fakeFeed) Invalidate(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated++
	f.version++
}

// pngFile returns a small valid PNG image.
func pngFile(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 9))); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func ptr(s string) *string { return &s }
