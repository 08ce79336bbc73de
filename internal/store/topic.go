// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"topichub/internal/models"
)

var topicColumns = []string{
	"id", "author", "title", "category", "thumbnail", "content",
	"status", "created_at", "updated_at",
}

// FeedQuery filters the published feed. Empty fields are not applied.
type FeedQuery struct {
	Search          string
	Category        string
	CaseInsensitive bool
}

// TopicFields is the full set of editable columns written by Update. A nil
// field is stored as NULL.
type TopicFields struct {
	Title     *string
	Category  *string
	Thumbnail *string
	Content   *string
}

// TopicStore handles all topic-related database operations.
type TopicStore struct {
	db *sql.DB
}

// NewTopicStore creates a new TopicStore with the given database connection.
func NewTopicStore(db *sql.DB) *TopicStore {
	return &TopicStore{db: db}
}

func scanTopic(row rowScanner) (*models.Topic, error) {
	t := &models.Topic{}
	err := row.Scan(
		&t.ID, &t.Author, &t.Title, &t.Category, &t.Thumbnail, &t.Content,
		&t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TopicStore) queryTopics(ctx context.Context, q squirrel.SelectBuilder) ([]models.Topic, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build topic query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []models.Topic{}
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, *t)
	}
	return topics, rows.Err()
}

// CreateDraft inserts an empty TEMP topic owned by author inside a
// transaction and returns the stored row.
func (s *TopicStore) CreateDraft(ctx context.Context, author uuid.UUID) (*models.Topic, error) {
	query, args, err := builder.Insert("topics").
		Columns("author", "status").
		Values(author, models.TopicStatusTemp).
		Suffix("RETURNING " + strings.Join(topicColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create draft: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create draft begin: %w", err)
	}
	defer tx.Rollback()

	t, err := scanTopic(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create draft commit: %w", err)
	}
	return t, nil
}

// FindByID retrieves a topic regardless of status. Returns nil if not found.
func (s *TopicStore) FindByID(ctx context.Context, id int64) (*models.Topic, error) {
	query, args, err := builder.Select(topicColumns...).
		From("topics").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find topic: %w", err)
	}

	t, err := scanTopic(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find topic by id: %w", err)
	}
	return t, nil
}

// ListPublished returns PUBLISH topics matching the query, newest first.
// Search is a literal substring of the title; LIKE wildcards in it are
// escaped.
func (s *TopicStore) ListPublished(ctx context.Context, fq FeedQuery) ([]models.Topic, error) {
	q := builder.Select(topicColumns...).
		From("topics").
		Where(squirrel.Eq{"status": models.TopicStatusPublish})

	if fq.Search != "" {
		pattern := "%" + EscapeLike(fq.Search) + "%"
		if fq.CaseInsensitive {
			q = q.Where(squirrel.ILike{"title": pattern})
		} else {
			q = q.Where(squirrel.Like{"title": pattern})
		}
	}
	if fq.Category != "" {
		q = q.Where(squirrel.Eq{"category": fq.Category})
	}

	topics, err := s.queryTopics(ctx, q.OrderBy("created_at DESC", "id DESC"))
	if err != nil {
		return nil, fmt.Errorf("list published topics: %w", err)
	}
	return topics, nil
}

// ListDraftsByAuthor returns the author's TEMP topics, most recently
// edited first.
func (s *TopicStore) ListDraftsByAuthor(ctx context.Context, author uuid.UUID) ([]models.Topic, error) {
	q := builder.Select(topicColumns...).
		From("topics").
		Where(squirrel.Eq{"author": author}).
		Where(squirrel.Eq{"status": models.TopicStatusTemp}).
		OrderBy("updated_at DESC", "id DESC")

	topics, err := s.queryTopics(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list drafts by author: %w", err)
	}
	return topics, nil
}

// CountPublishedByAuthor returns how many PUBLISH topics the author has.
func (s *TopicStore) CountPublishedByAuthor(ctx context.Context, author uuid.UUID) (int, error) {
	query, args, err := builder.Select("COUNT(*)").
		From("topics").
		Where(squirrel.Eq{"author": author}).
		Where(squirrel.Eq{"status": models.TopicStatusPublish}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count topics: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count published topics: %w", err)
	}
	return count, nil
}

// Update overwrites every editable column and the status of the topic
// matched by id and author. There is no version check. Returns nil if no
// row matched.
func (s *TopicStore) Update(ctx context.Context, id int64, author uuid.UUID, f TopicFields, status models.TopicStatus) (*models.Topic, error) {
	query, args, err := builder.Update("topics").
		Set("title", f.Title).
		Set("category", f.Category).
		Set("thumbnail", f.Thumbnail).
		Set("content", f.Content).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"author": author}).
		Suffix("RETURNING " + strings.Join(topicColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update topic: %w", err)
	}

	t, err := scanTopic(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update topic: %w", err)
	}
	return t, nil
}

// Delete permanently removes the topic matched by id and author. Returns
// false if no row matched.
func (s *TopicStore) Delete(ctx context.Context, id int64, author uuid.UUID) (bool, error) {
	query, args, err := builder.Delete("topics").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"author": author}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete topic: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete topic: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete topic rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteAbandonedDrafts removes TEMP topics created before cutoff whose
// content fields were never written. Returns the number of rows removed.
func (s *TopicStore) DeleteAbandonedDrafts(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := builder.Delete("topics").
		Where(squirrel.Eq{"status": models.TopicStatusTemp}).
		Where(squirrel.Eq{"title": nil}).
		Where(squirrel.Eq{"category": nil}).
		Where(squirrel.Eq{"thumbnail": nil}).
		Where(squirrel.Eq{"content": nil}).
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete abandoned drafts: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete abandoned drafts: %w", err)
	}
	return res.RowsAffected()
}

// EscapeLike escapes the LIKE metacharacters in s so it matches literally
// under PostgreSQL's default backslash escape.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
