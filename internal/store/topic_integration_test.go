// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"
	"time"

	"topichub/internal/models"
)

func TestTopicStoreLifecycle(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	topics := NewTopicStore(db)
	ctx := context.Background()

	email := "test-topic-lifecycle@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	author, err := users.Create(ctx, email, "testpass123")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	draft, err := topics.CreateDraft(ctx, author.ID)
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if !draft.IsBlank() || draft.Status != models.TopicStatusTemp || draft.Author != author.ID {
		t.Fatalf("unexpected draft: %+v", draft)
	}

	// Drafts are not in the feed.
	title := "Store lifecycle 100% literal_match"
	feed, err := topics.ListPublished(ctx, FeedQuery{Search: title})
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(feed) != 0 {
		t.Fatalf("draft leaked into feed: %+v", feed)
	}

	category := "programming"
	thumb := "https://cdn.example.com/files/topics/x.jpg"
	content := `[{"type":"paragraph","content":[{"type":"text","text":"hi"}]}]`
	updated, err := topics.Update(ctx, draft.ID, author.ID, TopicFields{
		Title: &title, Category: &category, Thumbnail: &thumb, Content: &content,
	}, models.TopicStatusPublish)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated == nil || !updated.IsPublished() {
		t.Fatalf("Update returned %+v", updated)
	}

	feed, err = topics.ListPublished(ctx, FeedQuery{Search: "100% literal_", Category: category})
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != draft.ID {
		t.Fatalf("feed = %+v, want the published topic", feed)
	}

	count, err := topics.CountPublishedByAuthor(ctx, author.ID)
	if err != nil || count != 1 {
		t.Fatalf("CountPublishedByAuthor = %d, %v", count, err)
	}

	ok, err := topics.Delete(ctx, draft.ID, author.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	gone, err := topics.FindByID(ctx, draft.ID)
	if err != nil || gone != nil {
		t.Fatalf("FindByID after delete = %+v, %v", gone, err)
	}
}

func TestTopicStoreDeleteAbandonedDraftsKeepsWritten(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	topics := NewTopicStore(db)
	ctx := context.Background()

	email := "test-topic-reaper@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	author, err := users.Create(ctx, email, "testpass123")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	blank, err := topics.CreateDraft(ctx, author.ID)
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	written, err := topics.CreateDraft(ctx, author.ID)
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	title := "keep me"
	if _, err := topics.Update(ctx, written.ID, author.ID, TopicFields{Title: &title}, models.TopicStatusTemp); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := topics.DeleteAbandonedDrafts(ctx, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("DeleteAbandonedDrafts: %v", err)
	}

	if got, _ := topics.FindByID(ctx, blank.ID); got != nil {
		t.Error("blank draft should have been reaped")
	}
	if got, _ := topics.FindByID(ctx, written.ID); got == nil {
		t.Error("written draft must be kept")
	}

	drafts, err := topics.ListDraftsByAuthor(ctx, author.ID)
	if err != nil {
		t.Fatalf("ListDraftsByAuthor: %v", err)
	}
	if len(drafts) != 1 || drafts[0].ID != written.ID {
		t.Errorf("drafts = %+v", drafts)
	}
}
