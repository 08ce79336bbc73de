// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Demo account created by Seed in development.
const (
	DemoEmail    = "demo@topichub.local"
	DemoPassword = "demo-password"
)

// welcomeContent is a minimal block tree for the seeded topic.
const welcomeContent = `[{"id":"welcome","type":"paragraph","props":{},"content":[{"type":"text","text":"Welcome to topichub. Pick a category, write a title and share what you know.","styles":{}}],"children":[]}]`

// Seed populates the database with initial development data. It creates a
// demo user and one published topic if no users exist yet.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, provider)
		VALUES ($1, $2, 'email')
		RETURNING id
	`, DemoEmail, string(hash)).Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO topics (author, title, category, thumbnail, content, status)
		VALUES ($1, $2, $3, $4, $5, 'PUBLISH')
	`, userID, "Welcome to topichub", "self-development",
		"https://images.unsplash.com/photo-1499750310107-5fef28a66643", welcomeContent)
	if err != nil {
		return fmt.Errorf("seed insert topic: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo user",
		"email", DemoEmail,
		"password", DemoPassword,
	)
	return nil
}
