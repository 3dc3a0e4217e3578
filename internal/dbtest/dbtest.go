// Package dbtest opens throwaway sqlite databases for store-backed tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/pkg/config"
)

// Open returns a migrated sqlite database living in the test's temp dir.
func Open(t testing.TB) *db.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "yatube.db")
	database, err := db.New(&config.DatabaseConfig{Driver: "sqlite", URL: "file:" + path}, "error")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

// User inserts a user.
func User(t testing.TB, database *db.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username}
	if err := db.NewUserRepository(db.NewRepository(database.DB)).Create(context.Background(), u); err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return u
}

// Group inserts a group.
func Group(t testing.TB, database *db.DB, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	if err := db.NewGroupRepository(db.NewRepository(database.DB)).Create(context.Background(), g); err != nil {
		t.Fatalf("create group %q: %v", slug, err)
	}
	return g
}

// Post inserts a post by author, optionally in group, published at pub.
func Post(t testing.TB, database *db.DB, author *models.User, group *models.Group, text string, pub time.Time) *models.Post {
	t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID, PubDate: pub}
	if group != nil {
		p.GroupID = sql.NullInt64{Int64: group.ID, Valid: true}
	}
	if err := db.NewPostRepository(db.NewRepository(database.DB)).Create(context.Background(), p); err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// Posts inserts n posts by author one minute apart, oldest first, and
// returns them in insertion order.
func Posts(t testing.TB, database *db.DB, author *models.User, group *models.Group, n int) []*models.Post {
	t.Helper()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	out := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Post(t, database, author, group, "post text", base.Add(time.Duration(i)*time.Minute)))
	}
	return out
}
