// Package testdb provides a shared test database helper for fast,
// realistic testing against an in-memory SQLite database.
package testdb

import (
	"context"
	"testing"

	"github.com/jobvault/jobvault/infrastructure/persistence"
	"github.com/jobvault/jobvault/internal/database"
)

// Dimensions is the vector width used by test databases. Small enough to
// keep fixtures readable, wide enough for hash-bucket embeddings to spread.
const Dimensions = 64

// New creates an in-memory SQLite database with the document table created.
// The database is automatically closed when the test finishes.
func New(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db := NewPlain(t)
	if err := persistence.Migrate(ctx, db, Dimensions); err != nil {
		t.Fatalf("testdb.New: migrate: %v", err)
	}
	return db
}

// NewPlain creates an in-memory SQLite database without running migrations.
// Useful for tests that manage their own schema.
func NewPlain(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewDatabase(ctx, "sqlite:///:memory:")
	if err != nil {
		t.Fatalf("testdb.NewPlain: open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
