package persistence

import (
	"context"
	"fmt"

	"github.com/jobvault/jobvault/internal/database"
)

// pgvector HNSW and IVFFlat indexes support at most 2000 dimensions; HNSW
// degrades above roughly 1000. Wider vectors fall back to sequential scan.
const (
	hnswMaxDimensions  = 1000
	indexMaxDimensions = 2000
)

// Migrate creates the document table and its indexes for the connected
// backend. dimension is the stored vector width; on Postgres it fixes the
// vector column type and picks the index flavour.
func Migrate(ctx context.Context, db database.Database, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid vector dimension %d", dimension)
	}
	if db.IsPostgres() {
		return migratePostgres(ctx, db, dimension)
	}
	return migrateSQLite(ctx, db)
}

func migratePostgres(ctx context.Context, db database.Database, dimension int) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS vector_documents (
			id UUID PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			collection_name VARCHAR(255) NOT NULL,
			text TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`, dimension),
		`CREATE INDEX IF NOT EXISTS idx_vector_documents_user_collection
			ON vector_documents (user_id, collection_name)`,
		`CREATE INDEX IF NOT EXISTS idx_vector_documents_metadata_gin
			ON vector_documents USING gin (metadata)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_vector_documents_logical_key
			ON vector_documents (user_id, collection_name,
				(metadata->>'record_type'), (metadata->>'record_id'))`,
	}

	switch {
	case dimension <= hnswMaxDimensions:
		statements = append(statements,
			`CREATE INDEX IF NOT EXISTS idx_vector_documents_embedding_hnsw
				ON vector_documents USING hnsw (embedding vector_cosine_ops)
				WITH (m = 16, ef_construction = 64)`)
	case dimension <= indexMaxDimensions:
		statements = append(statements,
			`CREATE INDEX IF NOT EXISTS idx_vector_documents_embedding_ivfflat
				ON vector_documents USING ivfflat (embedding vector_cosine_ops)
				WITH (lists = 100)`)
	}

	return execAll(ctx, db, statements)
}

func migrateSQLite(ctx context.Context, db database.Database) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS vector_documents (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			collection_name TEXT NOT NULL,
			text TEXT NOT NULL,
			embedding TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vector_documents_user_collection
			ON vector_documents (user_id, collection_name)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_vector_documents_logical_key
			ON vector_documents (user_id, collection_name,
				json_extract(metadata, '$.record_type'),
				json_extract(metadata, '$.record_id'))`,
	}
	return execAll(ctx, db, statements)
}

func execAll(ctx context.Context, db database.Database, statements []string) error {
	for _, stmt := range statements {
		if err := db.Session(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate document table: %w", err)
		}
	}
	return nil
}
