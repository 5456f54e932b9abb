package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
)

// documentTable is the single table backing every collection.
const documentTable = "vector_documents"

// rawJSON is a JSON column that round-trips without interpretation. Both
// Postgres JSONB and SQLite TEXT scan into it, so corrupt payloads survive
// retrieval and can be surfaced to the caller.
type rawJSON []byte

// Scan implements sql.Scanner.
func (r *rawJSON) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*r = nil
	case []byte:
		*r = append((*r)[:0], v...)
	case string:
		*r = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
	return nil
}

// Value implements driver.Valuer.
func (r rawJSON) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "{}", nil
	}
	return string(r), nil
}

// float64Slice stores an embedding as a JSON array in a text column. Used
// on SQLite, where there is no vector type.
type float64Slice []float64

// Scan implements sql.Scanner.
func (f *float64Slice) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*f = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported embedding column type %T", value)
	}
	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer.
func (f float64Slice) Value() (driver.Value, error) {
	data, err := json.Marshal([]float64(f))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// pgDocumentRow maps the table on Postgres, where embeddings live in a
// pgvector column.
type pgDocumentRow struct {
	ID             string          `gorm:"column:id;primaryKey"`
	UserID         string          `gorm:"column:user_id"`
	CollectionName string          `gorm:"column:collection_name"`
	Text           string          `gorm:"column:text"`
	Embedding      pgvector.Vector `gorm:"column:embedding"`
	Metadata       rawJSON         `gorm:"column:metadata"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

// TableName implements the GORM table name interface.
func (pgDocumentRow) TableName() string { return documentTable }

// sqliteDocumentRow maps the table on SQLite, where embeddings are JSON
// arrays in a text column and similarity is computed in memory.
type sqliteDocumentRow struct {
	ID             string       `gorm:"column:id;primaryKey"`
	UserID         string       `gorm:"column:user_id"`
	CollectionName string       `gorm:"column:collection_name"`
	Text           string       `gorm:"column:text"`
	Embedding      float64Slice `gorm:"column:embedding"`
	Metadata       rawJSON      `gorm:"column:metadata"`
	CreatedAt      time.Time    `gorm:"column:created_at"`
	UpdatedAt      time.Time    `gorm:"column:updated_at"`
}

// TableName implements the GORM table name interface.
func (sqliteDocumentRow) TableName() string { return documentTable }

// toFloat32 converts an embedding for the pgvector column type.
func toFloat32(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}

// toFloat64 converts a pgvector column value back to float64.
func toFloat64(vec []float32) []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = float64(v)
	}
	return out
}
