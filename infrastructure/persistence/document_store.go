// Package persistence implements the hybrid record store: one vector-capable
// relational table holding structured records, their searchable text, and
// their embeddings, partitioned by user and collection.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/jobvault/jobvault/domain/record"
	"github.com/jobvault/jobvault/infrastructure/provider"
	"github.com/jobvault/jobvault/internal/database"
)

// DocumentStore reads and writes records in the vector_documents table.
// Every operation is scoped to one (user, collection) partition. The store
// performs no retries of its own; the embedder owns transient-failure
// handling.
type DocumentStore struct {
	db       database.Database
	embedder provider.Embedder
	adapter  DimensionAdapter
	logger   *slog.Logger
}

// Option is a functional option for DocumentStore.
type Option func(*DocumentStore)

// WithLogger sets the store's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *DocumentStore) { s.logger = logger }
}

// NewDocumentStore creates a store that embeds via the given provider and
// stores vectors at targetDimensions width. When the provider's native width
// exceeds the target, vectors are truncated and the mismatch is logged.
func NewDocumentStore(db database.Database, embedder provider.Embedder, targetDimensions int, opts ...Option) *DocumentStore {
	s := &DocumentStore{
		db:       db,
		embedder: embedder,
		adapter:  NewDimensionAdapter(embedder.Dimension(), targetDimensions),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.adapter.Lossy() {
		s.logger.Warn("embedding vectors will be truncated",
			"native_dimensions", s.adapter.Native(),
			"target_dimensions", s.adapter.Target())
	}

	return s
}

// Adapter returns the store's dimension adapter.
func (s *DocumentStore) Adapter() DimensionAdapter { return s.adapter }

// Upsert stores a record, replacing any existing row with the same logical
// identity (scope + record_type + record_id). The envelope's text is
// embedded in a single provider call; the whole write runs in one
// transaction so the old row never disappears without its replacement.
func (s *DocumentStore) Upsert(ctx context.Context, scope record.Scope, env record.Envelope) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if err := env.Validate(); err != nil {
		return err
	}

	vec, err := s.embedText(ctx, env.Text)
	if err != nil {
		return err
	}

	metadata, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	now := time.Now().UTC()
	rowID := uuid.NewString()

	err = database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		del := tx.Exec(s.deleteByIdentitySQL(), scope.UserID, scope.Collection, env.RecordType, env.RecordID)
		if del.Error != nil {
			return del.Error
		}

		if s.db.IsPostgres() {
			return tx.Create(&pgDocumentRow{
				ID:             rowID,
				UserID:         scope.UserID,
				CollectionName: scope.Collection,
				Text:           env.Text,
				Embedding:      pgvector.NewVector(toFloat32(vec)),
				Metadata:       metadata,
				CreatedAt:      now,
				UpdatedAt:      now,
			}).Error
		}
		return tx.Create(&sqliteDocumentRow{
			ID:             rowID,
			UserID:         scope.UserID,
			CollectionName: scope.Collection,
			Text:           env.Text,
			Embedding:      vec,
			Metadata:       metadata,
			CreatedAt:      now,
			UpdatedAt:      now,
		}).Error
	})
	if err != nil {
		return errors.Join(record.ErrStoreUnavailable, err)
	}

	return nil
}

// Get retrieves one record by logical identity.
func (s *DocumentStore) Get(ctx context.Context, scope record.Scope, recordType, recordID string) (record.Stored, error) {
	if err := scope.Validate(); err != nil {
		return record.Stored{}, err
	}

	var row docRow
	result := s.db.Session(ctx).Table(documentTable).
		Select("id, metadata, created_at, updated_at").
		Where("user_id = ? AND collection_name = ?", scope.UserID, scope.Collection).
		Where(s.metadataExpr("record_type")+" = ?", recordType).
		Where(s.metadataExpr("record_id")+" = ?", recordID).
		Limit(1).
		Take(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return record.Stored{}, fmt.Errorf("%w: %s/%s", record.ErrNotFound, recordType, recordID)
		}
		return record.Stored{}, errors.Join(record.ErrStoreUnavailable, result.Error)
	}

	env, err := parseEnvelope(row.Metadata)
	if err != nil {
		return record.Stored{}, err
	}

	return record.Stored{
		Envelope:  env,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// List returns envelopes of one record type, optionally filtered, sorted,
// and limited on fields of the decoded record data. The record type is
// pushed into SQL; filters and sorting run in memory over the decoded data
// so values compare by type rather than by JSON text. Partitions are
// personal-scale, so the in-memory pass stays cheap.
func (s *DocumentStore) List(ctx context.Context, scope record.Scope, recordType string, opts ...record.ListOption) ([]record.Envelope, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	query := record.BuildListQuery(opts...)

	var rows []docRow
	result := s.db.Session(ctx).Table(documentTable).
		Select("id, metadata, created_at, updated_at").
		Where("user_id = ? AND collection_name = ?", scope.UserID, scope.Collection).
		Where(s.metadataExpr("record_type")+" = ?", recordType).
		Order("created_at ASC, id ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, errors.Join(record.ErrStoreUnavailable, result.Error)
	}

	type decoded struct {
		env  record.Envelope
		data map[string]any
	}
	items := make([]decoded, 0, len(rows))
	for _, row := range rows {
		env, err := parseEnvelope(row.Metadata)
		if err != nil {
			return nil, err
		}

		var data map[string]any
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, record.NewCorruptError(env, err)
		}

		if !matchesFilters(data, query.Filters()) {
			continue
		}
		items = append(items, decoded{env: env, data: data})
	}

	if field := query.SortBy(); field != "" {
		desc := query.Descending()
		sort.SliceStable(items, func(i, j int) bool {
			less := lessValue(items[i].data[field], items[j].data[field])
			if desc {
				return !less && !equalValue(items[i].data[field], items[j].data[field])
			}
			return less
		})
	}

	if limit := query.LimitValue(); limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	envelopes := make([]record.Envelope, len(items))
	for i, item := range items {
		envelopes[i] = item.env
	}
	return envelopes, nil
}

// Search ranks the partition's records by cosine similarity to the query
// text. Scores are 1 - cosine distance; ties break by newest created_at.
// filters are equality conditions on fields of the record data. Rows whose
// metadata cannot be parsed are skipped with a warning rather than failing
// the whole search.
func (s *DocumentStore) Search(ctx context.Context, scope record.Scope, query string, k int, filters map[string]string) ([]record.Match, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []record.Match{}, nil
	}

	vec, err := s.embedText(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.db.IsPostgres() {
		return s.searchPostgres(ctx, scope, vec, k, filters)
	}
	return s.searchSQLite(ctx, scope, vec, k, filters)
}

func (s *DocumentStore) searchPostgres(ctx context.Context, scope record.Scope, vec []float64, k int, filters map[string]string) ([]record.Match, error) {
	qv := pgvector.NewVector(toFloat32(vec))

	var sb strings.Builder
	sb.WriteString(`SELECT metadata, created_at, 1 - (embedding <=> ?::vector) AS score
		FROM vector_documents
		WHERE user_id = ? AND collection_name = ?`)
	args := []any{qv, scope.UserID, scope.Collection}

	for _, key := range sortedKeys(filters) {
		sb.WriteString(` AND metadata->'data'->>? = ?`)
		args = append(args, key, filters[key])
	}

	sb.WriteString(` ORDER BY embedding <=> ?::vector ASC, created_at DESC, id ASC LIMIT ?`)
	args = append(args, qv, k)

	var rows []struct {
		Metadata  rawJSON   `gorm:"column:metadata"`
		CreatedAt time.Time `gorm:"column:created_at"`
		Score     float64   `gorm:"column:score"`
	}
	if err := s.db.Session(ctx).Raw(sb.String(), args...).Scan(&rows).Error; err != nil {
		return nil, errors.Join(record.ErrStoreUnavailable, err)
	}

	matches := make([]record.Match, 0, len(rows))
	for _, row := range rows {
		env, err := parseEnvelope(row.Metadata)
		if err != nil {
			s.logger.Warn("skipping unreadable row in search", "error", err)
			continue
		}
		matches = append(matches, record.Match{
			Envelope:  env,
			Score:     row.Score,
			CreatedAt: row.CreatedAt,
		})
	}
	return matches, nil
}

func (s *DocumentStore) searchSQLite(ctx context.Context, scope record.Scope, vec []float64, k int, filters map[string]string) ([]record.Match, error) {
	var rows []sqliteDocumentRow
	result := s.db.Session(ctx).Table(documentTable).
		Select("id, metadata, embedding, created_at").
		Where("user_id = ? AND collection_name = ?", scope.UserID, scope.Collection).
		Find(&rows)
	if result.Error != nil {
		return nil, errors.Join(record.ErrStoreUnavailable, result.Error)
	}

	candidates := make([]scored, 0, len(rows))
	for _, row := range rows {
		env, err := parseEnvelope(row.Metadata)
		if err != nil {
			s.logger.Warn("skipping unreadable row in search", "error", err)
			continue
		}

		if len(filters) > 0 {
			var data map[string]any
			if err := json.Unmarshal(env.Data, &data); err != nil {
				continue
			}
			if !matchesStringFilters(data, filters) {
				continue
			}
		}

		candidates = append(candidates, scored{
			envelope:  env,
			score:     CosineSimilarity(vec, row.Embedding),
			createdAt: row.CreatedAt,
			rowID:     row.ID,
		})
	}

	top := rankTopK(candidates, k)
	matches := make([]record.Match, len(top))
	for i, c := range top {
		matches[i] = record.Match{
			Envelope:  c.envelope,
			Score:     c.score,
			CreatedAt: c.createdAt,
		}
	}
	return matches, nil
}

// Delete removes one record by logical identity. Returns ErrNotFound when
// no row matched.
func (s *DocumentStore) Delete(ctx context.Context, scope record.Scope, recordType, recordID string) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	result := s.db.Session(ctx).Exec(s.deleteByIdentitySQL(), scope.UserID, scope.Collection, recordType, recordID)
	if result.Error != nil {
		return errors.Join(record.ErrStoreUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s/%s", record.ErrNotFound, recordType, recordID)
	}
	return nil
}

// DeleteByMetadata removes all rows in the partition whose metadata fields
// equal the given values. Keys address top-level envelope fields; a dotted
// key such as "data.resume_id" addresses a field of the record data.
// Returns the number of rows removed.
func (s *DocumentStore) DeleteByMetadata(ctx context.Context, scope record.Scope, filter map[string]string) (int64, error) {
	if err := scope.Validate(); err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return 0, fmt.Errorf("metadata filter is required")
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM " + documentTable + " WHERE user_id = ? AND collection_name = ?")
	args := []any{scope.UserID, scope.Collection}
	for _, key := range sortedKeys(filter) {
		sb.WriteString(" AND " + s.metadataExpr(key) + " = ?")
		args = append(args, filter[key])
	}

	result := s.db.Session(ctx).Exec(sb.String(), args...)
	if result.Error != nil {
		return 0, errors.Join(record.ErrStoreUnavailable, result.Error)
	}
	return result.RowsAffected, nil
}

// Stats summarises the partition: row count, per-record-type counts, and
// the oldest and newest row timestamps.
func (s *DocumentStore) Stats(ctx context.Context, scope record.Scope) (record.CollectionStats, error) {
	if err := scope.Validate(); err != nil {
		return record.CollectionStats{}, err
	}

	var total int64
	err := s.db.Session(ctx).Table(documentTable).
		Where("user_id = ? AND collection_name = ?", scope.UserID, scope.Collection).
		Count(&total).Error
	if err != nil {
		return record.CollectionStats{}, errors.Join(record.ErrStoreUnavailable, err)
	}

	// MIN/MAX aggregates strip the column's declared type on SQLite, so the
	// boundary timestamps come from ordered single-row selects instead.
	var oldest, newest *time.Time
	if total > 0 {
		first, err := s.boundaryTimestamp(ctx, scope, "ASC")
		if err != nil {
			return record.CollectionStats{}, err
		}
		last, err := s.boundaryTimestamp(ctx, scope, "DESC")
		if err != nil {
			return record.CollectionStats{}, err
		}
		oldest, newest = first, last
	}

	typeExpr := s.metadataExpr("record_type")
	var counts []struct {
		RecordType *string `gorm:"column:record_type"`
		Count      int64   `gorm:"column:count"`
	}
	err = s.db.Session(ctx).Table(documentTable).
		Select(typeExpr+" AS record_type, COUNT(*) AS count").
		Where("user_id = ? AND collection_name = ?", scope.UserID, scope.Collection).
		Group(typeExpr).
		Find(&counts).Error
	if err != nil {
		return record.CollectionStats{}, errors.Join(record.ErrStoreUnavailable, err)
	}

	byType := make(map[string]int64, len(counts))
	for _, c := range counts {
		name := "unknown"
		if c.RecordType != nil && *c.RecordType != "" {
			name = *c.RecordType
		}
		byType[name] = c.Count
	}

	return record.CollectionStats{
		TotalRows:       total,
		ByRecordType:    byType,
		OldestCreatedAt: oldest,
		NewestCreatedAt: newest,
	}, nil
}

// boundaryTimestamp returns the partition's oldest or newest created_at,
// depending on direction.
func (s *DocumentStore) boundaryTimestamp(ctx context.Context, scope record.Scope, direction string) (*time.Time, error) {
	var row struct {
		CreatedAt time.Time `gorm:"column:created_at"`
	}
	result := s.db.Session(ctx).Table(documentTable).
		Select("created_at").
		Where("user_id = ? AND collection_name = ?", scope.UserID, scope.Collection).
		Order("created_at " + direction + ", id " + direction).
		Limit(1).
		Take(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Join(record.ErrStoreUnavailable, result.Error)
	}
	ts := row.CreatedAt
	return &ts, nil
}

// docRow is the neutral scan target for reads that do not need the
// embedding column.
type docRow struct {
	ID        string    `gorm:"column:id"`
	Metadata  rawJSON   `gorm:"column:metadata"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (s *DocumentStore) embedText(ctx context.Context, text string) ([]float64, error) {
	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, errors.Join(record.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != 1 {
		return nil, errors.Join(record.ErrEmbeddingUnavailable,
			fmt.Errorf("expected 1 vector, got %d", len(vectors)))
	}
	return s.adapter.Reduce(vectors[0]), nil
}

// deleteByIdentitySQL builds the delete statement for one logical record.
func (s *DocumentStore) deleteByIdentitySQL() string {
	return "DELETE FROM " + documentTable +
		" WHERE user_id = ? AND collection_name = ?" +
		" AND " + s.metadataExpr("record_type") + " = ?" +
		" AND " + s.metadataExpr("record_id") + " = ?"
}

// metadataExpr returns the dialect expression extracting a metadata field
// as text. A dotted key such as "data.resume_id" addresses one level into
// the record data. key is always an internal constant, never user input.
func (s *DocumentStore) metadataExpr(key string) string {
	if s.db.IsPostgres() {
		if parent, child, ok := strings.Cut(key, "."); ok {
			return fmt.Sprintf("metadata->'%s'->>'%s'", parent, child)
		}
		return fmt.Sprintf("metadata->>'%s'", key)
	}
	return fmt.Sprintf("json_extract(metadata, '$.%s')", key)
}

func parseEnvelope(metadata rawJSON) (record.Envelope, error) {
	var env record.Envelope
	if err := json.Unmarshal(metadata, &env); err != nil {
		return record.Envelope{}, record.NewCorruptPayload(metadata, err)
	}
	return env, nil
}

func matchesFilters(data map[string]any, filters []record.Filter) bool {
	for _, f := range filters {
		value, ok := data[f.Field()]
		if !ok || fmt.Sprint(value) != fmt.Sprint(f.Value()) {
			return false
		}
	}
	return true
}

func matchesStringFilters(data map[string]any, filters map[string]string) bool {
	for key, want := range filters {
		value, ok := data[key]
		if !ok || fmt.Sprint(value) != want {
			return false
		}
	}
	return true
}

// lessValue orders two decoded JSON values: numbers numerically when both
// sides are numbers, everything else by string form.
func lessValue(a, b any) bool {
	na, aok := a.(float64)
	nb, bok := b.(float64)
	if aok && bok {
		return na < nb
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func equalValue(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
