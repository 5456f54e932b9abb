// Package record defines the shared vocabulary for documents stored in the
// vector table: the metadata envelope, partition scoping, query options, and
// the error taxonomy.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Envelope is the metadata payload stored alongside every document row.
// Together with the row's user and collection it forms the logical identity
// of a record: one row per (user, collection, record_type, record_id).
type Envelope struct {
	RecordType string          `json:"record_type"`
	RecordID   string          `json:"record_id"`
	Data       json.RawMessage `json:"data"`
	Text       string          `json:"text"`
}

// NewEnvelope builds an envelope from a typed record. The data value is
// marshalled to JSON; text is the searchable rendering that gets embedded.
func NewEnvelope(recordType, recordID string, data any, text string) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal record data: %w", err)
	}
	return Envelope{
		RecordType: recordType,
		RecordID:   recordID,
		Data:       raw,
		Text:       text,
	}, nil
}

// DecodeData unmarshals the envelope's data payload into v. A payload that
// cannot be decoded is reported as a corrupt record with the raw envelope
// attached for inspection.
func (e Envelope) DecodeData(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return NewCorruptError(e, err)
	}
	return nil
}

// Validate checks the envelope's identity fields.
func (e Envelope) Validate() error {
	if e.RecordType == "" {
		return errors.New("record type is required")
	}
	if e.RecordID == "" {
		return errors.New("record id is required")
	}
	return nil
}

// Scope identifies a storage partition. Every store operation is bound to
// exactly one scope; there is no cross-partition access.
type Scope struct {
	UserID     string
	Collection string
}

// NewScope creates a Scope.
func NewScope(userID, collection string) Scope {
	return Scope{UserID: userID, Collection: collection}
}

// Validate checks that both partition fields are present.
func (s Scope) Validate() error {
	if s.UserID == "" {
		return errors.New("user id is required")
	}
	if s.Collection == "" {
		return errors.New("collection is required")
	}
	return nil
}

// Match is a similarity search result: the stored envelope plus its cosine
// similarity score in [-1, 1], where 1 means identical direction.
type Match struct {
	Envelope  Envelope
	Score     float64
	CreatedAt time.Time
}

// Stored is a retrieved envelope with its row timestamps.
type Stored struct {
	Envelope  Envelope
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CollectionStats summarises one partition.
type CollectionStats struct {
	TotalRows       int64
	ByRecordType    map[string]int64
	OldestCreatedAt *time.Time
	NewestCreatedAt *time.Time
}
