package record

import (
	"errors"
	"fmt"
)

// Error taxonomy for store operations. Callers branch on these with
// errors.Is; the concrete cause is always wrapped underneath.
var (
	// ErrEmbeddingUnavailable indicates the embedding provider failed after
	// its own retry policy was exhausted. Retryable by the caller.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrStoreUnavailable indicates the database rejected the operation.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrCorruptRecord indicates a stored envelope could not be decoded into
	// its record type.
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrNotFound indicates no record matched the given identity.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateRecord indicates a create was rejected because an
	// equivalent record already exists.
	ErrDuplicateRecord = errors.New("duplicate record")
)

// CorruptError carries the raw envelope of a row that failed to decode so
// the damaged payload can be inspected rather than silently dropped. When
// the stored metadata itself would not parse, RawJSON holds the payload and
// Raw is zero.
type CorruptError struct {
	Raw     Envelope
	RawJSON []byte
	cause   error
}

// NewCorruptError wraps a decode failure with the offending envelope.
func NewCorruptError(raw Envelope, cause error) *CorruptError {
	return &CorruptError{Raw: raw, cause: cause}
}

// NewCorruptPayload wraps a metadata parse failure with the raw bytes.
func NewCorruptPayload(rawJSON []byte, cause error) *CorruptError {
	return &CorruptError{RawJSON: rawJSON, cause: cause}
}

// Error implements the error interface.
func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt record %s/%s: %v", e.Raw.RecordType, e.Raw.RecordID, e.cause)
}

// Is reports ErrCorruptRecord identity for errors.Is.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorruptRecord
}

// Unwrap returns the decode failure.
func (e *CorruptError) Unwrap() error {
	return e.cause
}
