package note

import (
	"fmt"

	"github.com/jobvault/jobvault/domain/record"
)

// Text renders the note as searchable text.
func Text(n Note) string {
	return fmt.Sprintf("Quick Note: %s\n%s", n.Label, n.Content)
}

// Encode wraps the note in a storage envelope.
func Encode(n Note) (record.Envelope, error) {
	return record.NewEnvelope(RecordType, n.ID, n, Text(n))
}

// Decode rebuilds a note from a stored envelope.
func Decode(env record.Envelope) (Note, error) {
	var n Note
	if err := env.DecodeData(&n); err != nil {
		return Note{}, err
	}
	return n, nil
}
