// Package note models quick notes: small labelled snippets of text, links,
// or code kept for fast recall.
package note

import (
	"fmt"
	"time"

	"github.com/jobvault/jobvault/domain/record"
)

// RecordType is the stored record type for quick notes.
const RecordType = "quick_note"

// Collection is the storage partition for quick notes.
const Collection = "quick_notes"

// Note is a quick note. Type is free-form: text, url, code.
type Note struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Content   string `json:"content"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// New creates a quick note. An empty noteType defaults to "text".
func New(label, content, noteType string) (Note, error) {
	if label == "" {
		return Note{}, fmt.Errorf("note label is required")
	}
	if noteType == "" {
		noteType = "text"
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return Note{
		ID:        record.NewID("note"),
		Label:     label,
		Content:   content,
		Type:      noteType,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Touch refreshes the updated timestamp.
func (n *Note) Touch() {
	n.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}
