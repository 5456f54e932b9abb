package service

import (
	"context"
	"log/slog"

	"github.com/jobvault/jobvault/domain/note"
	"github.com/jobvault/jobvault/domain/record"
	"github.com/jobvault/jobvault/infrastructure/persistence"
)

// Notes manages the quick notes collection.
type Notes struct {
	store  *persistence.DocumentStore
	logger *slog.Logger
}

// NewNotes creates the quick notes facade.
func NewNotes(store *persistence.DocumentStore, logger *slog.Logger) *Notes {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notes{store: store, logger: logger}
}

func (s *Notes) scope(userID string) record.Scope {
	return record.NewScope(userID, note.Collection)
}

// Add stores a new quick note.
func (s *Notes) Add(ctx context.Context, userID, label, content, noteType string) (note.Note, error) {
	n, err := note.New(label, content, noteType)
	if err != nil {
		return note.Note{}, err
	}
	if err := s.sync(ctx, userID, n); err != nil {
		return note.Note{}, err
	}

	s.logger.InfoContext(ctx, "note added", "note_id", n.ID, "label", n.Label)
	return n, nil
}

// Get retrieves one note by id.
func (s *Notes) Get(ctx context.Context, userID, noteID string) (note.Note, error) {
	stored, err := s.store.Get(ctx, s.scope(userID), note.RecordType, noteID)
	if err != nil {
		return note.Note{}, err
	}
	return note.Decode(stored.Envelope)
}

// List returns all notes, newest first.
func (s *Notes) List(ctx context.Context, userID string) ([]note.Note, error) {
	envelopes, err := s.store.List(ctx, s.scope(userID), note.RecordType,
		record.WithSort("created_at", true))
	if err != nil {
		return nil, err
	}

	notes := make([]note.Note, 0, len(envelopes))
	for _, env := range envelopes {
		n, err := note.Decode(env)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// Update edits a note in place. Empty fields keep their current value.
func (s *Notes) Update(ctx context.Context, userID, noteID, label, content, noteType string) (note.Note, error) {
	n, err := s.Get(ctx, userID, noteID)
	if err != nil {
		return note.Note{}, err
	}

	if label != "" {
		n.Label = label
	}
	if content != "" {
		n.Content = content
	}
	if noteType != "" {
		n.Type = noteType
	}
	n.Touch()

	if err := s.sync(ctx, userID, n); err != nil {
		return note.Note{}, err
	}
	return n, nil
}

// Delete removes a note.
func (s *Notes) Delete(ctx context.Context, userID, noteID string) error {
	return s.store.Delete(ctx, s.scope(userID), note.RecordType, noteID)
}

// NoteMatch is a semantic search hit.
type NoteMatch struct {
	Note  note.Note
	Score float64
}

// Search ranks notes by semantic similarity to the query.
func (s *Notes) Search(ctx context.Context, userID, query string, limit int) ([]NoteMatch, error) {
	found, err := s.store.Search(ctx, s.scope(userID), query, limit, nil)
	if err != nil {
		return nil, err
	}

	matches := make([]NoteMatch, 0, len(found))
	for _, m := range found {
		if m.Envelope.RecordType != note.RecordType {
			continue
		}
		n, err := note.Decode(m.Envelope)
		if err != nil {
			return nil, err
		}
		matches = append(matches, NoteMatch{Note: n, Score: m.Score})
	}
	return matches, nil
}

func (s *Notes) sync(ctx context.Context, userID string, n note.Note) error {
	env, err := note.Encode(n)
	if err != nil {
		return err
	}
	return s.store.Upsert(ctx, s.scope(userID), env)
}
