package service

import (
	"context"
	"log/slog"

	"github.com/jobvault/jobvault/domain/record"
	"github.com/jobvault/jobvault/domain/resume"
	"github.com/jobvault/jobvault/infrastructure/persistence"
)

// Resumes manages the resumes collection: masters, tailored copies, and
// version snapshots.
type Resumes struct {
	store  *persistence.DocumentStore
	logger *slog.Logger
}

// NewResumes creates the resumes facade.
func NewResumes(store *persistence.DocumentStore, logger *slog.Logger) *Resumes {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resumes{store: store, logger: logger}
}

func (s *Resumes) scope(userID string) record.Scope {
	return record.NewScope(userID, resume.Collection)
}

// Create stores a new master resume and its initial version snapshot.
func (s *Resumes) Create(ctx context.Context, userID, name, fullText string, skills []string) (resume.Resume, error) {
	r, err := resume.New(name, fullText, skills)
	if err != nil {
		return resume.Resume{}, err
	}
	if err := s.sync(ctx, userID, r); err != nil {
		return resume.Resume{}, err
	}
	if err := s.snapshot(ctx, userID, resume.Snapshot(r, "Initial version", "user")); err != nil {
		return resume.Resume{}, err
	}

	s.logger.InfoContext(ctx, "resume created", "resume_id", r.ID, "name", r.Name)
	return r, nil
}

// Get retrieves one resume by id.
func (s *Resumes) Get(ctx context.Context, userID, resumeID string) (resume.Resume, error) {
	stored, err := s.store.Get(ctx, s.scope(userID), resume.RecordType, resumeID)
	if err != nil {
		return resume.Resume{}, err
	}
	return resume.Decode(stored.Envelope)
}

// List returns all resumes, masters first within insertion order.
func (s *Resumes) List(ctx context.Context, userID string) ([]resume.Resume, error) {
	envelopes, err := s.store.List(ctx, s.scope(userID), resume.RecordType,
		record.WithSort("created_at", false))
	if err != nil {
		return nil, err
	}

	resumes := make([]resume.Resume, 0, len(envelopes))
	for _, env := range envelopes {
		r, err := resume.Decode(env)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, r)
	}
	return resumes, nil
}

// Tailor creates a tailored copy of a resume for a specific job.
func (s *Resumes) Tailor(ctx context.Context, userID, resumeID, jobID, company, notes string) (resume.Resume, error) {
	master, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return resume.Resume{}, err
	}

	tailored := resume.Tailor(master, jobID, company, notes)
	if err := s.sync(ctx, userID, tailored); err != nil {
		return resume.Resume{}, err
	}

	s.logger.InfoContext(ctx, "resume tailored",
		"resume_id", tailored.ID, "parent_id", master.ID, "company", company)
	return tailored, nil
}

// Save re-syncs a resume after external mutation.
func (s *Resumes) Save(ctx context.Context, userID string, r resume.Resume) error {
	if _, err := s.Get(ctx, userID, r.ID); err != nil {
		return err
	}
	r.Touch()
	return s.sync(ctx, userID, r)
}

// SnapshotVersion records the resume's current content as a version.
func (s *Resumes) SnapshotVersion(ctx context.Context, userID, resumeID, changesSummary, changedBy string) (resume.Version, error) {
	r, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return resume.Version{}, err
	}

	v := resume.Snapshot(r, changesSummary, changedBy)
	if err := s.snapshot(ctx, userID, v); err != nil {
		return resume.Version{}, err
	}
	return v, nil
}

// ListVersions returns the snapshots for one resume, oldest first.
func (s *Resumes) ListVersions(ctx context.Context, userID, resumeID string) ([]resume.Version, error) {
	envelopes, err := s.store.List(ctx, s.scope(userID), resume.VersionRecordType,
		record.WithFilter("resume_id", resumeID),
		record.WithSort("created_at", false))
	if err != nil {
		return nil, err
	}

	versions := make([]resume.Version, 0, len(envelopes))
	for _, env := range envelopes {
		v, err := resume.DecodeVersion(env)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// MarkUsed records that a resume backed an application.
func (s *Resumes) MarkUsed(ctx context.Context, userID, resumeID string) (resume.Resume, error) {
	r, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return resume.Resume{}, err
	}
	r.MarkUsed()
	if err := s.sync(ctx, userID, r); err != nil {
		return resume.Resume{}, err
	}
	return r, nil
}

// Delete removes a resume and its version snapshots.
func (s *Resumes) Delete(ctx context.Context, userID, resumeID string) error {
	if err := s.store.Delete(ctx, s.scope(userID), resume.RecordType, resumeID); err != nil {
		return err
	}

	removed, err := s.store.DeleteByMetadata(ctx, s.scope(userID), map[string]string{
		"record_type":    resume.VersionRecordType,
		"data.resume_id": resumeID,
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "resume deleted", "resume_id", resumeID, "versions_removed", removed)
	return nil
}

// ResumeMatch is a semantic search hit.
type ResumeMatch struct {
	Resume resume.Resume
	Score  float64
}

// Search ranks resumes by semantic similarity to the query. Version
// snapshots are excluded.
func (s *Resumes) Search(ctx context.Context, userID, query string, limit int) ([]ResumeMatch, error) {
	found, err := s.store.Search(ctx, s.scope(userID), query, limit, nil)
	if err != nil {
		return nil, err
	}

	matches := make([]ResumeMatch, 0, len(found))
	for _, m := range found {
		if m.Envelope.RecordType != resume.RecordType {
			continue
		}
		r, err := resume.Decode(m.Envelope)
		if err != nil {
			return nil, err
		}
		matches = append(matches, ResumeMatch{Resume: r, Score: m.Score})
	}
	return matches, nil
}

func (s *Resumes) sync(ctx context.Context, userID string, r resume.Resume) error {
	env, err := resume.Encode(r)
	if err != nil {
		return err
	}
	return s.store.Upsert(ctx, s.scope(userID), env)
}

func (s *Resumes) snapshot(ctx context.Context, userID string, v resume.Version) error {
	env, err := resume.EncodeVersion(v)
	if err != nil {
		return err
	}
	return s.store.Upsert(ctx, s.scope(userID), env)
}
