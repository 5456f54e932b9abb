package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jobvault/jobvault/domain/interview"
	"github.com/jobvault/jobvault/domain/record"
	"github.com/jobvault/jobvault/infrastructure/persistence"
)

// InterviewPrep manages the interview prep collection. Questions, concepts,
// and practice sessions share one partition so one semantic query spans all
// three.
type InterviewPrep struct {
	store  *persistence.DocumentStore
	logger *slog.Logger
}

// NewInterviewPrep creates the interview prep facade.
func NewInterviewPrep(store *persistence.DocumentStore, logger *slog.Logger) *InterviewPrep {
	if logger == nil {
		logger = slog.Default()
	}
	return &InterviewPrep{store: store, logger: logger}
}

func (s *InterviewPrep) scope(userID string) record.Scope {
	return record.NewScope(userID, interview.Collection)
}

// AddQuestion stores a new interview question.
func (s *InterviewPrep) AddQuestion(ctx context.Context, userID string, q interview.Question) (interview.Question, error) {
	if err := s.syncQuestion(ctx, userID, q); err != nil {
		return interview.Question{}, err
	}
	s.logger.InfoContext(ctx, "question added", "question_id", q.ID, "category", q.Category)
	return q, nil
}

// GetQuestion retrieves one question by id.
func (s *InterviewPrep) GetQuestion(ctx context.Context, userID, questionID string) (interview.Question, error) {
	stored, err := s.store.Get(ctx, s.scope(userID), interview.QuestionRecordType, questionID)
	if err != nil {
		return interview.Question{}, err
	}
	return interview.DecodeQuestion(stored.Envelope)
}

// ListQuestionsQuery filters a question listing.
type ListQuestionsQuery struct {
	Type     string
	Category string
}

// ListQuestions returns questions ordered by importance, highest first.
func (s *InterviewPrep) ListQuestions(ctx context.Context, userID string, q ListQuestionsQuery) ([]interview.Question, error) {
	opts := []record.ListOption{record.WithSort("importance", true)}
	if q.Type != "" {
		opts = append(opts, record.WithFilter("type", q.Type))
	}
	if q.Category != "" {
		opts = append(opts, record.WithFilter("category", q.Category))
	}

	envelopes, err := s.store.List(ctx, s.scope(userID), interview.QuestionRecordType, opts...)
	if err != nil {
		return nil, err
	}

	questions := make([]interview.Question, 0, len(envelopes))
	for _, env := range envelopes {
		question, err := interview.DecodeQuestion(env)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// SaveQuestion re-syncs a question after external mutation.
func (s *InterviewPrep) SaveQuestion(ctx context.Context, userID string, q interview.Question) error {
	if _, err := s.GetQuestion(ctx, userID, q.ID); err != nil {
		return err
	}
	return s.syncQuestion(ctx, userID, q)
}

// MarkQuestionPracticed records a practice run and optionally adjusts
// confidence. A confidence of zero leaves the current level unchanged.
func (s *InterviewPrep) MarkQuestionPracticed(ctx context.Context, userID, questionID string, confidence int) (interview.Question, error) {
	q, err := s.GetQuestion(ctx, userID, questionID)
	if err != nil {
		return interview.Question{}, err
	}

	q.MarkPracticed()
	if confidence != 0 {
		q.SetConfidence(confidence)
	}
	if err := s.syncQuestion(ctx, userID, q); err != nil {
		return interview.Question{}, err
	}
	return q, nil
}

// DeleteQuestion removes a question.
func (s *InterviewPrep) DeleteQuestion(ctx context.Context, userID, questionID string) error {
	return s.store.Delete(ctx, s.scope(userID), interview.QuestionRecordType, questionID)
}

// AddConcept stores a new technical concept.
func (s *InterviewPrep) AddConcept(ctx context.Context, userID string, c interview.Concept) (interview.Concept, error) {
	if err := s.syncConcept(ctx, userID, c); err != nil {
		return interview.Concept{}, err
	}
	s.logger.InfoContext(ctx, "concept added", "concept_id", c.ID, "category", c.Category)
	return c, nil
}

// GetConcept retrieves one concept by id.
func (s *InterviewPrep) GetConcept(ctx context.Context, userID, conceptID string) (interview.Concept, error) {
	stored, err := s.store.Get(ctx, s.scope(userID), interview.ConceptRecordType, conceptID)
	if err != nil {
		return interview.Concept{}, err
	}
	return interview.DecodeConcept(stored.Envelope)
}

// ListConcepts returns concepts, optionally filtered by category, newest
// first.
func (s *InterviewPrep) ListConcepts(ctx context.Context, userID, category string) ([]interview.Concept, error) {
	opts := []record.ListOption{record.WithSort("created_at", true)}
	if category != "" {
		opts = append(opts, record.WithFilter("category", category))
	}

	envelopes, err := s.store.List(ctx, s.scope(userID), interview.ConceptRecordType, opts...)
	if err != nil {
		return nil, err
	}

	concepts := make([]interview.Concept, 0, len(envelopes))
	for _, env := range envelopes {
		c, err := interview.DecodeConcept(env)
		if err != nil {
			return nil, err
		}
		concepts = append(concepts, c)
	}
	return concepts, nil
}

// MarkConceptReviewed records a review pass.
func (s *InterviewPrep) MarkConceptReviewed(ctx context.Context, userID, conceptID string) (interview.Concept, error) {
	c, err := s.GetConcept(ctx, userID, conceptID)
	if err != nil {
		return interview.Concept{}, err
	}
	c.MarkReviewed()
	if err := s.syncConcept(ctx, userID, c); err != nil {
		return interview.Concept{}, err
	}
	return c, nil
}

// DeleteConcept removes a concept.
func (s *InterviewPrep) DeleteConcept(ctx context.Context, userID, conceptID string) error {
	return s.store.Delete(ctx, s.scope(userID), interview.ConceptRecordType, conceptID)
}

// LogSession records a practice session and bumps the practice count of
// every question it covered.
func (s *InterviewPrep) LogSession(ctx context.Context, userID string, session interview.Session) (interview.Session, error) {
	env, err := interview.EncodeSession(session)
	if err != nil {
		return interview.Session{}, err
	}
	if err := s.store.Upsert(ctx, s.scope(userID), env); err != nil {
		return interview.Session{}, err
	}

	for _, questionID := range session.QuestionIDs {
		if _, err := s.MarkQuestionPracticed(ctx, userID, questionID, 0); err != nil {
			if errors.Is(err, record.ErrNotFound) {
				continue
			}
			return interview.Session{}, err
		}
	}

	s.logger.InfoContext(ctx, "practice session logged",
		"session_id", session.ID, "questions", len(session.QuestionIDs))
	return session, nil
}

// ListSessions returns practice sessions, newest first.
func (s *InterviewPrep) ListSessions(ctx context.Context, userID string) ([]interview.Session, error) {
	envelopes, err := s.store.List(ctx, s.scope(userID), interview.SessionRecordType,
		record.WithSort("date", true))
	if err != nil {
		return nil, err
	}

	sessions := make([]interview.Session, 0, len(envelopes))
	for _, env := range envelopes {
		session, err := interview.DecodeSession(env)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// PrepMatch is a semantic search hit from the shared collection. Exactly one
// of Question, Concept, or Session is set, indicated by RecordType.
type PrepMatch struct {
	RecordType string
	Score      float64
	Question   *interview.Question
	Concept    *interview.Concept
	Session    *interview.Session
}

// Search ranks questions, concepts, and sessions together by semantic
// similarity to the query.
func (s *InterviewPrep) Search(ctx context.Context, userID, query string, limit int) ([]PrepMatch, error) {
	found, err := s.store.Search(ctx, s.scope(userID), query, limit, nil)
	if err != nil {
		return nil, err
	}

	matches := make([]PrepMatch, 0, len(found))
	for _, m := range found {
		match := PrepMatch{RecordType: m.Envelope.RecordType, Score: m.Score}
		switch m.Envelope.RecordType {
		case interview.QuestionRecordType:
			q, err := interview.DecodeQuestion(m.Envelope)
			if err != nil {
				return nil, err
			}
			match.Question = &q
		case interview.ConceptRecordType:
			c, err := interview.DecodeConcept(m.Envelope)
			if err != nil {
				return nil, err
			}
			match.Concept = &c
		case interview.SessionRecordType:
			session, err := interview.DecodeSession(m.Envelope)
			if err != nil {
				return nil, err
			}
			match.Session = &session
		default:
			continue
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (s *InterviewPrep) syncQuestion(ctx context.Context, userID string, q interview.Question) error {
	env, err := interview.EncodeQuestion(q)
	if err != nil {
		return err
	}
	return s.store.Upsert(ctx, s.scope(userID), env)
}

func (s *InterviewPrep) syncConcept(ctx context.Context, userID string, c interview.Concept) error {
	env, err := interview.EncodeConcept(c)
	if err != nil {
		return err
	}
	return s.store.Upsert(ctx, s.scope(userID), env)
}
