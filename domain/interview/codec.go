package interview

import (
	"fmt"
	"strings"

	"github.com/jobvault/jobvault/domain/record"
)

// QuestionText renders a question as searchable text.
func QuestionText(q Question) string {
	parts := []string{
		fmt.Sprintf("Interview Question: %s", q.Question),
		fmt.Sprintf("Type: %s", q.Type),
		fmt.Sprintf("Category: %s", q.Category),
		fmt.Sprintf("Difficulty: %s", q.Difficulty),
	}

	if q.AnswerFull != "" {
		parts = append(parts, fmt.Sprintf("Answer: %s", q.AnswerFull))
	}
	if q.AnswerStar != nil {
		star := q.AnswerStar
		if star.Situation != "" {
			parts = append(parts, fmt.Sprintf("Situation: %s", star.Situation))
		}
		if star.Task != "" {
			parts = append(parts, fmt.Sprintf("Task: %s", star.Task))
		}
		if star.Action != "" {
			parts = append(parts, fmt.Sprintf("Action: %s", star.Action))
		}
		if star.Result != "" {
			parts = append(parts, fmt.Sprintf("Result: %s", star.Result))
		}
	}
	if len(q.Companies) > 0 {
		parts = append(parts, fmt.Sprintf("Companies: %s", strings.Join(q.Companies, ", ")))
	}
	if len(q.Tags) > 0 {
		parts = append(parts, fmt.Sprintf("Tags: %s", strings.Join(q.Tags, ", ")))
	}
	if q.Notes != "" {
		parts = append(parts, fmt.Sprintf("Notes: %s", q.Notes))
	}

	return strings.Join(parts, "\n")
}

// ConceptText renders a concept as searchable text.
func ConceptText(c Concept) string {
	parts := []string{
		fmt.Sprintf("Technical Concept: %s", c.Concept),
		fmt.Sprintf("Category: %s", c.Category),
		fmt.Sprintf("Content: %s", c.Content),
	}
	if len(c.KeyPoints) > 0 {
		parts = append(parts, fmt.Sprintf("Key Points: %s", strings.Join(c.KeyPoints, ", ")))
	}
	if len(c.Tags) > 0 {
		parts = append(parts, fmt.Sprintf("Tags: %s", strings.Join(c.Tags, ", ")))
	}
	return strings.Join(parts, "\n")
}

// SessionText renders a practice session as searchable text.
func SessionText(s Session) string {
	parts := []string{
		fmt.Sprintf("Practice Session: %s", s.Date),
		fmt.Sprintf("Type: %s", s.SessionType),
		fmt.Sprintf("Duration: %d minutes", s.DurationMinutes),
	}
	if s.Notes != "" {
		parts = append(parts, fmt.Sprintf("Notes: %s", s.Notes))
	}
	if len(s.AreasToImprove) > 0 {
		parts = append(parts, fmt.Sprintf("Areas to Improve: %s", strings.Join(s.AreasToImprove, ", ")))
	}
	if len(s.NextGoals) > 0 {
		parts = append(parts, fmt.Sprintf("Next Goals: %s", strings.Join(s.NextGoals, ", ")))
	}
	return strings.Join(parts, "\n")
}

// EncodeQuestion wraps a question in a storage envelope.
func EncodeQuestion(q Question) (record.Envelope, error) {
	return record.NewEnvelope(QuestionRecordType, q.ID, q, QuestionText(q))
}

// DecodeQuestion rebuilds a question from a stored envelope.
func DecodeQuestion(env record.Envelope) (Question, error) {
	var q Question
	if err := env.DecodeData(&q); err != nil {
		return Question{}, err
	}
	return q, nil
}

// EncodeConcept wraps a concept in a storage envelope.
func EncodeConcept(c Concept) (record.Envelope, error) {
	return record.NewEnvelope(ConceptRecordType, c.ID, c, ConceptText(c))
}

// DecodeConcept rebuilds a concept from a stored envelope.
func DecodeConcept(env record.Envelope) (Concept, error) {
	var c Concept
	if err := env.DecodeData(&c); err != nil {
		return Concept{}, err
	}
	return c, nil
}

// EncodeSession wraps a practice session in a storage envelope.
func EncodeSession(s Session) (record.Envelope, error) {
	return record.NewEnvelope(SessionRecordType, s.ID, s, SessionText(s))
}

// DecodeSession rebuilds a practice session from a stored envelope.
func DecodeSession(env record.Envelope) (Session, error) {
	var s Session
	if err := env.DecodeData(&s); err != nil {
		return Session{}, err
	}
	return s, nil
}
