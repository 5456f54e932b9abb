// Package interview models interview preparation material: questions with
// prepared answers, technical concepts, and practice sessions. All three
// record types share one collection so a single semantic query spans them.
package interview

import (
	"fmt"
	"time"

	"github.com/jobvault/jobvault/domain/record"
)

// Record types stored in the interview prep collection.
const (
	QuestionRecordType = "question"
	ConceptRecordType  = "concept"
	SessionRecordType  = "practice_session"
)

// Collection is the storage partition for interview prep material.
const Collection = "interview_prep"

// StarAnswer is a behavioural answer in STAR format.
type StarAnswer struct {
	Situation string `json:"situation,omitempty"`
	Task      string `json:"task,omitempty"`
	Action    string `json:"action,omitempty"`
	Result    string `json:"result,omitempty"`
}

// Question is an interview question with a prepared answer and practice
// tracking. Type is behavioral, technical, system-design, or case-study.
type Question struct {
	ID            string      `json:"id"`
	Question      string      `json:"question"`
	Type          string      `json:"type"`
	Category      string      `json:"category"`
	Difficulty    string      `json:"difficulty"`
	AnswerFull    string      `json:"answer_full"`
	AnswerStar    *StarAnswer `json:"answer_star,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	Companies     []string    `json:"companies,omitempty"`
	LastPracticed string      `json:"last_practiced,omitempty"`
	PracticeCount int         `json:"practice_count"`
	Confidence    int         `json:"confidence_level"`
	Importance    int         `json:"importance"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     string      `json:"updated_at"`
}

// NewQuestion creates a question with default confidence 3 and importance 5.
func NewQuestion(question, qType, category, difficulty, answer string) (Question, error) {
	if question == "" {
		return Question{}, fmt.Errorf("question text is required")
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return Question{
		ID:         record.NewID("iq"),
		Question:   question,
		Type:       qType,
		Category:   category,
		Difficulty: difficulty,
		AnswerFull: answer,
		Confidence: 3,
		Importance: 5,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// MarkPracticed records a practice run.
func (q *Question) MarkPracticed() {
	now := time.Now().UTC().Format(time.RFC3339)
	q.LastPracticed = now
	q.PracticeCount++
	q.UpdatedAt = now
}

// SetConfidence clamps level to 1-5 and updates the question.
func (q *Question) SetConfidence(level int) {
	q.Confidence = clamp(level, 1, 5)
	q.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// SetImportance clamps level to 1-10 and updates the question.
func (q *Question) SetImportance(level int) {
	q.Importance = clamp(level, 1, 10)
	q.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// Concept is a technical knowledge entry.
type Concept struct {
	ID          string   `json:"id"`
	Concept     string   `json:"concept"`
	Category    string   `json:"category"`
	Content     string   `json:"content"`
	KeyPoints   []string `json:"key_points,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Resources   []string `json:"resources,omitempty"`
	ReviewCount int      `json:"review_count"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// NewConcept creates a technical concept entry.
func NewConcept(concept, category, content string) (Concept, error) {
	if concept == "" {
		return Concept{}, fmt.Errorf("concept name is required")
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return Concept{
		ID:        record.NewID("tc"),
		Concept:   concept,
		Category:  category,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MarkReviewed records a review pass.
func (c *Concept) MarkReviewed() {
	c.ReviewCount++
	c.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// Session records one practice session.
type Session struct {
	ID              string   `json:"id"`
	Date            string   `json:"date"`
	QuestionIDs     []string `json:"questions_practiced,omitempty"`
	DurationMinutes int      `json:"duration_minutes"`
	Notes           string   `json:"notes,omitempty"`
	AreasToImprove  []string `json:"areas_to_improve,omitempty"`
	NextGoals       []string `json:"next_goals,omitempty"`
	SessionType     string   `json:"session_type"`
	CreatedAt       string   `json:"created_at"`
}

// NewSession creates a practice session. An empty date defaults to today;
// an empty sessionType defaults to "general".
func NewSession(date, sessionType string, durationMinutes int) Session {
	now := time.Now().UTC()
	if date == "" {
		date = now.Format("2006-01-02")
	}
	if sessionType == "" {
		sessionType = "general"
	}
	return Session{
		ID:              record.NewID("ps"),
		Date:            date,
		SessionType:     sessionType,
		DurationMinutes: durationMinutes,
		CreatedAt:       now.Format(time.RFC3339),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
