package interview

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuestionDefaults(t *testing.T) {
	q, err := NewQuestion("Tell me about a conflict", "behavioral", "teamwork", "medium", "answer")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(q.ID, "iq_"))
	assert.Equal(t, 3, q.Confidence)
	assert.Equal(t, 5, q.Importance)
	assert.Zero(t, q.PracticeCount)

	_, err = NewQuestion("", "behavioral", "", "", "")
	assert.Error(t, err)
}

func TestMarkPracticed(t *testing.T) {
	q, err := NewQuestion("Q", "technical", "", "", "")
	require.NoError(t, err)

	q.MarkPracticed()
	q.MarkPracticed()

	assert.Equal(t, 2, q.PracticeCount)
	assert.NotEmpty(t, q.LastPracticed)
}

func TestConfidenceAndImportanceClamp(t *testing.T) {
	q, err := NewQuestion("Q", "technical", "", "", "")
	require.NoError(t, err)

	q.SetConfidence(9)
	assert.Equal(t, 5, q.Confidence)
	q.SetConfidence(-1)
	assert.Equal(t, 1, q.Confidence)

	q.SetImportance(15)
	assert.Equal(t, 10, q.Importance)
	q.SetImportance(0)
	assert.Equal(t, 1, q.Importance)
}

func TestQuestionTextIncludesStarAnswer(t *testing.T) {
	q, err := NewQuestion("Describe a hard bug", "behavioral", "debugging", "hard", "")
	require.NoError(t, err)
	q.AnswerStar = &StarAnswer{
		Situation: "production outage",
		Task:      "find the root cause",
		Action:    "bisected recent deploys",
		Result:    "restored service in an hour",
	}

	text := QuestionText(q)
	assert.Contains(t, text, "Interview Question: Describe a hard bug")
	assert.Contains(t, text, "Situation: production outage")
	assert.Contains(t, text, "Result: restored service in an hour")
}

func TestNewConcept(t *testing.T) {
	c, err := NewConcept("B-trees", "data structures", "balanced tree for range queries")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.ID, "tc_"))

	c.MarkReviewed()
	assert.Equal(t, 1, c.ReviewCount)

	_, err = NewConcept("", "", "")
	assert.Error(t, err)
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("", "", 45)

	assert.True(t, strings.HasPrefix(s.ID, "ps_"))
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), s.Date)
	assert.Equal(t, "general", s.SessionType)
	assert.Equal(t, 45, s.DurationMinutes)

	explicit := NewSession("2026-08-01", "mock_interview", 60)
	assert.Equal(t, "2026-08-01", explicit.Date)
	assert.Equal(t, "mock_interview", explicit.SessionType)
}

func TestSessionText(t *testing.T) {
	s := NewSession("2026-08-01", "behavioral", 30)
	s.AreasToImprove = []string{"conciseness"}

	text := SessionText(s)
	assert.Contains(t, text, "Practice Session: 2026-08-01")
	assert.Contains(t, text, "Duration: 30 minutes")
	assert.Contains(t, text, "Areas to Improve: conciseness")
}

func TestQuestionEncodeDecodeRoundTrip(t *testing.T) {
	q, err := NewQuestion("Q", "technical", "algorithms", "easy", "A")
	require.NoError(t, err)
	q.Tags = []string{"sorting"}

	env, err := EncodeQuestion(q)
	require.NoError(t, err)
	assert.Equal(t, QuestionRecordType, env.RecordType)

	got, err := DecodeQuestion(env)
	require.NoError(t, err)
	assert.Equal(t, q, got)
}
