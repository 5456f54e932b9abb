package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobvault/jobvault/application/service"
	"github.com/jobvault/jobvault/domain/interview"
	"github.com/jobvault/jobvault/domain/record"
)

func newInterviewPrep(t *testing.T) *service.InterviewPrep {
	t.Helper()
	return service.NewInterviewPrep(newDocumentStore(t), nil)
}

func mustQuestion(t *testing.T, text, qType, category string) interview.Question {
	t.Helper()
	q, err := interview.NewQuestion(text, qType, category, "medium", "an answer")
	require.NoError(t, err)
	return q
}

func TestInterviewPrepQuestionLifecycle(t *testing.T) {
	svc := newInterviewPrep(t)
	ctx := context.Background()

	q, err := svc.AddQuestion(ctx, testUser, mustQuestion(t, "Tell me about yourself", "behavioral", "intro"))
	require.NoError(t, err)

	practiced, err := svc.MarkQuestionPracticed(ctx, testUser, q.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, practiced.PracticeCount)
	assert.Equal(t, 4, practiced.Confidence)

	require.NoError(t, svc.DeleteQuestion(ctx, testUser, q.ID))
	_, err = svc.GetQuestion(ctx, testUser, q.ID)
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestInterviewPrepListQuestionsFiltersAndOrders(t *testing.T) {
	svc := newInterviewPrep(t)
	ctx := context.Background()

	low := mustQuestion(t, "Question one", "behavioral", "teamwork")
	low.SetImportance(2)
	_, err := svc.AddQuestion(ctx, testUser, low)
	require.NoError(t, err)

	high := mustQuestion(t, "Question two", "behavioral", "teamwork")
	high.SetImportance(9)
	_, err = svc.AddQuestion(ctx, testUser, high)
	require.NoError(t, err)

	tech := mustQuestion(t, "Question three", "technical", "algorithms")
	_, err = svc.AddQuestion(ctx, testUser, tech)
	require.NoError(t, err)

	behavioral, err := svc.ListQuestions(ctx, testUser, service.ListQuestionsQuery{Type: "behavioral"})
	require.NoError(t, err)
	require.Len(t, behavioral, 2)
	assert.Equal(t, "Question two", behavioral[0].Question)

	byCategory, err := svc.ListQuestions(ctx, testUser, service.ListQuestionsQuery{Category: "algorithms"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)
}

func TestInterviewPrepConceptLifecycle(t *testing.T) {
	svc := newInterviewPrep(t)
	ctx := context.Background()

	c, err := interview.NewConcept("Raft", "distributed systems", "leader election and log replication")
	require.NoError(t, err)
	_, err = svc.AddConcept(ctx, testUser, c)
	require.NoError(t, err)

	reviewed, err := svc.MarkConceptReviewed(ctx, testUser, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reviewed.ReviewCount)

	concepts, err := svc.ListConcepts(ctx, testUser, "distributed systems")
	require.NoError(t, err)
	assert.Len(t, concepts, 1)
}

func TestInterviewPrepLogSessionBumpsQuestions(t *testing.T) {
	svc := newInterviewPrep(t)
	ctx := context.Background()

	q, err := svc.AddQuestion(ctx, testUser, mustQuestion(t, "A question", "behavioral", ""))
	require.NoError(t, err)

	session := interview.NewSession("2026-08-20", "mock_interview", 60)
	session.QuestionIDs = []string{q.ID, "iq_missing"}

	_, err = svc.LogSession(ctx, testUser, session)
	require.NoError(t, err)

	got, err := svc.GetQuestion(ctx, testUser, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PracticeCount)

	sessions, err := svc.ListSessions(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestInterviewPrepSearchSpansRecordTypes(t *testing.T) {
	svc := newInterviewPrep(t)
	ctx := context.Background()

	_, err := svc.AddQuestion(ctx, testUser,
		mustQuestion(t, "Explain consistent hashing tradeoffs", "technical", "distributed systems"))
	require.NoError(t, err)

	c, err := interview.NewConcept("Consistent hashing", "distributed systems",
		"ring based partitioning with virtual nodes")
	require.NoError(t, err)
	_, err = svc.AddConcept(ctx, testUser, c)
	require.NoError(t, err)

	matches, err := svc.Search(ctx, testUser, "consistent hashing", 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	types := map[string]bool{}
	for _, m := range matches {
		types[m.RecordType] = true
	}
	assert.True(t, types[interview.QuestionRecordType])
	assert.True(t, types[interview.ConceptRecordType])
}
