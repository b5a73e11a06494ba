package services

import (
	"context"
	"testing"

	"jobnest_backend/internal/algorithms"
	"jobnest_backend/internal/database"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/services/dto"
	"jobnest_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quizFixture struct {
	svc      QuizService
	profiles *fakeProfileRepo
	quizzes  *fakeQuizRepo
	jobs     *fakeJobRepo
	reports  *fakeReports
}

func newQuizFixture() *quizFixture {
	f := &quizFixture{
		profiles: newFakeProfileRepo(),
		quizzes:  newFakeQuizRepo(),
		jobs:     &fakeJobRepo{},
		reports:  &fakeReports{},
	}
	f.svc = NewQuizService(
		f.profiles,
		&fakeQuestionRepo{bank: database.QuestionBank},
		f.quizzes,
		f.jobs,
		f.reports,
		algorithms.NewCorrelator(nil),
		QuizOptions{JobSampleSize: 2},
	)
	f.profiles.addSeeker(models.JobSeekerProfile{UserID: "seeker-1", Name: "Ada", Email: testEmail})
	return f
}

// Openness 100, Conscientiousness 80, Extraversion 60, Agreeableness 40, Neuroticism 20.
func fullSubmission() *dto.SubmitQuizRequest {
	return &dto.SubmitQuizRequest{Responses: []dto.QuizAnswer{
		{QuestionID: "Q21", Score: 1},
		{QuestionID: "Q23", Score: 5},
		{QuestionID: "Q16", Score: 2},
		{QuestionID: "Q17", Score: 2},
		{QuestionID: "Q11", Score: 3},
		{QuestionID: "Q13", Score: 3},
		{QuestionID: "Q6", Score: 4, Category: "Conscientiousness"},
		{QuestionID: "Q7", Score: 4},
		{QuestionID: "Q1", Score: 5},
		{QuestionID: "Q2", Score: 5},
	}}
}

func TestStartQuiz(t *testing.T) {
	f := newQuizFixture()

	resp, err := f.svc.StartQuiz(context.Background(), nil, "seeker-1")
	require.NoError(t, err)
	require.Equal(t, 10, resp.Total)

	perCategory := map[models.Category]int{}
	for _, q := range resp.Questions {
		perCategory[q.Category]++
	}
	for _, c := range models.Categories {
		assert.Equal(t, 2, perCategory[c], c)
	}

	session, ok := f.quizzes.session("seeker-1")
	require.True(t, ok)
	assert.Len(t, session.QuestionIDs, 10)
	assert.Empty(t, session.Responses)
	assert.Nil(t, session.SubmittedAt)
}

func TestStartQuiz_RequiresSeekerProfile(t *testing.T) {
	f := newQuizFixture()
	_, err := f.svc.StartQuiz(context.Background(), nil, "nobody")
	assert.Equal(t, apperrors.ErrProfileNotFound, err)
}

func TestSubmitQuiz(t *testing.T) {
	f := newQuizFixture()
	f.profiles.addEmployer(models.EmployerProfile{UserID: "e-1", CompanyName: "Acme", Tags: []string{"creative", "bold"}})
	f.profiles.addEmployer(models.EmployerProfile{UserID: "e-2", CompanyName: "Zeta", Tags: []string{"empathetic"}})
	for _, title := range []string{"Designer", "Accountant", "Sales Rep"} {
		f.jobs.add(models.JobPosting{JobTitle: title})
	}

	resp, err := f.svc.SubmitQuiz(context.Background(), nil, "seeker-1", fullSubmission())
	require.NoError(t, err)

	require.Len(t, resp.Categories, 3)
	assert.Equal(t, models.CategoryOpenness, resp.Categories[0].CategoryName)
	assert.InDelta(t, 100.0, resp.Categories[0].Score, 1e-9)
	assert.Equal(t, models.CategoryConscientiousness, resp.Categories[1].CategoryName)
	assert.InDelta(t, 80.0, resp.Categories[1].Score, 1e-9)
	assert.Equal(t, models.CategoryExtraversion, resp.Categories[2].CategoryName)
	assert.InDelta(t, 60.0, resp.Categories[2].Score, 1e-9)

	wantTags := []string{
		"creative", "innovative", "curious",
		"organized", "reliable", "detail-oriented",
		"outgoing", "communicative", "team-player",
	}
	assert.Equal(t, wantTags, resp.OverAllTags)
	assert.Equal(t, []string{"Acme"}, resp.PotentialEmployers)
	require.NotNil(t, resp.Report)
	assert.Equal(t, "assessment_seeker-1.pdf", resp.Report.Filename)

	seeker, err := f.profiles.FindJobSeekerByUserID(nil, "seeker-1")
	require.NoError(t, err)
	assert.True(t, seeker.Test)
	assert.Equal(t, wantTags, []string(seeker.Tags))
	require.NotNil(t, seeker.ReportFile)
	assert.Equal(t, "assessment_seeker-1.pdf", *seeker.ReportFile)

	result, err := f.svc.GetResult(context.Background(), nil, "seeker-1")
	require.NoError(t, err)
	assert.Len(t, result.Categories, 3)
	assert.Equal(t, wantTags, []string(result.OverAllTags))

	session, ok := f.quizzes.session("seeker-1")
	require.True(t, ok)
	require.NotNil(t, session.SubmittedAt)
	for _, r := range session.Responses {
		assert.NotEmpty(t, r.Category, r.QuestionID)
	}

	require.Len(t, f.reports.calls, 1)
	assert.Len(t, f.reports.calls[0].Jobs, 2)
	assert.Equal(t, []string{"Acme"}, f.reports.calls[0].EmployerNames)
}

func TestSubmitQuiz_ReportFailureIsNotAnError(t *testing.T) {
	f := newQuizFixture()
	f.reports.err = errBoom

	resp, err := f.svc.SubmitQuiz(context.Background(), nil, "seeker-1", fullSubmission())
	require.NoError(t, err)
	assert.Nil(t, resp.Report)
	assert.Len(t, resp.Categories, 3)
	assert.Empty(t, resp.PotentialEmployers)

	seeker, err := f.profiles.FindJobSeekerByUserID(nil, "seeker-1")
	require.NoError(t, err)
	assert.True(t, seeker.Test)
	assert.Nil(t, seeker.ReportFile)
}

func TestSubmitQuiz_EmployerLookupFailureWritesNothing(t *testing.T) {
	f := newQuizFixture()
	f.profiles.employersErr = errBoom

	_, err := f.svc.SubmitQuiz(context.Background(), nil, "seeker-1", fullSubmission())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDatabaseError))

	_, ok := f.quizzes.session("seeker-1")
	assert.False(t, ok)
	assert.Empty(t, f.quizzes.results)

	seeker, err := f.profiles.FindJobSeekerByUserID(nil, "seeker-1")
	require.NoError(t, err)
	assert.False(t, seeker.Test)
	assert.Empty(t, seeker.Tags)
	assert.Empty(t, f.reports.calls)
}

func TestSubmitQuiz_PersistFailureSkipsReport(t *testing.T) {
	f := newQuizFixture()
	f.profiles.saveTagsErr = errBoom

	_, err := f.svc.SubmitQuiz(context.Background(), nil, "seeker-1", fullSubmission())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDatabaseError))
	assert.Empty(t, f.reports.calls)
}

func TestSubmitQuiz_ReplacesPreviousReport(t *testing.T) {
	f := newQuizFixture()
	old := "assessment_old.pdf"
	f.profiles.addSeeker(models.JobSeekerProfile{UserID: "seeker-1", Name: "Ada", Email: testEmail, ReportFile: &old})

	resp, err := f.svc.SubmitQuiz(context.Background(), nil, "seeker-1", fullSubmission())
	require.NoError(t, err)
	require.NotNil(t, resp.Report)
	assert.Equal(t, []string{old}, f.reports.deleted)

	// тот же файл не удаляется
	_, err = f.svc.SubmitQuiz(context.Background(), nil, "seeker-1", fullSubmission())
	require.NoError(t, err)
	assert.Equal(t, []string{old}, f.reports.deleted)
}

func TestSubmitQuiz_ResubmissionReplacesResult(t *testing.T) {
	f := newQuizFixture()
	_, err := f.svc.SubmitQuiz(context.Background(), nil, "seeker-1", fullSubmission())
	require.NoError(t, err)

	_, err = f.svc.SubmitQuiz(context.Background(), nil, "seeker-1", &dto.SubmitQuizRequest{
		Responses: []dto.QuizAnswer{{QuestionID: "Q21", Score: 5}},
	})
	require.NoError(t, err)

	result, err := f.svc.GetResult(context.Background(), nil, "seeker-1")
	require.NoError(t, err)
	require.Len(t, result.Categories, 1)
	assert.Equal(t, models.CategoryNeuroticism, result.Categories[0].CategoryName)
	assert.Len(t, f.quizzes.results, 1)
}

func TestSubmitQuiz_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  *dto.SubmitQuizRequest
		code apperrors.ErrorCode
	}{
		{
			name: "empty",
			req:  &dto.SubmitQuizRequest{},
			code: apperrors.CodeValidationFailed,
		},
		{
			name: "score out of range",
			req:  &dto.SubmitQuizRequest{Responses: []dto.QuizAnswer{{QuestionID: "Q1", Score: 6}}},
			code: apperrors.CodeValidationFailed,
		},
		{
			name: "category disagrees with bank",
			req:  &dto.SubmitQuizRequest{Responses: []dto.QuizAnswer{{QuestionID: "Q1", Score: 3, Category: "Neuroticism"}}},
			code: apperrors.CodeValidationFailed,
		},
		{
			name: "one unknown question",
			req: &dto.SubmitQuizRequest{Responses: []dto.QuizAnswer{
				{QuestionID: "Q1", Score: 3},
				{QuestionID: "Q999", Score: 3},
			}},
			code: apperrors.CodeValidationFailed,
		},
		{
			name: "no known questions",
			req:  &dto.SubmitQuizRequest{Responses: []dto.QuizAnswer{{QuestionID: "Q999", Score: 3}}},
			code: apperrors.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQuizFixture()
			_, err := f.svc.SubmitQuiz(context.Background(), nil, "seeker-1", tt.req)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
			assert.Empty(t, f.quizzes.results)
		})
	}
}

func TestGetResult_NotFound(t *testing.T) {
	f := newQuizFixture()
	_, err := f.svc.GetResult(context.Background(), nil, "seeker-1")
	assert.Equal(t, apperrors.ErrResultNotFound, err)
}
