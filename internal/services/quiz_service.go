package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"jobnest_backend/internal/algorithms"
	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/report"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/services/dto"
	"jobnest_backend/pkg/apperrors"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizService interface {
	StartQuiz(ctx context.Context, db *gorm.DB, userID string) (*dto.StartQuizResponse, error)
	SubmitQuiz(ctx context.Context, db *gorm.DB, userID string, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error)
	GetResult(ctx context.Context, db *gorm.DB, userID string) (*models.AssessmentResult, error)
}

// QuizOptions tunes the submission pipeline.
type QuizOptions struct {
	JobSampleSize      int
	PersistenceTimeout time.Duration
	ReportTimeout      time.Duration
}

type quizService struct {
	profileRepo  repositories.ProfileRepository
	questionRepo repositories.QuestionRepository
	quizRepo     repositories.QuizRepository
	jobRepo      repositories.JobRepository
	reports      report.Generator
	correlator   *algorithms.Correlator
	opts         QuizOptions

	rng *rand.Rand
	now func() time.Time
}

func NewQuizService(
	profileRepo repositories.ProfileRepository,
	questionRepo repositories.QuestionRepository,
	quizRepo repositories.QuizRepository,
	jobRepo repositories.JobRepository,
	reports report.Generator,
	correlator *algorithms.Correlator,
	opts QuizOptions,
) QuizService {
	if opts.JobSampleSize <= 0 {
		opts.JobSampleSize = 10
	}
	if correlator == nil {
		correlator = algorithms.NewCorrelator(nil)
	}
	return &quizService{
		profileRepo:  profileRepo,
		questionRepo: questionRepo,
		quizRepo:     quizRepo,
		jobRepo:      jobRepo,
		reports:      reports,
		correlator:   correlator,
		opts:         opts,
		now:          time.Now,
	}
}

// -------------------------------
// Start
// -------------------------------

func (s *quizService) StartQuiz(ctx context.Context, db *gorm.DB, userID string) (*dto.StartQuizResponse, error) {
	ctx, cancel := bounded(ctx, s.opts.PersistenceTimeout)
	defer cancel()

	if _, err := s.findSeeker(ctx, db, userID); err != nil {
		return nil, err
	}

	bank, err := s.questionRepo.FindAll(withCtx(ctx, db))
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	sampled := algorithms.SampleQuestions(bank, s.rng)
	if len(sampled) == 0 {
		return nil, apperrors.ErrQuestionsMissing
	}

	ids := make([]string, 0, len(sampled))
	questions := make([]dto.QuizQuestion, 0, len(sampled))
	for _, q := range sampled {
		ids = append(ids, q.ID)
		questions = append(questions, dto.QuizQuestion{ID: q.ID, Text: q.Text, Category: q.Category})
	}

	session := &models.QuizSession{
		UserID:      userID,
		QuestionIDs: datatypes.JSONSlice[string](ids),
		Responses:   datatypes.JSONSlice[models.QuizResponse]{},
	}
	if err := s.quizRepo.UpsertSession(withCtx(ctx, db), session); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	return &dto.StartQuizResponse{Questions: questions, Total: len(questions)}, nil
}

// -------------------------------
// Submit
// -------------------------------

func (s *quizService) SubmitQuiz(ctx context.Context, db *gorm.DB, userID string, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error) {
	if req == nil || len(req.Responses) == 0 {
		return nil, apperrors.ErrEmptyResponses
	}

	opCtx, cancel := bounded(ctx, s.opts.PersistenceTimeout)
	defer cancel()

	seeker, err := s.findSeeker(opCtx, db, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(req.Responses))
	responses := make([]models.QuizResponse, 0, len(req.Responses))
	for _, r := range req.Responses {
		ids = append(ids, r.QuestionID)
		responses = append(responses, models.QuizResponse{
			QuestionID: r.QuestionID,
			Score:      r.Score,
			Category:   models.Category(r.Category),
		})
	}

	bank, err := s.questionRepo.FindByIDs(withCtx(opCtx, db), ids)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	questions, err := algorithms.SelectQuestions(bank, ids)
	if err != nil {
		return nil, apperrors.ErrQuestionsMissing
	}

	assessment, err := algorithms.ScoreResponses(questions, responses)
	if err != nil {
		return nil, responseValidationError(err)
	}

	// чтения до записи: сбой на любом шаге не оставляет частичный результат
	var (
		employers []models.EmployerProfile
		jobs      []models.JobPosting
	)
	g, gctx := errgroup.WithContext(opCtx)
	g.Go(func() error {
		var err error
		employers, err = s.profileRepo.FindEmployersByAnyTag(withCtx(gctx, db), assessment.OverAllTags)
		return err
	})
	g.Go(func() error {
		var err error
		jobs, err = s.jobRepo.FindRecent(withCtx(gctx, db), s.opts.JobSampleSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	now := s.now()
	session := &models.QuizSession{
		UserID:      userID,
		QuestionIDs: datatypes.JSONSlice[string](ids),
		Responses:   datatypes.JSONSlice[models.QuizResponse](assessment.Responses),
		SubmittedAt: &now,
	}
	result := &models.AssessmentResult{
		UserID:      userID,
		Categories:  datatypes.JSONSlice[models.CategoryScore](assessment.Top),
		OverAllTags: datatypes.JSONSlice[string](assessment.OverAllTags),
		GeneratedAt: now,
	}
	err = inTx(opCtx, db, func(tx *gorm.DB) error {
		if err := s.quizRepo.UpsertSession(tx, session); err != nil {
			return err
		}
		if err := s.quizRepo.UpsertResult(tx, result); err != nil {
			return err
		}
		return s.profileRepo.SaveAssessmentTags(tx, userID, assessment.OverAllTags)
	})
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	names := make([]string, 0, len(employers))
	for i := range employers {
		names = append(names, employers[i].DisplayName())
	}

	ref := s.generateReport(ctx, db, seeker, assessment, names, jobs, now)

	logger.CtxInfo(ctx, "quiz submitted", "user_id", userID, "responses", len(responses), "employers", len(names), "report", ref != nil)
	return &dto.SubmitQuizResponse{
		Categories:         assessment.Top,
		OverAllTags:        assessment.OverAllTags,
		PotentialEmployers: names,
		Report:             ref,
	}, nil
}

// generateReport never fails the submission; any error yields a nil ref.
func (s *quizService) generateReport(
	ctx context.Context,
	db *gorm.DB,
	seeker *models.JobSeekerProfile,
	assessment *algorithms.Assessment,
	employerNames []string,
	jobs []models.JobPosting,
	now time.Time,
) *report.Ref {
	if s.reports == nil {
		return nil
	}

	reportCtx, cancel := bounded(ctx, s.opts.ReportTimeout)
	defer cancel()

	ref, err := s.reports.GenerateAssessmentReport(reportCtx, report.Input{
		UserID:        seeker.UserID,
		Name:          seeker.Name,
		Email:         seeker.Email,
		Categories:    assessment.Top,
		Tags:          assessment.OverAllTags,
		EmployerNames: employerNames,
		Jobs:          s.correlator.Correlate(assessment.Top, jobs),
		GeneratedAt:   now,
	})
	if err != nil {
		logger.CtxWithError(ctx, "report generation failed", err, "user_id", seeker.UserID)
		return nil
	}

	if err := s.profileRepo.SetReportFile(withCtx(reportCtx, db), seeker.UserID, ref.Filename); err != nil {
		logger.CtxWithError(ctx, "failed to store report reference", err, "user_id", seeker.UserID)
		return ref
	}
	if prev := seeker.ReportFile; prev != nil && *prev != ref.Filename {
		if err := s.reports.DeleteReport(reportCtx, *prev); err != nil {
			logger.CtxWarn(ctx, "failed to delete previous report", "user_id", seeker.UserID, "file", *prev, "error", err)
		}
	}
	return ref
}

// -------------------------------
// Result
// -------------------------------

func (s *quizService) GetResult(ctx context.Context, db *gorm.DB, userID string) (*models.AssessmentResult, error) {
	ctx, cancel := bounded(ctx, s.opts.PersistenceTimeout)
	defer cancel()

	result, err := s.quizRepo.FindResultByUserID(withCtx(ctx, db), userID)
	if errors.Is(err, repositories.ErrResultNotFound) {
		return nil, apperrors.ErrResultNotFound
	}
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return result, nil
}

func (s *quizService) findSeeker(ctx context.Context, db *gorm.DB, userID string) (*models.JobSeekerProfile, error) {
	seeker, err := s.profileRepo.FindJobSeekerByUserID(withCtx(ctx, db), userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return seeker, nil
}

func responseValidationError(err error) error {
	if errors.Is(err, algorithms.ErrEmptyResponses) {
		return apperrors.ErrEmptyResponses
	}
	var respErr *algorithms.ResponseError
	if errors.As(err, &respErr) {
		return apperrors.ValidationError(map[string]string{
			"questionId": respErr.QuestionID,
			"reason":     respErr.Err.Error(),
		})
	}
	return apperrors.ValidationError(map[string]string{"reason": err.Error()})
}
