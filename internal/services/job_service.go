package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobnest_backend/internal/algorithms"
	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/services/dto"
	"jobnest_backend/pkg/apperrors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobService interface {
	// Matching
	GetMatchedJobs(ctx context.Context, db *gorm.DB, userID string) (*dto.MatchedJobsResponse, error)

	// Employer CRUD
	CreateJob(ctx context.Context, db *gorm.DB, userID string, req *dto.JobRequest) (*models.JobPosting, error)
	UpdateJob(ctx context.Context, db *gorm.DB, userID, jobID string, req *dto.JobRequest) (*models.JobPosting, error)
	DeleteJob(ctx context.Context, db *gorm.DB, userID, jobID string) error
	GetJob(ctx context.Context, db *gorm.DB, jobID string) (*models.JobPosting, error)
}

type jobService struct {
	jobRepo     repositories.JobRepository
	profileRepo repositories.ProfileRepository
	timeout     time.Duration
}

func NewJobService(jobRepo repositories.JobRepository, profileRepo repositories.ProfileRepository, timeout time.Duration) JobService {
	return &jobService{
		jobRepo:     jobRepo,
		profileRepo: profileRepo,
		timeout:     timeout,
	}
}

// GetMatchedJobs ranks the whole catalog for a job seeker.
func (s *jobService) GetMatchedJobs(ctx context.Context, db *gorm.DB, userID string) (*dto.MatchedJobsResponse, error) {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	var (
		seeker *models.JobSeekerProfile
		jobs   []models.JobPosting
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		seeker, err = s.profileRepo.FindJobSeekerByUserID(withCtx(gctx, db), userID)
		return err
	})
	g.Go(func() error {
		var err error
		jobs, err = s.jobRepo.FindAll(withCtx(gctx, db))
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	employers, err := s.loadEmployers(ctx, db, jobs)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	ranked := algorithms.RankJobs(seeker, jobs, employers)
	out := make([]dto.MatchedJob, 0, len(ranked))
	for _, m := range ranked {
		item := dto.MatchedJob{
			JobPosting:      m.Job,
			MatchPercentage: m.MatchPercentage,
			CommonTags:      m.CommonTags,
		}
		if m.Employer != nil {
			item.EmployerName = m.Employer.DisplayName()
		}
		out = append(out, item)
	}

	logger.CtxDebug(ctx, "jobs matched", "user_id", userID, "jobs", len(out), "assessed", seeker.Test)
	return &dto.MatchedJobsResponse{Jobs: out, Total: len(out)}, nil
}

// loadEmployers fetches every referenced employer in one query.
func (s *jobService) loadEmployers(ctx context.Context, db *gorm.DB, jobs []models.JobPosting) (map[string]*models.EmployerProfile, error) {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, j := range jobs {
		if j.EmployerID == "" || seen[j.EmployerID] {
			continue
		}
		seen[j.EmployerID] = true
		ids = append(ids, j.EmployerID)
	}

	byID := make(map[string]*models.EmployerProfile, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	employers, err := s.profileRepo.FindEmployersByIDs(withCtx(ctx, db), ids)
	if err != nil {
		return nil, err
	}
	for i := range employers {
		byID[employers[i].ID] = &employers[i]
	}
	return byID, nil
}

// -------------------------------
// CRUD
// -------------------------------

func (s *jobService) CreateJob(ctx context.Context, db *gorm.DB, userID string, req *dto.JobRequest) (*models.JobPosting, error) {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	employer, err := s.findEmployer(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	if err := validateJobRequest(req); err != nil {
		return nil, err
	}

	job := &models.JobPosting{EmployerID: employer.ID, PostedDate: time.Now()}
	applyJobRequest(job, req)

	if err := s.jobRepo.Create(withCtx(ctx, db), job); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	logger.CtxInfo(ctx, "job created", "job_id", job.ID, "employer_id", employer.ID)
	return job, nil
}

func (s *jobService) UpdateJob(ctx context.Context, db *gorm.DB, userID, jobID string, req *dto.JobRequest) (*models.JobPosting, error) {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	job, err := s.ownedJob(ctx, db, userID, jobID)
	if err != nil {
		return nil, err
	}
	if err := validateJobRequest(req); err != nil {
		return nil, err
	}

	applyJobRequest(job, req)
	if err := s.jobRepo.Update(withCtx(ctx, db), job); err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return job, nil
}

func (s *jobService) DeleteJob(ctx context.Context, db *gorm.DB, userID, jobID string) error {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	job, err := s.ownedJob(ctx, db, userID, jobID)
	if err != nil {
		return err
	}
	if err := s.jobRepo.Delete(withCtx(ctx, db), job.ID); err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return apperrors.ErrJobNotFound
		}
		return apperrors.DatabaseError(err)
	}
	logger.CtxInfo(ctx, "job deleted", "job_id", job.ID)
	return nil
}

func (s *jobService) GetJob(ctx context.Context, db *gorm.DB, jobID string) (*models.JobPosting, error) {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	return s.findJob(ctx, db, jobID)
}

// ownedJob loads a job and checks that userID is the employer who posted it.
func (s *jobService) ownedJob(ctx context.Context, db *gorm.DB, userID, jobID string) (*models.JobPosting, error) {
	employer, err := s.findEmployer(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	job, err := s.findJob(ctx, db, jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != employer.ID {
		return nil, apperrors.ErrNotJobOwner
	}
	return job, nil
}

func (s *jobService) findJob(ctx context.Context, db *gorm.DB, jobID string) (*models.JobPosting, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, apperrors.ErrJobNotFound
	}
	job, err := s.jobRepo.FindByID(withCtx(ctx, db), jobID)
	if errors.Is(err, repositories.ErrJobNotFound) {
		return nil, apperrors.ErrJobNotFound
	}
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return job, nil
}

func (s *jobService) findEmployer(ctx context.Context, db *gorm.DB, userID string) (*models.EmployerProfile, error) {
	employer, err := s.profileRepo.FindEmployerByUserID(withCtx(ctx, db), userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, apperrors.ErrNotEmployer
	}
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return employer, nil
}

func validateJobRequest(req *dto.JobRequest) error {
	if req == nil || strings.TrimSpace(req.JobTitle) == "" {
		return apperrors.NewValidationError("job", "Job title is required")
	}
	if !models.JobPreference(req.JobPreference).IsValid() {
		return apperrors.ErrInvalidJobPref
	}
	if req.MinExperience < 0 || req.MaxExperience < req.MinExperience {
		return apperrors.NewValidationError("job", "Experience range is invalid")
	}
	return nil
}

func applyJobRequest(job *models.JobPosting, req *dto.JobRequest) {
	job.JobTitle = strings.TrimSpace(req.JobTitle)
	job.Description = req.Description
	job.Salary = req.Salary
	job.CurrencyType = strings.ToUpper(req.CurrencyType)
	job.Skills = datatypes.JSONSlice[string](req.Skills)
	job.JobPreference = models.JobPreference(req.JobPreference)
	job.Experience = models.Experience{
		MinExperience: req.MinExperience,
		MaxExperience: req.MaxExperience,
	}
	job.Location = req.Location
	job.ExpiryDate = req.ExpiryDate
}
