package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"jobnest_backend/internal/email"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/report"
	"jobnest_backend/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// --- profiles ---

type fakeProfileRepo struct {
	mu        sync.Mutex
	seekers   map[string]*models.JobSeekerProfile
	employers map[string]*models.EmployerProfile
	countErr  error

	employersErr error
	saveTagsErr  error
}

var _ repositories.ProfileRepository = (*fakeProfileRepo)(nil)

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		seekers:   make(map[string]*models.JobSeekerProfile),
		employers: make(map[string]*models.EmployerProfile),
	}
}

func (r *fakeProfileRepo) addSeeker(p models.JobSeekerProfile) *models.JobSeekerProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.seekers[p.UserID] = &p
	return &p
}

func (r *fakeProfileRepo) addEmployer(p models.EmployerProfile) *models.EmployerProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	r.employers[p.UserID] = &p
	return &p
}

func (r *fakeProfileRepo) CreateJobSeeker(_ *gorm.DB, profile *models.JobSeekerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seekers[profile.UserID]; ok {
		return repositories.ErrProfileAlreadyExists
	}
	profile.ID = uuid.NewString()
	cp := *profile
	r.seekers[profile.UserID] = &cp
	return nil
}

func (r *fakeProfileRepo) FindJobSeekerByUserID(_ *gorm.DB, userID string) (*models.JobSeekerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.seekers[userID]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) UpdateJobSeeker(_ *gorm.DB, profile *models.JobSeekerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.seekers[profile.UserID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.Name, p.Skills, p.JobPreference = profile.Name, profile.Skills, profile.JobPreference
	return nil
}

func (r *fakeProfileRepo) SaveAssessmentTags(_ *gorm.DB, userID string, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveTagsErr != nil {
		return r.saveTagsErr
	}
	p, ok := r.seekers[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.Tags = datatypes.JSONSlice[string](tags)
	p.Test = true
	return nil
}

func (r *fakeProfileRepo) SetReportFile(_ *gorm.DB, userID, filename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.seekers[userID]; ok {
		p.ReportFile = &filename
	}
	return nil
}

func (r *fakeProfileRepo) CreateEmployer(_ *gorm.DB, profile *models.EmployerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employers[profile.UserID]; ok {
		return repositories.ErrProfileAlreadyExists
	}
	profile.ID = uuid.NewString()
	cp := *profile
	r.employers[profile.UserID] = &cp
	return nil
}

func (r *fakeProfileRepo) FindEmployerByUserID(_ *gorm.DB, userID string) (*models.EmployerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.employers[userID]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) FindEmployersByIDs(_ *gorm.DB, ids []string) ([]models.EmployerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.EmployerProfile
	for _, p := range r.employers {
		if slices.Contains(ids, p.ID) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) FindEmployersByAnyTag(_ *gorm.DB, tags []string) ([]models.EmployerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.employersErr != nil {
		return nil, r.employersErr
	}
	var out []models.EmployerProfile
	for _, p := range r.employers {
		for _, t := range p.Tags {
			if slices.Contains(tags, t) {
				out = append(out, *p)
				break
			}
		}
	}
	slices.SortFunc(out, func(a, b models.EmployerProfile) int {
		if a.CompanyName < b.CompanyName {
			return -1
		}
		if a.CompanyName > b.CompanyName {
			return 1
		}
		return 0
	})
	return out, nil
}

func (r *fakeProfileRepo) UpdateEmployer(_ *gorm.DB, profile *models.EmployerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.employers[profile.UserID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.CompanyName, p.Industry, p.Skills, p.Tags = profile.CompanyName, profile.Industry, profile.Skills, profile.Tags
	return nil
}

func (r *fakeProfileRepo) CountByEmail(_ *gorm.DB, addr string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, p := range r.seekers {
		if p.Email == addr {
			n++
		}
	}
	for _, p := range r.employers {
		if p.Email == addr {
			n++
		}
	}
	return n, nil
}

// --- jobs ---

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs []models.JobPosting
}

var _ repositories.JobRepository = (*fakeJobRepo)(nil)

func (r *fakeJobRepo) add(j models.JobPosting) models.JobPosting {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	r.jobs = append(r.jobs, j)
	return j
}

func (r *fakeJobRepo) Create(_ *gorm.DB, job *models.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = uuid.NewString()
	r.jobs = append(r.jobs, *job)
	return nil
}

func (r *fakeJobRepo) FindByID(_ *gorm.DB, id string) (*models.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.ID == id {
			cp := j
			return &cp, nil
		}
	}
	return nil, repositories.ErrJobNotFound
}

func (r *fakeJobRepo) FindAll(_ *gorm.DB) ([]models.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.jobs), nil
}

func (r *fakeJobRepo) FindRecent(_ *gorm.DB, limit int) ([]models.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.jobs[:min(limit, len(r.jobs))]), nil
}

func (r *fakeJobRepo) Update(_ *gorm.DB, job *models.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.jobs {
		if r.jobs[i].ID == job.ID {
			r.jobs[i] = *job
			return nil
		}
	}
	return repositories.ErrJobNotFound
}

func (r *fakeJobRepo) Delete(_ *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.jobs {
		if r.jobs[i].ID == id {
			r.jobs = slices.Delete(r.jobs, i, i+1)
			return nil
		}
	}
	return repositories.ErrJobNotFound
}

func (r *fakeJobRepo) DeleteExpired(_ *gorm.DB, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.jobs)
	r.jobs = slices.DeleteFunc(r.jobs, func(j models.JobPosting) bool {
		return j.ExpiryDate != nil && j.ExpiryDate.Before(before)
	})
	return int64(n - len(r.jobs)), nil
}

// --- quiz ---

type fakeQuestionRepo struct {
	bank []models.Question
}

func (r *fakeQuestionRepo) FindAll(_ *gorm.DB) ([]models.Question, error) {
	return slices.Clone(r.bank), nil
}

func (r *fakeQuestionRepo) FindByIDs(_ *gorm.DB, ids []string) ([]models.Question, error) {
	var out []models.Question
	for _, q := range r.bank {
		if slices.Contains(ids, q.ID) {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeQuizRepo struct {
	mu       sync.Mutex
	sessions map[string]models.QuizSession
	results  map[string]models.AssessmentResult
}

var _ repositories.QuizRepository = (*fakeQuizRepo)(nil)

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{
		sessions: make(map[string]models.QuizSession),
		results:  make(map[string]models.AssessmentResult),
	}
}

func (r *fakeQuizRepo) UpsertSession(_ *gorm.DB, session *models.QuizSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.UserID] = *session
	return nil
}

func (r *fakeQuizRepo) session(userID string) (models.QuizSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

func (r *fakeQuizRepo) UpsertResult(_ *gorm.DB, result *models.AssessmentResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.UserID] = *result
	return nil
}

func (r *fakeQuizRepo) FindResultByUserID(_ *gorm.DB, userID string) (*models.AssessmentResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[userID]
	if !ok {
		return nil, repositories.ErrResultNotFound
	}
	return &res, nil
}

// --- collaborators ---

type fakeMailer struct {
	mu    sync.Mutex
	codes map[string][]string
	err   error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{codes: make(map[string][]string)}
}

func (m *fakeMailer) SendOTP(_ context.Context, to, code, _ string) (*email.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, fmt.Errorf("%w: %v", email.ErrDelivery, m.err)
	}
	m.codes[to] = append(m.codes[to], code)
	return &email.SendResult{MessageID: uuid.NewString()}, nil
}

func (m *fakeMailer) lastCode(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	codes := m.codes[to]
	if len(codes) == 0 {
		return ""
	}
	return codes[len(codes)-1]
}

func (m *fakeMailer) sent(to string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.codes[to])
}

func (m *fakeMailer) Validate() error { return nil }
func (m *fakeMailer) Close() error    { return nil }

type fakeReports struct {
	mu      sync.Mutex
	err     error
	calls   []report.Input
	deleted []string
}

func (g *fakeReports) GenerateAssessmentReport(_ context.Context, in report.Input) (*report.Ref, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, in)
	if g.err != nil {
		return nil, g.err
	}
	name := "assessment_" + in.UserID + ".pdf"
	return &report.Ref{Filename: name, Path: report.StoragePath(name), URL: "/api/v1/reports/" + name}, nil
}

func (g *fakeReports) DeleteReport(_ context.Context, filename string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, filename)
	return nil
}

var errBoom = errors.New("boom")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
