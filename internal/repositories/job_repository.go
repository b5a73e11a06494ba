package repositories

import (
	"errors"
	"time"

	"jobnest_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(db *gorm.DB, job *models.JobPosting) error
	FindByID(db *gorm.DB, id string) (*models.JobPosting, error)
	FindAll(db *gorm.DB) ([]models.JobPosting, error)
	FindRecent(db *gorm.DB, limit int) ([]models.JobPosting, error)
	Update(db *gorm.DB, job *models.JobPosting) error
	Delete(db *gorm.DB, id string) error
	DeleteExpired(db *gorm.DB, before time.Time) (int64, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.JobPosting) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.JobPosting, error) {
	var job models.JobPosting
	if err := db.First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindAll returns the whole catalog, newest first.
func (r *JobRepositoryImpl) FindAll(db *gorm.DB) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	err := db.Order("posted_date DESC").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) FindRecent(db *gorm.DB, limit int) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	err := db.Order("posted_date DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) Update(db *gorm.DB, job *models.JobPosting) error {
	result := db.Model(job).
		Select("job_title", "description", "salary", "currency_type", "skills", "job_preference",
			"experience_min_experience", "experience_max_experience", "location", "expiry_date").
		Updates(job)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.JobPosting{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// DeleteExpired removes postings whose expiry date is before the given time.
// Postings without an expiry date never expire.
func (r *JobRepositoryImpl) DeleteExpired(db *gorm.DB, before time.Time) (int64, error) {
	result := db.Where("expiry_date IS NOT NULL AND expiry_date < ?", before).Delete(&models.JobPosting{})
	return result.RowsAffected, result.Error
}
