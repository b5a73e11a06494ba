package repositories

import (
	"errors"

	"jobnest_backend/internal/models"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists for this user")
)

type ProfileRepository interface {
	// JobSeekerProfile operations
	CreateJobSeeker(db *gorm.DB, profile *models.JobSeekerProfile) error
	FindJobSeekerByUserID(db *gorm.DB, userID string) (*models.JobSeekerProfile, error)
	UpdateJobSeeker(db *gorm.DB, profile *models.JobSeekerProfile) error
	SaveAssessmentTags(db *gorm.DB, userID string, tags []string) error
	SetReportFile(db *gorm.DB, userID, filename string) error

	// EmployerProfile operations
	CreateEmployer(db *gorm.DB, profile *models.EmployerProfile) error
	FindEmployerByUserID(db *gorm.DB, userID string) (*models.EmployerProfile, error)
	FindEmployersByIDs(db *gorm.DB, ids []string) ([]models.EmployerProfile, error)
	FindEmployersByAnyTag(db *gorm.DB, tags []string) ([]models.EmployerProfile, error)
	UpdateEmployer(db *gorm.DB, profile *models.EmployerProfile) error

	// CountByEmail counts profiles of both kinds registered with email.
	CountByEmail(db *gorm.DB, email string) (int64, error)
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

// JobSeekerProfile operations

func (r *ProfileRepositoryImpl) CreateJobSeeker(db *gorm.DB, profile *models.JobSeekerProfile) error {
	if err := db.Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrProfileAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ProfileRepositoryImpl) FindJobSeekerByUserID(db *gorm.DB, userID string) (*models.JobSeekerProfile, error) {
	var profile models.JobSeekerProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) UpdateJobSeeker(db *gorm.DB, profile *models.JobSeekerProfile) error {
	result := db.Model(profile).Select("Name", "Skills", "JobPreference").Updates(profile)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SaveAssessmentTags overwrites the seeker's tags and marks the assessment as taken.
func (r *ProfileRepositoryImpl) SaveAssessmentTags(db *gorm.DB, userID string, tags []string) error {
	result := db.Model(&models.JobSeekerProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"tags": datatypes.JSONSlice[string](tags),
			"test": true,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) SetReportFile(db *gorm.DB, userID, filename string) error {
	return db.Model(&models.JobSeekerProfile{}).
		Where("user_id = ?", userID).
		Update("report_file", filename).Error
}

// EmployerProfile operations

func (r *ProfileRepositoryImpl) CreateEmployer(db *gorm.DB, profile *models.EmployerProfile) error {
	if err := db.Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrProfileAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ProfileRepositoryImpl) FindEmployerByUserID(db *gorm.DB, userID string) (*models.EmployerProfile, error) {
	var profile models.EmployerProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindEmployersByIDs(db *gorm.DB, ids []string) ([]models.EmployerProfile, error) {
	var employers []models.EmployerProfile
	if len(ids) == 0 {
		return employers, nil
	}
	err := db.Where("id = ANY(?::uuid[])", pq.Array(ids)).Find(&employers).Error
	return employers, err
}

// FindEmployersByAnyTag returns employers whose tags contain at least one of tags.
func (r *ProfileRepositoryImpl) FindEmployersByAnyTag(db *gorm.DB, tags []string) ([]models.EmployerProfile, error) {
	var employers []models.EmployerProfile
	if len(tags) == 0 {
		return employers, nil
	}
	err := db.Where("jsonb_exists_any(tags, ?::text[])", pq.Array(tags)).
		Order("company_name ASC").
		Find(&employers).Error
	return employers, err
}

func (r *ProfileRepositoryImpl) UpdateEmployer(db *gorm.DB, profile *models.EmployerProfile) error {
	result := db.Model(profile).Select("CompanyName", "Industry", "Skills", "Tags").Updates(profile)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) CountByEmail(db *gorm.DB, email string) (int64, error) {
	var seekers, employers int64
	if err := db.Model(&models.JobSeekerProfile{}).Where("LOWER(email) = LOWER(?)", email).Count(&seekers).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&models.EmployerProfile{}).Where("LOWER(email) = LOWER(?)", email).Count(&employers).Error; err != nil {
		return 0, err
	}
	return seekers + employers, nil
}
