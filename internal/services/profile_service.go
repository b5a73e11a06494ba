package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/otp"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/services/dto"
	"jobnest_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileService interface {
	// Registration
	Register(ctx context.Context, db *gorm.DB, userID string, req *dto.RegisterRequest) (*dto.RegisterResponse, error)

	// Job seeker
	GetJobSeekerProfile(ctx context.Context, db *gorm.DB, userID string) (*models.JobSeekerProfile, error)
	UpdateSeekerProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateJobSeekerRequest) (*models.JobSeekerProfile, error)

	// Employer
	GetEmployerProfile(ctx context.Context, db *gorm.DB, userID string) (*models.EmployerProfile, error)
	UpdateEmployerProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateEmployerRequest) (*models.EmployerProfile, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	otpService  OTPService
	timeout     time.Duration
}

func NewProfileService(profileRepo repositories.ProfileRepository, otpService OTPService, timeout time.Duration) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		otpService:  otpService,
		timeout:     timeout,
	}
}

// Register creates the profile for an email that passed OTP verification and
// consumes the verification record.
func (s *profileService) Register(ctx context.Context, db *gorm.DB, userID string, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	addr := otp.NormalizeEmail(req.Email)
	userType := models.UserType(req.UserType)
	if !userType.IsValid() {
		return nil, apperrors.ErrInvalidUserType
	}

	verifiedAs, err := s.otpService.VerifiedUserType(ctx, addr)
	if err != nil {
		return nil, err
	}
	if verifiedAs == "" {
		return nil, apperrors.ErrEmailNotVerified
	}
	// тип аккаунта фиксируется при запросе кода
	if verifiedAs != userType {
		return nil, apperrors.ErrUserTypeMismatch
	}

	count, err := s.profileRepo.CountByEmail(withCtx(ctx, db), addr)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if count > 0 {
		return nil, apperrors.ErrEmailInUse
	}

	var profileID string
	switch userType {
	case models.UserTypeEmployer:
		profile := &models.EmployerProfile{
			UserID:      userID,
			Name:        strings.TrimSpace(req.Name),
			Email:       addr,
			CompanyName: strings.TrimSpace(req.CompanyName),
			Industry:    strings.TrimSpace(req.Industry),
			Skills:      datatypes.JSONSlice[string]{},
			Tags:        datatypes.JSONSlice[string]{},
		}
		err = s.profileRepo.CreateEmployer(withCtx(ctx, db), profile)
		profileID = profile.ID
	default:
		profile := &models.JobSeekerProfile{
			UserID: userID,
			Name:   strings.TrimSpace(req.Name),
			Email:  addr,
			Skills: datatypes.JSONSlice[string]{},
			Tags:   datatypes.JSONSlice[string]{},
		}
		err = s.profileRepo.CreateJobSeeker(withCtx(ctx, db), profile)
		profileID = profile.ID
	}
	if errors.Is(err, repositories.ErrProfileAlreadyExists) {
		return nil, apperrors.ErrProfileExists
	}
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	if err := s.otpService.ClearOTP(ctx, addr); err != nil {
		logger.CtxWithError(ctx, "failed to clear otp after registration", err, "email", addr)
	}

	logger.CtxInfo(ctx, "profile registered", "user_id", userID, "user_type", userType)
	return &dto.RegisterResponse{
		UserID:    userID,
		ProfileID: profileID,
		UserType:  string(userType),
	}, nil
}

func (s *profileService) GetJobSeekerProfile(ctx context.Context, db *gorm.DB, userID string) (*models.JobSeekerProfile, error) {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	profile, err := s.profileRepo.FindJobSeekerByUserID(withCtx(ctx, db), userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return profile, nil
}

// UpdateSeekerProfile touches only the fields present in req. Tags belong to
// the quiz and cannot be edited here.
func (s *profileService) UpdateSeekerProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateJobSeekerRequest) (*models.JobSeekerProfile, error) {
	profile, err := s.GetJobSeekerProfile(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	if name := strings.TrimSpace(req.Name); name != "" {
		profile.Name = name
	}
	if req.Skills != nil {
		profile.Skills = datatypes.JSONSlice[string](req.Skills)
	}
	if req.JobPreference != "" {
		pref := models.JobPreference(req.JobPreference)
		if !pref.IsValid() {
			return nil, apperrors.ErrInvalidJobPref
		}
		profile.JobPreference = pref
	}

	if err := s.profileRepo.UpdateJobSeeker(withCtx(ctx, db), profile); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return profile, nil
}

func (s *profileService) GetEmployerProfile(ctx context.Context, db *gorm.DB, userID string) (*models.EmployerProfile, error) {
	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	profile, err := s.profileRepo.FindEmployerByUserID(withCtx(ctx, db), userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return profile, nil
}

func (s *profileService) UpdateEmployerProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateEmployerRequest) (*models.EmployerProfile, error) {
	profile, err := s.GetEmployerProfile(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()

	if v := strings.TrimSpace(req.CompanyName); v != "" {
		profile.CompanyName = v
	}
	if v := strings.TrimSpace(req.Industry); v != "" {
		profile.Industry = v
	}
	if req.Skills != nil {
		profile.Skills = datatypes.JSONSlice[string](req.Skills)
	}
	if req.Tags != nil {
		profile.Tags = datatypes.JSONSlice[string](normalizeTags(req.Tags))
	}

	if err := s.profileRepo.UpdateEmployer(withCtx(ctx, db), profile); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return profile, nil
}

// normalizeTags lowercases and de-duplicates tags so they compare with quiz tags.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
