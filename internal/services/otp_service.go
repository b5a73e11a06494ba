package services

import (
	"context"
	"errors"
	"math"
	"time"

	"jobnest_backend/internal/config"
	"jobnest_backend/internal/email"
	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/otp"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/services/dto"
	"jobnest_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type OTPService interface {
	SendOTP(ctx context.Context, db *gorm.DB, emailAddr, userType, name string) (*dto.SendOTPResponse, error)
	ResendOTP(ctx context.Context, db *gorm.DB, emailAddr, userType, name string) (*dto.SendOTPResponse, error)
	VerifyOTP(ctx context.Context, emailAddr, code string) (*dto.VerifyOTPResponse, error)
	VerifiedUserType(ctx context.Context, emailAddr string) (models.UserType, error)
	ClearOTP(ctx context.Context, emailAddr string) error
}

type otpService struct {
	store        otp.Store
	profileRepo  repositories.ProfileRepository
	mailer       email.Provider
	cfg          config.OTPConfig
	emailTimeout time.Duration

	now      func() time.Time
	generate func() (string, error)
}

func NewOTPService(
	store otp.Store,
	profileRepo repositories.ProfileRepository,
	mailer email.Provider,
	cfg config.OTPConfig,
	emailTimeout time.Duration,
) OTPService {
	return &otpService{
		store:        store,
		profileRepo:  profileRepo,
		mailer:       mailer,
		cfg:          cfg.WithDefaults(),
		emailTimeout: emailTimeout,
		now:          time.Now,
		generate:     otp.GenerateCode,
	}
}

// SendOTP issues a new code. A resend goes through the same path: the cooldown
// and resend cap only apply while a usable record exists.
func (s *otpService) SendOTP(ctx context.Context, db *gorm.DB, emailAddr, userType, name string) (*dto.SendOTPResponse, error) {
	addr := otp.NormalizeEmail(emailAddr)
	if !emailPattern.MatchString(addr) {
		return nil, apperrors.ErrInvalidEmail
	}
	ut := models.UserType(userType)
	if !ut.IsValid() {
		return nil, apperrors.ErrInvalidUserType
	}

	count, err := s.profileRepo.CountByEmail(withCtx(ctx, db), addr)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if count > 0 {
		return nil, apperrors.ErrEmailInUse
	}

	prev, err := s.load(ctx, addr)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if prev != nil && (prev.IsExpired(now) || prev.IsExhausted(s.cfg.MaxAttempts)) {
		if err := s.store.Delete(ctx, addr); err != nil {
			return nil, apperrors.InternalError(err)
		}
		prev = nil
	}

	var expectedVersion int64
	resendCount := 0
	if prev != nil {
		if prev.ResendCount >= s.cfg.MaxResends {
			return nil, apperrors.ErrOTPResendCap
		}
		if wait := s.cfg.Cooldown - now.Sub(prev.LastResendTime); wait > 0 {
			return nil, apperrors.ErrOTPCooldown(int(math.Ceil(wait.Seconds())))
		}
		expectedVersion = prev.Version
		resendCount = prev.ResendCount
	}

	code, err := s.generate()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	hash, err := otp.HashCode(code, s.cfg.HashCost)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	mailCtx, cancel := bounded(ctx, s.emailTimeout)
	result, err := s.mailer.SendOTP(mailCtx, addr, code, name)
	cancel()
	if err != nil {
		logger.CtxWithError(ctx, "otp email delivery failed", err, "email", addr)
		return nil, apperrors.ErrEmailDelivery(err)
	}

	rec := &otp.Record{
		Email:          addr,
		CodeHash:       hash,
		UserType:       ut,
		Name:           name,
		ExpiryTime:     now.Add(s.cfg.TTL),
		ResendCount:    resendCount + 1,
		LastResendTime: now,
	}
	if err := s.save(ctx, rec, expectedVersion); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "otp sent", "email", addr, "resend_count", rec.ResendCount, "message_id", messageID(result))
	return &dto.SendOTPResponse{
		Message:   "Verification code sent",
		ExpiresIn: int(s.cfg.TTL.Seconds()),
	}, nil
}

func (s *otpService) ResendOTP(ctx context.Context, db *gorm.DB, emailAddr, userType, name string) (*dto.SendOTPResponse, error) {
	return s.SendOTP(ctx, db, emailAddr, userType, name)
}

func (s *otpService) VerifyOTP(ctx context.Context, emailAddr, code string) (*dto.VerifyOTPResponse, error) {
	addr := otp.NormalizeEmail(emailAddr)
	rec, err := s.load(ctx, addr)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.ErrOTPNotFound
	}

	if rec.IsExpired(s.now()) {
		s.purge(ctx, addr)
		return nil, apperrors.ErrOTPExpired
	}
	if rec.IsExhausted(s.cfg.MaxAttempts) {
		s.purge(ctx, addr)
		return nil, apperrors.ErrOTPTooManyTries
	}

	if !rec.Matches(code) {
		rec.Attempts++
		if err := s.save(ctx, rec, rec.Version); err != nil {
			return nil, err
		}
		logger.CtxWarn(ctx, "otp mismatch", "email", addr, "attempts", rec.Attempts)
		return nil, apperrors.ErrInvalidOTP(s.cfg.MaxAttempts - rec.Attempts)
	}

	rec.Verified = true
	if err := s.save(ctx, rec, rec.Version); err != nil {
		return nil, err
	}
	return &dto.VerifyOTPResponse{Message: "Email verified", Verified: true}, nil
}

// VerifiedUserType returns the user type the code was requested for, or ""
// while the email has no live verified record.
func (s *otpService) VerifiedUserType(ctx context.Context, emailAddr string) (models.UserType, error) {
	rec, err := s.load(ctx, otp.NormalizeEmail(emailAddr))
	if err != nil || rec == nil {
		return "", err
	}
	if !rec.Verified || rec.IsExpired(s.now()) {
		return "", nil
	}
	return rec.UserType, nil
}

func (s *otpService) ClearOTP(ctx context.Context, emailAddr string) error {
	if err := s.store.Delete(ctx, otp.NormalizeEmail(emailAddr)); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// load returns nil without error when no record exists.
func (s *otpService) load(ctx context.Context, addr string) (*otp.Record, error) {
	rec, err := s.store.Get(ctx, addr)
	if errors.Is(err, otp.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return rec, nil
}

func (s *otpService) save(ctx context.Context, rec *otp.Record, expectedVersion int64) error {
	err := s.store.Save(ctx, rec, expectedVersion)
	if errors.Is(err, otp.ErrVersionConflict) {
		return apperrors.ErrOTPConcurrent
	}
	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *otpService) purge(ctx context.Context, addr string) {
	if err := s.store.Delete(ctx, addr); err != nil {
		logger.CtxWithError(ctx, "failed to purge otp record", err, "email", addr)
	}
}

func messageID(r *email.SendResult) string {
	if r == nil {
		return ""
	}
	return r.MessageID
}
