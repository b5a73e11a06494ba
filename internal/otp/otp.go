// Package otp holds one-time verification codes keyed by email address.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"jobnest_backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound        = errors.New("otp record not found")
	ErrVersionConflict = errors.New("otp record was modified concurrently")
)

// ExpiryGrace keeps a record readable for a short while after ExpiryTime so a
// late verification is reported as expired rather than missing.
const ExpiryGrace = time.Minute

// Record is the verification state for one email. The plain code is never stored.
type Record struct {
	Email          string          `json:"email"`
	CodeHash       string          `json:"codeHash"`
	UserType       models.UserType `json:"userType"`
	Name           string          `json:"name"`
	ExpiryTime     time.Time       `json:"expiryTime"`
	Attempts       int             `json:"attempts"`
	ResendCount    int             `json:"resendCount"`
	LastResendTime time.Time       `json:"lastResendTime"`
	Verified       bool            `json:"verified"`
	Version        int64           `json:"version"`
}

// Store persists records with native per-key expiry.
//
// Save is a conditional write: it succeeds only when the stored version equals
// expectedVersion (0 means no record may exist) and bumps rec.Version.
type Store interface {
	Get(ctx context.Context, email string) (*Record, error)
	Save(ctx context.Context, rec *Record, expectedVersion int64) error
	Delete(ctx context.Context, email string) error
}

// IsExpired reports whether the code can no longer be used at now.
func (r *Record) IsExpired(now time.Time) bool {
	return now.After(r.ExpiryTime)
}

// IsExhausted reports whether the attempt limit has been reached.
func (r *Record) IsExhausted(maxAttempts int) bool {
	return r.Attempts >= maxAttempts
}

func (r *Record) Matches(code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(r.CodeHash), []byte(code)) == nil
}

// GenerateCode returns a uniform 6-digit code in [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func HashCode(code string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash otp: %w", err)
	}
	return string(hash), nil
}

// NormalizeEmail is the key used by every store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
