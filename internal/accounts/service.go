package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"guardline/internal/apperrors"
	"guardline/internal/models"
	"guardline/internal/utils"
)

// Verification codes expire after this window; the expiry is checked
// at verify time, there is no background sweeper.
const codeTTL = 15 * time.Minute

// Mailer is the slice of the SMTP client registration needs.
type Mailer interface {
	SendVerificationCode(email, code string) bool
}

type Service struct {
	db   *gorm.DB
	mail Mailer
	log  *zap.Logger
}

func NewService(db *gorm.DB, mail Mailer, log *zap.Logger) *Service {
	return &Service{db: db, mail: mail, log: log}
}

// RegisterResult reports what happened during registration. Code is
// echoed back to the caller so development setups work without a mail
// relay; EmailSent tells the client whether delivery actually happened.
type RegisterResult struct {
	User      *models.User
	Code      string
	EmailSent bool
}

func (s *Service) Register(ctx context.Context, name, email, phone, password string) (*RegisterResult, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing required fields")
	}
	email = strings.ToLower(email)

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperrors.WithMessage(apperrors.ErrConflict, "Email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if phone != "" {
		err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&existing).Error
		if err == nil {
			return nil, apperrors.WithMessage(apperrors.ErrConflict, "Phone number already registered")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup phone: %w", err)
		}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Name: name, Email: email, Password: hash}
	if phone != "" {
		user.Phone = &phone
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	code, err := utils.GenerateVerificationCode(6)
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	vc := models.VerificationCode{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(codeTTL),
	}
	if err := s.db.WithContext(ctx).Create(&vc).Error; err != nil {
		return nil, fmt.Errorf("store verification code: %w", err)
	}

	sent := false
	if s.mail != nil {
		sent = s.mail.SendVerificationCode(email, code)
	}
	if !sent {
		s.log.Warn("verification email not delivered", zap.String("email", email))
	}

	return &RegisterResult{User: &user, Code: code, EmailSent: sent}, nil
}

// VerifyEmail checks the most recently issued code for the address and
// flips the account to verified. Used codes are deleted.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing required fields")
	}
	email = strings.ToLower(email)

	var vc models.VerificationCode
	err := s.db.WithContext(ctx).
		Where("email = ? AND code = ?", email, code).
		Order("created_at DESC").
		First(&vc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid verification code")
	}
	if err != nil {
		return fmt.Errorf("lookup code: %w", err)
	}
	if time.Now().After(vc.ExpiresAt) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Verification code expired")
	}

	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Update("verified", true).Error; err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Where("email = ? AND code = ?", email, code).
		Delete(&models.VerificationCode{}).Error; err != nil {
		s.log.Warn("failed to delete used verification code",
			zap.String("email", email), zap.Error(err))
	}
	return nil
}

// Login checks credentials and returns the user record. Unverified
// accounts are rejected with a distinct error from bad credentials.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing email or password")
	}
	email = strings.ToLower(email)

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if utils.CheckPasswordHash(user.Password, password) != nil {
		return nil, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid email or password")
	}
	if !user.Verified {
		return nil, apperrors.WithMessage(apperrors.ErrUnverified, "Please verify your email before logging in")
	}
	return &user, nil
}

// ListVerified returns all verified users.
func (s *Service) ListVerified(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("verified = ?", true).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
