package contacts

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"guardline/internal/apperrors"
	"guardline/internal/models"
)

// Service manages a user's emergency contacts. All operations are
// scoped to the owning user.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(ctx context.Context, userID uint) ([]models.EmergencyContact, error) {
	var list []models.EmergencyContact
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return list, nil
}

func (s *Service) Add(ctx context.Context, userID uint, name, phone, email string) (*models.EmergencyContact, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Contact name is required")
	}
	contact := models.EmergencyContact{
		UserID: userID,
		Name:   name,
		Phone:  phone,
		Email:  email,
	}
	if err := s.db.WithContext(ctx).Create(&contact).Error; err != nil {
		return nil, fmt.Errorf("add contact: %w", err)
	}
	return &contact, nil
}

// Delete removes one contact. NotFound covers both a missing id and an
// id owned by somebody else.
func (s *Service) Delete(ctx context.Context, userID, contactID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", contactID, userID).
		Delete(&models.EmergencyContact{})
	if res.Error != nil {
		return fmt.Errorf("delete contact: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.WithMessage(apperrors.ErrNotFound, "Contact not found or not authorized to delete")
	}
	return nil
}

func (s *Service) Count(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).
		Model(&models.EmergencyContact{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}
