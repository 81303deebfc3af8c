package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"guardline/internal/apperrors"
	"guardline/internal/metrics"
	"guardline/internal/models"
)

// Mailer is the slice of the SMTP client the fan-out needs.
type Mailer interface {
	SendSOSAlert(senderName, senderEmail, contactName, contactEmail string, lat, lon float64) bool
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Contact is a notification target. Either supplied by the caller or
// resolved from the user's stored emergency contacts.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Delivery is the per-contact half of a trigger report: the alert row
// always exists, the email may not have gone out.
type Delivery struct {
	ContactName string `json:"contact_name"`
	Email       string `json:"email,omitempty"`
	Delivered   bool   `json:"delivered"`
}

// TriggerResult reports the durable and the best-effort halves of a
// trigger separately: rows written always, emails delivered maybe.
type TriggerResult struct {
	SosID      uint
	AlertsSent int
	EmailsSent int
	Deliveries []Delivery
}

type HistoryEntry struct {
	ID           uint      `json:"id"`
	SosID        uint      `json:"sos_id"`
	ContactName  string    `json:"contact_name"`
	ContactPhone string    `json:"contact_phone"`
	SenderName   string    `json:"sender_name"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	CreatedAt    time.Time `json:"created_at"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
}

// Service owns the SOS lifecycle: trigger, per-contact fan-out,
// resolution and history.
type Service struct {
	db       *gorm.DB
	mail     Mailer
	rdb      *redis.Client
	cooldown time.Duration
	log      *zap.Logger
}

// NewService wires the lifecycle manager. rdb may be nil, which
// disables the double-trigger cooldown.
func NewService(db *gorm.DB, mail Mailer, rdb *redis.Client, cooldown time.Duration, log *zap.Logger) *Service {
	return &Service{db: db, mail: mail, rdb: rdb, cooldown: cooldown, log: log}
}

// TriggerAlert persists one SosEvent plus one SosAlert per resolved
// contact in a single transaction, then attempts email delivery per
// contact. Email failures are counted and logged, never rolled back.
func (s *Service) TriggerAlert(ctx context.Context, userID uint, loc Location, alertType string, supplied []Contact) (*TriggerResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WithMessage(apperrors.ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.checkCooldown(ctx, userID); err != nil {
		return nil, err
	}

	contacts, err := s.resolveContacts(ctx, &user, supplied)
	if err != nil {
		return nil, err
	}

	if alertType == "" {
		alertType = models.AlertTypeManual
	}

	event := models.SosEvent{
		UserID:    userID,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		AlertType: alertType,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("create sos event: %w", err)
		}
		for _, c := range contacts {
			alert := models.SosAlert{
				SosID:        event.ID,
				ContactName:  c.Name,
				ContactPhone: c.Phone,
			}
			if err := tx.Create(&alert).Error; err != nil {
				return fmt.Errorf("create sos alert: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.SosEvents.Inc()
	metrics.SosAlerts.Add(float64(len(contacts)))

	emailsSent := 0
	deliveries := make([]Delivery, 0, len(contacts))
	for _, c := range contacts {
		d := Delivery{ContactName: c.Name, Email: c.Email}
		if c.Email != "" {
			if s.mail != nil && s.mail.SendSOSAlert(user.Name, user.Email, c.Name, c.Email, loc.Latitude, loc.Longitude) {
				d.Delivered = true
				emailsSent++
				metrics.EmailsDelivered.Inc()
			} else {
				metrics.EmailsFailed.Inc()
				s.log.Error("sos notification not delivered",
					zap.Uint("sos_id", event.ID),
					zap.String("contact", c.Name),
					zap.String("email", c.Email))
			}
		}
		deliveries = append(deliveries, d)
	}

	s.log.Info("sos triggered",
		zap.Uint("sos_id", event.ID),
		zap.Uint("user_id", userID),
		zap.Int("alerts", len(contacts)),
		zap.Int("emails_sent", emailsSent))

	return &TriggerResult{
		SosID:      event.ID,
		AlertsSent: len(contacts),
		EmailsSent: emailsSent,
		Deliveries: deliveries,
	}, nil
}

// resolveContacts prefers the caller-supplied list, then the user's
// stored contacts, and as a last resort synthesizes a single contact
// from the user's own details so the event is never silently dropped.
func (s *Service) resolveContacts(ctx context.Context, user *models.User, supplied []Contact) ([]Contact, error) {
	if len(supplied) > 0 {
		return supplied, nil
	}

	var stored []models.EmergencyContact
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	if len(stored) > 0 {
		contacts := make([]Contact, 0, len(stored))
		for _, c := range stored {
			contacts = append(contacts, Contact{Name: c.Name, Phone: c.Phone, Email: c.Email})
		}
		return contacts, nil
	}

	s.log.Warn("no emergency contacts on file, notifying user themselves",
		zap.Uint("user_id", user.ID))
	return []Contact{{
		Name:  user.Name,
		Phone: user.PhoneOrEmpty(),
		Email: user.Email,
	}}, nil
}

func (s *Service) checkCooldown(ctx context.Context, userID uint) error {
	if s.rdb == nil || s.cooldown <= 0 {
		return nil
	}
	key := fmt.Sprintf("sos:cooldown:%d", userID)
	ok, err := s.rdb.SetNX(ctx, key, 1, s.cooldown).Result()
	if err != nil {
		// Redis being down must not block an SOS.
		s.log.Warn("cooldown check skipped", zap.Error(err))
		return nil
	}
	if !ok {
		return apperrors.WithMessage(apperrors.ErrRateLimited, "SOS already triggered, please wait a moment")
	}
	return nil
}

// ResolveAlert marks one alert resolved. Resolving an alert that is
// already resolved succeeds.
func (s *Service) ResolveAlert(ctx context.Context, alertID uint) error {
	res := s.db.WithContext(ctx).
		Model(&models.SosAlert{}).
		Where("id = ?", alertID).
		Update("resolved", true)
	if res.Error != nil {
		return fmt.Errorf("resolve alert: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.WithMessage(apperrors.ErrNotFound, "Alert not found")
	}
	return nil
}

// AlertHistory returns the alerts received by this user as a contact,
// matched by any phone number belonging to the user, newest first.
func (s *Service) AlertHistory(ctx context.Context, userID uint) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := s.db.WithContext(ctx).
		Table("sos_alerts AS sa").
		Select("sa.id, se.id AS sos_id, sa.contact_name, sa.contact_phone, " +
			"u.name AS sender_name, se.latitude, se.longitude, sa.created_at, " +
			"se.alert_type AS type, " +
			"CASE WHEN sa.resolved THEN 'resolved' ELSE 'active' END AS status").
		Joins("JOIN sos_events se ON sa.sos_id = se.id").
		Joins("JOIN users u ON se.user_id = u.id").
		Where("sa.contact_phone IN (?)",
			s.db.Table("users").Select("phone").Where("id = ?", userID)).
		Order("sa.created_at DESC, sa.id DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("alert history: %w", err)
	}
	return entries, nil
}
