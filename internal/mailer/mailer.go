package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"guardline/internal/config"
)

// Placeholder values from the sample .env. Sending with these still in
// place would only produce auth failures, so it is caught up front.
const (
	placeholderUser = "your-email@gmail.com"
	placeholderPass = "your-app-password"
)

// SMTPClient submits mail over an authenticated STARTTLS connection.
// The high-level senders swallow all failures into a bool plus a log
// line; callers must not expect an error-based contract.
type SMTPClient struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	log *zap.Logger
}

func NewSMTPClient(cfg config.MailConfig, log *zap.Logger) *SMTPClient {
	return &SMTPClient{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		From:     cfg.From,
		log:      log,
	}
}

// Send submits one plain-text message. Used directly by the test-email
// endpoint and by the high-level senders below.
func (s *SMTPClient) Send(to, subject, body string) error {
	if s == nil || s.Host == "" || s.User == "" {
		return fmt.Errorf("smtp not configured")
	}
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.User, s.Password, s.Host)
	msg := []byte("To: " + to + "\r\n" +
		"From: " + s.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" + body + "\r\n")
	return smtp.SendMail(addr, auth, s.From, []string{to}, msg)
}

// SendVerificationCode mails a registration code. Reports delivery as
// a bool; registration succeeds regardless.
func (s *SMTPClient) SendVerificationCode(email, code string) bool {
	body := fmt.Sprintf("Your verification code is: %s", code)
	if err := s.Send(email, "Security App - Email Verification", body); err != nil {
		s.log.Error("verification email failed",
			zap.String("to", email), zap.Error(err))
		return false
	}
	s.log.Info("verification email sent", zap.String("to", email))
	return true
}

// SendSOSAlert mails one emergency contact about a triggered SOS. The
// credential and recipient checks short-circuit before any network
// call is attempted.
func (s *SMTPClient) SendSOSAlert(senderName, senderEmail, contactName, contactEmail string, lat, lon float64) bool {
	if s.User == "" || s.User == placeholderUser || s.Password == "" || s.Password == placeholderPass {
		s.log.Error("mail credentials missing or left at placeholder values")
		return false
	}
	if !strings.Contains(contactEmail, "@") {
		s.log.Error("invalid recipient email", zap.String("to", contactEmail))
		return false
	}

	mapsLink := fmt.Sprintf("https://www.google.com/maps?q=%f,%f", lat, lon)
	subject := fmt.Sprintf("EMERGENCY SOS ALERT from %s", senderName)
	body := fmt.Sprintf(`EMERGENCY ALERT

%s has triggered an SOS alert and needs immediate help!

Their current location: %s

This is an automated message from the Personal Security App.
Please try to contact %s immediately or alert emergency services.`,
		senderName, mapsLink, senderName)

	if err := s.Send(contactEmail, subject, body); err != nil {
		s.log.Error("sos email failed",
			zap.String("to", contactEmail),
			zap.String("sender", senderEmail),
			zap.Error(err))
		return false
	}
	s.log.Info("sos email sent",
		zap.String("to", contactEmail), zap.String("contact", contactName))
	return true
}
