package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"guardline/internal/mailer"
)

// SystemController backs the connectivity-check endpoints.
type SystemController struct {
	db   *gorm.DB
	mail *mailer.SMTPClient
	log  *zap.Logger
}

func NewSystemController(db *gorm.DB, mail *mailer.SMTPClient, log *zap.Logger) *SystemController {
	return &SystemController{db: db, mail: mail, log: log}
}

func (s *SystemController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "ok"})
}

func (s *SystemController) TestDB(c *gin.Context) {
	var one int
	if err := s.db.WithContext(c.Request.Context()).Raw("SELECT 1").Scan(&one).Error; err != nil {
		fail(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connection successful",
		"result":  one,
	})
}

type testEmailPayload struct {
	Email string `json:"email" binding:"required,email"`
}

func (s *SystemController) TestEmail(c *gin.Context) {
	var p testEmailPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Email is required")
		return
	}
	if s.mail == nil || !s.mail.SendVerificationCode(p.Email, "123456") {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send test email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Test email sent successfully to " + p.Email,
		"sender":  s.mail.From,
	})
}
