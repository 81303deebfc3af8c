package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"guardline/internal/accounts"
	"guardline/internal/alerts"
	"guardline/internal/config"
	"guardline/internal/contacts"
	"guardline/internal/mailer"
	"guardline/internal/metrics"
	"guardline/internal/middleware"
)

// RouterDeps carries everything the HTTP surface is built from. Redis
// and Mail may be nil; the affected features degrade instead of
// failing.
type RouterDeps struct {
	Cfg   *config.Config
	DB    *gorm.DB
	Redis *redis.Client
	Mail  *mailer.SMTPClient
	Log   *zap.Logger
}

// NewRouter assembles services, controllers and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	// Typed-nil guard: a nil *SMTPClient must become a nil interface
	// so the services' nil checks work.
	var acctMail accounts.Mailer
	var sosMail alerts.Mailer
	if deps.Mail != nil {
		acctMail = deps.Mail
		sosMail = deps.Mail
	}

	acctSvc := accounts.NewService(deps.DB, acctMail, deps.Log)
	contactSvc := contacts.NewService(deps.DB)
	alertSvc := alerts.NewService(deps.DB, sosMail, deps.Redis,
		time.Duration(deps.Cfg.SosCooldownSec)*time.Second, deps.Log)

	auth := NewAuthController(acctSvc, deps.Cfg.JWTSecret,
		time.Duration(deps.Cfg.TokenTTLMin)*time.Minute, deps.Log)
	contact := NewContactsController(contactSvc, deps.Log)
	sos := NewSosController(alertSvc, deps.Log)
	system := NewSystemController(deps.DB, deps.Mail, deps.Log)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), metrics.Middleware())

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	{
		api.POST("/register", auth.Register)
		api.POST("/verify-email", auth.VerifyEmail)
		api.POST("/login", auth.Login)
		api.GET("/users", auth.ListUsers)
		api.GET("/health", system.Health)
		api.GET("/test-db", system.TestDB)
		api.POST("/test-email", system.TestEmail)
	}

	protected := r.Group("/api")
	protected.Use(middleware.Auth(deps.Cfg.JWTSecret))
	{
		protected.GET("/emergency-contacts", contact.List)
		protected.POST("/emergency-contacts", contact.Add)
		protected.DELETE("/emergency-contacts/:id", contact.Delete)
		protected.GET("/emergency-contacts/count", contact.Count)
		protected.POST("/sos", sos.Trigger)
		protected.GET("/alerts/history", sos.History)
		protected.POST("/alerts/resolve", sos.Resolve)
	}

	return r
}
