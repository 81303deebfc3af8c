package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"guardline/internal/accounts"
)

type AuthController struct {
	accounts  *accounts.Service
	jwtSecret string
	tokenTTL  time.Duration
	log       *zap.Logger
}

func NewAuthController(svc *accounts.Service, jwtSecret string, tokenTTL time.Duration, log *zap.Logger) *AuthController {
	return &AuthController{accounts: svc, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

type registerPayload struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

func (a *AuthController) Register(c *gin.Context) {
	var p registerPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Missing required fields")
		return
	}
	res, err := a.accounts.Register(c.Request.Context(), p.Name, p.Email, p.Phone, p.Password)
	if err != nil {
		fail(c, a.log, err)
		return
	}
	// The code is echoed in the response so the flow works in
	// development without a reachable mail relay.
	c.JSON(http.StatusCreated, gin.H{
		"success":           true,
		"message":           "Registration successful! Please verify your email.",
		"email_sent":        res.EmailSent,
		"verification_code": res.Code,
	})
}

type verifyPayload struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

func (a *AuthController) VerifyEmail(c *gin.Context) {
	var p verifyPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Missing required fields")
		return
	}
	if err := a.accounts.VerifyEmail(c.Request.Context(), p.Email, p.Code); err != nil {
		fail(c, a.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully!"})
}

type loginPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) Login(c *gin.Context) {
	var p loginPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Missing email or password")
		return
	}
	user, err := a.accounts.Login(c.Request.Context(), p.Email, p.Password)
	if err != nil {
		fail(c, a.log, err)
		return
	}
	token, err := a.createAccessToken(user.ID)
	if err != nil {
		fail(c, a.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Login successful",
		"user":         user,
		"access_token": token,
	})
}

func (a *AuthController) ListUsers(c *gin.Context) {
	users, err := a.accounts.ListVerified(c.Request.Context())
	if err != nil {
		fail(c, a.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func (a *AuthController) createAccessToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(a.tokenTTL).Unix(),
		"typ": "access",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(a.jwtSecret))
}
