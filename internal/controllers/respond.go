package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"guardline/internal/apperrors"
)

// fail maps a service error onto the response contract: a JSON body
// with success=false plus a message, and a status for the failure
// class. Duplicate registrations answer 400 to match the original API.
func fail(c *gin.Context, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrUnverified):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrRateLimited):
		status = http.StatusTooManyRequests
	default:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		msg = "Internal server error"
	}
	c.JSON(status, gin.H{"success": false, "message": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msg})
}
