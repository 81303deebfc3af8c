package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"guardline/internal/alerts"
	"guardline/internal/middleware"
)

type SosController struct {
	alerts *alerts.Service
	log    *zap.Logger
}

func NewSosController(svc *alerts.Service, log *zap.Logger) *SosController {
	return &SosController{alerts: svc, log: log}
}

type triggerLocation struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type triggerPayload struct {
	Location          *triggerLocation `json:"location" binding:"required"`
	AlertType         string           `json:"alert_type"`
	EmergencyContacts []alerts.Contact `json:"emergency_contacts"`
}

func (sc *SosController) Trigger(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		badRequest(c, "User ID is required")
		return
	}
	var p triggerPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Location data is required")
		return
	}
	loc := alerts.Location{Latitude: *p.Location.Latitude, Longitude: *p.Location.Longitude}
	res, err := sc.alerts.TriggerAlert(c.Request.Context(), userID, loc, p.AlertType, p.EmergencyContacts)
	if err != nil {
		fail(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("SOS triggered successfully. Alerts sent to %d contacts, %d emails sent.",
			res.AlertsSent, res.EmailsSent),
		"sos_id":     res.SosID,
		"emailsSent": res.EmailsSent,
		"deliveries": res.Deliveries,
	})
}

func (sc *SosController) History(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		badRequest(c, "User ID is required")
		return
	}
	entries, err := sc.alerts.AlertHistory(c.Request.Context(), userID)
	if err != nil {
		fail(c, sc.log, err)
		return
	}
	if entries == nil {
		entries = []alerts.HistoryEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "alerts": entries})
}

type resolvePayload struct {
	AlertID uint `json:"alert_id" binding:"required"`
}

func (sc *SosController) Resolve(c *gin.Context) {
	var p resolvePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Alert ID is required")
		return
	}
	if err := sc.alerts.ResolveAlert(c.Request.Context(), p.AlertID); err != nil {
		fail(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Alert resolved successfully"})
}
