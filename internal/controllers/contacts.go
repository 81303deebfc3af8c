package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"guardline/internal/contacts"
	"guardline/internal/middleware"
)

type ContactsController struct {
	contacts *contacts.Service
	log      *zap.Logger
}

func NewContactsController(svc *contacts.Service, log *zap.Logger) *ContactsController {
	return &ContactsController{contacts: svc, log: log}
}

func (cc *ContactsController) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		badRequest(c, "User ID is required")
		return
	}
	list, err := cc.contacts.List(c.Request.Context(), userID)
	if err != nil {
		fail(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contacts": list})
}

type addContactPayload struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (cc *ContactsController) Add(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		badRequest(c, "User ID is required")
		return
	}
	var p addContactPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "User ID and name are required")
		return
	}
	contact, err := cc.contacts.Add(c.Request.Context(), userID, p.Name, p.Phone, p.Email)
	if err != nil {
		fail(c, cc.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Emergency contact added successfully",
		"contact_id": contact.ID,
	})
}

func (cc *ContactsController) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		badRequest(c, "User ID is required")
		return
	}
	contactID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "Invalid contact ID")
		return
	}
	if err := cc.contacts.Delete(c.Request.Context(), userID, uint(contactID)); err != nil {
		fail(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Emergency contact deleted successfully"})
}

func (cc *ContactsController) Count(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		badRequest(c, "User ID is required")
		return
	}
	n, err := cc.contacts.Count(c.Request.Context(), userID)
	if err != nil {
		fail(c, cc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": n})
}
