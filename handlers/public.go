package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yourrest-api/models"
	"yourrest-api/orderquery"
	"yourrest-api/services"
	"yourrest-api/statemachine"
)

// GetStateMachineInfo returns the full order lifecycle for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"states":      models.AllStatuses,
		"transitions": statemachine.GetAllTransitions(),
		"terminal":    []models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
		"selectors":   orderquery.Selectors,
	})
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "YourRest food ordering API",
		"version": "1.0.0",
	})
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// SendContactMessage relays the contact form
func (h *Handler) SendContactMessage(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Please fill all the details!")
		return
	}
	if err := h.Contact.Send(c.Request.Context(), services.ContactMessage(req)); err != nil {
		fail(c, err, "Oops! Message cannot be sent at this moment.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message sent", "notification": models.Success("Message sent successfully!")})
}
