package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"yourrest-api/media"
	"yourrest-api/middleware"
	"yourrest-api/models"
	"yourrest-api/payment"
	"yourrest-api/repository"
	"yourrest-api/services"
	"yourrest-api/statemachine"
)

// Handler serves every HTTP route; services are injected by main.
type Handler struct {
	Auth     *services.AuthService
	Ordering *services.OrderingService
	Catalog  *services.CatalogService
	Profiles *services.ProfileService
	Contact  *services.ContactService
	Gateway  payment.Gateway
	Currency string
	Store    *repository.Store
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrConfirmationRequired),
		errors.Is(err, payment.ErrBadSignature),
		errors.Is(err, media.ErrUploadRejected):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, statemachine.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, payment.ErrGateway), errors.Is(err, services.ErrRelay):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail answers with the mapped status, the error detail for client errors and
// a notification carrying msg.
func fail(c *gin.Context, err error, msg string) {
	status := statusOf(err)
	detail := msg
	if status < http.StatusInternalServerError {
		detail = err.Error()
	}
	entry := log.WithError(err).WithFields(log.Fields{"path": c.FullPath(), "status": status})
	if claims := middleware.GetClaims(c); claims != nil {
		entry = entry.WithField("user_id", claims.UserID)
	}
	if status >= http.StatusInternalServerError {
		entry.Error(msg)
	} else {
		entry.Warn(msg)
	}
	c.JSON(status, gin.H{"error": detail, "notification": models.Failure(msg)})
}

func badRequest(c *gin.Context, err error, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "notification": models.Failure(msg)})
}
