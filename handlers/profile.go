package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yourrest-api/middleware"
	"yourrest-api/models"
	"yourrest-api/services"
)

// GetProfile returns the caller's profile, or an empty placeholder
func (h *Handler) GetProfile(c *gin.Context) {
	user, found, err := h.Profiles.Get(c.Request.Context(), middleware.GetClaims(c))
	if err != nil {
		fail(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "found": found})
}

// UpdateProfile saves name, address and an optional new picture
func (h *Handler) UpdateProfile(c *gin.Context) {
	pic, closePic, err := formImage(c, "profilePic")
	defer closePic()
	if err != nil {
		fail(c, err, "Error applying your changes!")
		return
	}

	user, changed, err := h.Profiles.Save(c.Request.Context(), middleware.GetClaims(c), services.ProfileUpdate{
		DisplayName: formField(c, "displayName"),
		Address:     formField(c, "address"),
		Picture:     pic,
	})
	if err != nil {
		fail(c, err, "Error applying your changes!")
		return
	}
	if !changed {
		c.JSON(http.StatusOK, gin.H{"user": user, "updated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"updated":      true,
		"notification": models.Success("Changes applied successfully!"),
	})
}

// formField returns nil when the field was not submitted at all.
func formField(c *gin.Context, key string) *string {
	value, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &value
}
