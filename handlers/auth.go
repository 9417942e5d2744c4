package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yourrest-api/middleware"
	"yourrest-api/models"
	"yourrest-api/repository"
	"yourrest-api/services"
)

type RegisterRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new user account
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Please fill all the details!")
		return
	}

	user, token, err := h.Auth.CreateAccount(c.Request.Context(), services.RegisterInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		fail(c, err, "Email already registered")
		return
	}
	if err != nil {
		fail(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Account created successfully",
		"token":        token,
		"user":         user,
		"notification": models.Success("Account created! Check your inbox to verify your email."),
	})
}

// Login authenticates a user and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Please fill all the details!")
		return
	}

	user, token, err := h.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err, "Invalid email or password")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.Auth.SignOut(c.Request.Context(), middleware.GetClaims(c)); err != nil {
		fail(c, err, "Failed to sign out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out", "notification": models.Info("You have been signed out.")})
}

func (h *Handler) SendVerification(c *gin.Context) {
	if err := h.Auth.SendVerificationEmail(c.Request.Context(), middleware.GetClaims(c)); err != nil {
		fail(c, err, "Failed to send verification email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent", "notification": models.Info("Verification email sent.")})
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}
	if err := h.Auth.VerifyEmail(c.Request.Context(), token); err != nil {
		fail(c, err, "Verification link is invalid or expired")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified", "notification": models.Success("Email verified!")})
}

// Session returns the signed-in user and the navigation state for their role.
func (h *Handler) Session(c *gin.Context) {
	claims := middleware.GetClaims(c)
	user, found, err := h.Profiles.Get(c.Request.Context(), claims)
	if err != nil {
		fail(c, err, "Failed to load session")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"profile_found": found,
		"sections":      services.Sections(claims.Role),
		"activeSection": services.ResolveSection(claims.Role, c.Query("section")),
	})
}
