package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/dto"
	apierrors "github.com/volunteerhub/volunteer-hub-api/internal/errors"
	"github.com/volunteerhub/volunteer-hub-api/internal/middleware"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
)

// AuthHandler coordinates account and profile HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Signup registers a new community account.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		DisplayName string `json:"display_name" binding:"required"`
		Email       string `json:"email" binding:"required"`
		Password    string `json:"password" binding:"required"`
		Location    string `json:"location"`
		CauseFocus  string `json:"cause_focus" binding:"required"`
		Skills      string `json:"skills"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body.")
		return
	}

	user, err := h.authService.Signup(services.SignupInput{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
		Location:    req.Location,
		CauseFocus:  req.CauseFocus,
		Skills:      req.Skills,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Success! Your community account has been created. You can now log in.",
		"user":    dto.ToUserDTO(*user),
	})
}

// Login verifies credentials and issues the minimal session principal.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body.")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyEmail, user.Email)
	session.Set(constants.SessionKeyName, user.DisplayName)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged in successfully.",
		"principal": dto.SessionPrincipalDTO{
			Email:       user.Email,
			DisplayName: user.DisplayName,
		},
	})
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully.",
	})
}

// GetCurrentUser returns the authenticated user's profile.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	email, exists := middleware.GetUserEmail(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated.")
		return
	}

	user, err := h.authService.GetUserByEmail(email)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User profile retrieved successfully.",
		"user":    dto.ToUserDTO(*user),
	})
}

// UpdateProfile updates the session user's editable profile fields.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	email, exists := middleware.GetUserEmail(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated.")
		return
	}

	type UpdateProfileRequest struct {
		DisplayName string `json:"display_name" binding:"required"`
		Location    string `json:"location"`
		CauseFocus  string `json:"cause_focus" binding:"required"`
		Skills      string `json:"skills"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body.")
		return
	}

	err := h.authService.UpdateProfile(email, services.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Location:    req.Location,
		CauseFocus:  req.CauseFocus,
		Skills:      req.Skills,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	// Keep the session principal's display name current
	session := sessions.Default(c)
	session.Set(constants.SessionKeyName, req.DisplayName)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Profile for %s updated successfully!", req.DisplayName),
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingSignupFields):
		apierrors.BadRequest(c, "Missing required authentication and community fields.")
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters long.", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "A user with this email address already exists.")
	case errors.Is(err, services.ErrDisplayNameTaken):
		apierrors.Conflict(c, "This display name is already taken. Please choose another.")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid email or password.")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found.")
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, "")
	default:
		logServerError(c, "auth", err)
		apierrors.InternalError(c, "")
	}
}
