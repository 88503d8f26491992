package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/dto"
	apierrors "github.com/volunteerhub/volunteer-hub-api/internal/errors"
	"github.com/volunteerhub/volunteer-hub-api/internal/middleware"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
)

// ApplicationHandler coordinates the application workflow HTTP handlers.
type ApplicationHandler struct {
	appService  *services.ApplicationService
	authService *services.AuthService
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(appService *services.ApplicationService, authService *services.AuthService) *ApplicationHandler {
	return &ApplicationHandler{
		appService:  appService,
		authService: authService,
	}
}

// Submit files a new application for the session user.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	email, exists := middleware.GetUserEmail(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated.")
		return
	}

	type SubmitRequest struct {
		TaskID              string `json:"task_id" binding:"required"`
		MotivationStatement string `json:"motivation_statement" binding:"required"`
		RelevantExperience  string `json:"relevant_experience"`
		AvailabilityNote    string `json:"availability_note"`
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Missing required Task ID or motivation statement.")
		return
	}

	taskID, err := strconv.ParseUint(req.TaskID, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid Task ID format.")
		return
	}

	app, err := h.appService.Submit(services.SubmitInput{
		TaskID:              taskID,
		ApplicantEmail:      email,
		MotivationStatement: req.MotivationStatement,
		RelevantExperience:  req.RelevantExperience,
		AvailabilityNote:    req.AvailabilityNote,
	})
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"message":        "Application submitted successfully! It is now pending organizer review.",
		"application_id": strconv.FormatUint(app.ID, 10),
	})
}

// GetApplication returns a single application's full detail.
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	appID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid Application ID format.")
		return
	}

	app, organizerName, err := h.appService.GetApplication(appID)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Application details retrieved.",
		"application": dto.ToApplicationDetailDTO(*app, organizerName),
	})
}

// ListMine returns the session user's application history, newest first.
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	email, exists := middleware.GetUserEmail(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated.")
		return
	}

	apps, organizerNames, err := h.appService.ListByApplicant(email)
	if err != nil {
		respondApplicationError(c, err)
		return
	}

	items := make([]dto.ApplicationHistoryItemDTO, len(apps))
	for i, app := range apps {
		items[i] = dto.ToApplicationHistoryItemDTO(app, organizerNames)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("Retrieved %d applications.", len(items)),
		"applications": items,
	})
}

// ListReviewQueue returns applications across the session user's tasks,
// pending first.
func (h *ApplicationHandler) ListReviewQueue(c *gin.Context) {
	organizer, ok := h.sessionUser(c)
	if !ok {
		return
	}

	apps, err := h.appService.ListForOrganizer(organizer.ID)
	if err != nil {
		logServerError(c, "list review queue", err)
		apierrors.InternalError(c, "A server error occurred while fetching applications.")
		return
	}

	items := make([]dto.ReviewQueueItemDTO, len(apps))
	for i, app := range apps {
		items[i] = dto.ToReviewQueueItemDTO(app)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("Retrieved %d applications.", len(items)),
		"applications": items,
	})
}

// Verdict applies an organizer's APPROVED/REJECTED decision.
func (h *ApplicationHandler) Verdict(c *gin.Context) {
	appID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid Application ID format.")
		return
	}

	organizer, ok := h.sessionUser(c)
	if !ok {
		return
	}

	type VerdictRequest struct {
		Verdict string `json:"verdict" binding:"required"`
		Reason  string `json:"reason"`
	}

	var req VerdictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body.")
		return
	}

	verdict := models.ApplicationStatus(req.Verdict)
	if err := h.appService.Verdict(services.VerdictInput{
		ApplicationID: appID,
		OrganizerID:   organizer.ID,
		Verdict:       verdict,
		Reason:        req.Reason,
	}); err != nil {
		respondApplicationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Application successfully set to %s.", verdict),
	})
}

// Withdraw moves the session user's own pending application to WITHDRAWN.
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	appID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid Application ID format.")
		return
	}

	applicant, ok := h.sessionUser(c)
	if !ok {
		return
	}

	if err := h.appService.Withdraw(appID, applicant.ID); err != nil {
		var conflict *services.StatusConflictError
		if errors.As(err, &conflict) {
			apierrors.Conflict(c, fmt.Sprintf("Cannot withdraw. Status is already %s.", conflict.Status))
			return
		}
		respondApplicationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Your application has been successfully withdrawn.",
	})
}

func (h *ApplicationHandler) sessionUser(c *gin.Context) (*models.User, bool) {
	email, exists := middleware.GetUserEmail(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated.")
		return nil, false
	}

	user, err := h.authService.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.Unauthorized(c, "Not authenticated.")
		} else {
			logServerError(c, "resolve session user", err)
			apierrors.InternalError(c, "")
		}
		return nil, false
	}
	return user, true
}

func respondApplicationError(c *gin.Context, err error) {
	var conflict *services.StatusConflictError
	switch {
	case errors.Is(err, services.ErrMotivationTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Motivation statement must be at least %d characters.", constants.MinMotivationLength))
	case errors.Is(err, services.ErrInvalidVerdict):
		apierrors.BadRequest(c, "Verdict must be APPROVED or REJECTED.")
	case errors.Is(err, services.ErrApplicantNotFound):
		apierrors.NotFound(c, "Applicant profile not found.")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Target task not found.")
	case errors.Is(err, services.ErrApplicationNotFound):
		apierrors.NotFound(c, "Application record not found.")
	case errors.Is(err, services.ErrApplicationsClosed):
		apierrors.Conflict(c, "Applications are closed for this task.")
	case errors.Is(err, services.ErrDuplicateApplication):
		apierrors.Conflict(c, "You have already applied for this task.")
	case errors.Is(err, services.ErrNotTaskOrganizer):
		apierrors.Forbidden(c, "Only the task organizer can judge this application.")
	case errors.Is(err, services.ErrNotApplicationOwner):
		apierrors.Forbidden(c, "Only the applicant can withdraw this application.")
	case errors.As(err, &conflict):
		apierrors.Conflict(c, fmt.Sprintf("Application status is already %s.", conflict.Status))
	default:
		logServerError(c, "application", err)
		apierrors.InternalError(c, "")
	}
}
