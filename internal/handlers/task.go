package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/dto"
	apierrors "github.com/volunteerhub/volunteer-hub-api/internal/errors"
	"github.com/volunteerhub/volunteer-hub-api/internal/middleware"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/services"
	"github.com/volunteerhub/volunteer-hub-api/internal/utils"
)

// TaskHandler coordinates task catalog HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
	authService *services.AuthService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, authService *services.AuthService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		authService: authService,
	}
}

// TaskRequest is the shared create/edit payload. Dates are ISO-8601 and
// required skills arrive as a comma-separated string.
type TaskRequest struct {
	Title                   string     `json:"title" binding:"required"`
	Description             string     `json:"description" binding:"required"`
	StartTime               time.Time  `json:"start_time" binding:"required"`
	EndTime                 *time.Time `json:"end_time"`
	Location                string     `json:"location" binding:"required"`
	MaxVolunteers           int        `json:"max_volunteers" binding:"required"`
	CauseFocus              string     `json:"cause_focus" binding:"required"`
	RequiredSkills          string     `json:"required_skills"`
	PriorityLevel           string     `json:"priority_level"`
	ApplicationDeadline     time.Time  `json:"application_deadline" binding:"required"`
	IsAcceptingApplications bool       `json:"is_accepting_applications"`
}

func (r TaskRequest) toInput() services.TaskInput {
	return services.TaskInput{
		Title:                   r.Title,
		Description:             r.Description,
		StartTime:               r.StartTime,
		EndTime:                 r.EndTime,
		Location:                r.Location,
		MaxVolunteers:           r.MaxVolunteers,
		CauseFocus:              r.CauseFocus,
		RequiredSkills:          r.RequiredSkills,
		PriorityLevel:           models.PriorityLevel(r.PriorityLevel),
		ApplicationDeadline:     r.ApplicationDeadline,
		IsAcceptingApplications: r.IsAcceptingApplications,
	}
}

// ListTasks returns the public catalog: open tasks with pagination, optional
// title search and cause-focus filter.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	tasks, organizerNames, total, err := h.taskService.ListCatalog(services.ListCatalogInput{
		TitleQuery: c.Query("q"),
		CauseFocus: c.Query("cause_focus"),
		Page:       params.Page,
		PageSize:   params.Limit,
	})
	if err != nil {
		logServerError(c, "list tasks", err)
		apierrors.InternalError(c, "A server error occurred while fetching the task list.")
		return
	}

	cards := make([]dto.TaskCardDTO, len(tasks))
	for i, task := range tasks {
		cards[i] = dto.ToTaskCardDTO(task, organizerNames)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Successfully retrieved %d tasks.", len(cards)),
		"result": dto.TaskListResponse{
			Tasks:      cards,
			Page:       params.Page,
			PageSize:   params.Limit,
			TotalCount: total,
		},
	})
}

// GetTask returns a single task's full detail.
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid Task ID format.")
		return
	}

	task, organizerName, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task details retrieved.",
		"task":    dto.ToTaskDetailDTO(*task, organizerName),
	})
}

// CreateTask creates a task for the session user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	email, exists := middleware.GetUserEmail(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated.")
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body.")
		return
	}

	task, err := h.taskService.CreateTask(email, req.toInput())
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Task successfully submitted for review.",
		"task_id": strconv.FormatUint(task.ID, 10),
	})
}

// UpdateTask applies an organizer's edit to their own task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid Task ID format.")
		return
	}

	organizer, ok := h.sessionUser(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body.")
		return
	}

	task, err := h.taskService.UpdateTask(taskID, organizer.ID, req.toInput())
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Task %q updated successfully.", task.Title),
	})
}

// ListMyTasks returns the organizer dashboard: the session user's own tasks.
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	organizer, ok := h.sessionUser(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListByOrganizer(organizer.ID)
	if err != nil {
		logServerError(c, "list organizer tasks", err)
		apierrors.InternalError(c, "A server error occurred while fetching your tasks.")
		return
	}

	rows := make([]dto.OrganizerTaskDTO, len(tasks))
	for i, task := range tasks {
		rows[i] = dto.ToOrganizerTaskDTO(task)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Retrieved %d tasks.", len(rows)),
		"tasks":   rows,
	})
}

// sessionUser resolves the session principal to a full user row, answering
// the request itself on failure.
func (h *TaskHandler) sessionUser(c *gin.Context) (*models.User, bool) {
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

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, "Title is required.")
	case errors.Is(err, services.ErrTitleTooLong):
		apierrors.BadRequest(c, fmt.Sprintf("Title must be at most %d characters.", constants.MaxTitleLength))
	case errors.Is(err, services.ErrDeadlineAfterStart):
		apierrors.BadRequest(c, "Deadline must be before the Start Time.")
	case errors.Is(err, services.ErrStartTimeNotFuture):
		apierrors.BadRequest(c, "Task must be scheduled for a future date.")
	case errors.Is(err, services.ErrMaxVolunteersTooLow):
		apierrors.BadRequest(c, "Maximum volunteers must be at least 1.")
	case errors.Is(err, services.ErrInvalidPriorityLevel):
		apierrors.BadRequest(c, "Priority level must be normal, high, or critical.")
	case errors.Is(err, services.ErrOrganizerNotFound):
		apierrors.NotFound(c, "Organizer user not found.")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found.")
	case errors.Is(err, services.ErrNotTaskOrganizer):
		apierrors.Forbidden(c, "Only the task organizer can perform this action.")
	default:
		logServerError(c, "task", err)
		apierrors.InternalError(c, "")
	}
}
