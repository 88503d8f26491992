package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrOrganizerNotFound    = errors.New("organizer user not found")
	ErrNotTaskOrganizer     = errors.New("only the task organizer can perform this action")
	ErrTitleRequired        = errors.New("title is required")
	ErrTitleTooLong         = errors.New("title is too long")
	ErrDeadlineAfterStart   = errors.New("deadline must be before the start time")
	ErrStartTimeNotFuture   = errors.New("task must be scheduled for a future date")
	ErrMaxVolunteersTooLow  = errors.New("maximum volunteers must be at least 1")
	ErrInvalidPriorityLevel = errors.New("invalid priority level")
)

// TaskService handles the task catalog business logic.
type TaskService struct {
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	revalidator Revalidator
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, revalidator Revalidator) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		revalidator: revalidator,
	}
}

// TaskInput carries the organizer-editable task fields. RequiredSkills is a
// comma-separated string, split and trimmed before storage.
type TaskInput struct {
	Title                   string
	Description             string
	StartTime               time.Time
	EndTime                 *time.Time
	Location                string
	MaxVolunteers           int
	CauseFocus              string
	RequiredSkills          string
	PriorityLevel           models.PriorityLevel
	ApplicationDeadline     time.Time
	IsAcceptingApplications bool
}

// ListCatalogInput represents filters for the public task listing.
type ListCatalogInput struct {
	TitleQuery string
	CauseFocus string
	Page       int
	PageSize   int
}

func validateTaskInput(input TaskInput, now time.Time) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) > constants.MaxTitleLength {
		return ErrTitleTooLong
	}
	if !input.ApplicationDeadline.Before(input.StartTime) {
		return ErrDeadlineAfterStart
	}
	if !input.StartTime.After(now) {
		return ErrStartTimeNotFuture
	}
	if input.MaxVolunteers < 1 {
		return ErrMaxVolunteersTooLow
	}
	switch input.PriorityLevel {
	case models.PriorityNormal, models.PriorityHigh, models.PriorityCritical, "":
	default:
		return ErrInvalidPriorityLevel
	}
	return nil
}

func splitSkills(skills string) []string {
	parts := strings.Split(skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// CreateTask validates and stores a new task for the organizer identified by
// email. The initial lifecycle status follows the accepting-applications
// toggle: PENDING_REVIEW when accepting, DRAFT otherwise.
func (s *TaskService) CreateTask(organizerEmail string, input TaskInput) (*models.Task, error) {
	if err := validateTaskInput(input, time.Now()); err != nil {
		return nil, err
	}

	organizer, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(organizerEmail)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizerNotFound
		}
		return nil, fmt.Errorf("failed to find organizer: %w", err)
	}

	status := models.TaskStatusDraft
	if input.IsAcceptingApplications {
		status = models.TaskStatusPendingReview
	}

	priority := input.PriorityLevel
	if priority == "" {
		priority = models.PriorityNormal
	}

	task := &models.Task{
		Title:                   strings.TrimSpace(input.Title),
		Description:             input.Description,
		OrganizerID:             organizer.ID,
		StartTime:               input.StartTime,
		EndTime:                 input.EndTime,
		Location:                input.Location,
		ApplicationDeadline:     input.ApplicationDeadline,
		MaxVolunteers:           input.MaxVolunteers,
		CauseFocus:              input.CauseFocus,
		RequiredSkills:          splitSkills(input.RequiredSkills),
		PriorityLevel:           priority,
		Status:                  status,
		IsAcceptingApplications: input.IsAcceptingApplications,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.revalidate("/tasks")

	return task, nil
}

// UpdateTask validates and applies an organizer's edit to their own task.
func (s *TaskService) UpdateTask(taskID uint64, organizerID uint64, input TaskInput) (*models.Task, error) {
	if err := validateTaskInput(input, time.Now()); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.OrganizerID != organizerID {
		return nil, ErrNotTaskOrganizer
	}

	task.Title = strings.TrimSpace(input.Title)
	task.Description = input.Description
	task.StartTime = input.StartTime
	task.EndTime = input.EndTime
	task.Location = input.Location
	task.ApplicationDeadline = input.ApplicationDeadline
	task.MaxVolunteers = input.MaxVolunteers
	task.CauseFocus = input.CauseFocus
	task.RequiredSkills = splitSkills(input.RequiredSkills)
	if input.PriorityLevel != "" {
		task.PriorityLevel = input.PriorityLevel
	}
	task.IsAcceptingApplications = input.IsAcceptingApplications

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.revalidate("/tasks")

	return task, nil
}

// ListCatalog returns the public task listing together with a batched
// organizer-name lookup keyed by the page's distinct organizer IDs.
func (s *TaskService) ListCatalog(input ListCatalogInput) ([]models.Task, map[uint64]string, int64, error) {
	tasks, total, err := s.taskRepo.ListCatalog(repository.CatalogFilter{
		TitleQuery: input.TitleQuery,
		CauseFocus: input.CauseFocus,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	names, err := s.organizerNames(tasks)
	if err != nil {
		return nil, nil, 0, err
	}

	return tasks, names, total, nil
}

// GetTask returns a single task with its roster and the organizer's name.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, string, error) {
	task, err := s.taskRepo.FindByID(taskID, "Volunteers", "Organizer")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTaskNotFound
		}
		return nil, "", fmt.Errorf("failed to find task: %w", err)
	}

	return task, task.Organizer.DisplayName, nil
}

// ListByOrganizer returns the organizer's own tasks with roster and
// application counts preloaded.
func (s *TaskService) ListByOrganizer(organizerID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOrganizer(organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) organizerNames(tasks []models.Task) (map[uint64]string, error) {
	seen := make(map[uint64]struct{}, len(tasks))
	ids := make([]uint64, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.OrganizerID]; !ok {
			seen[t.OrganizerID] = struct{}{}
			ids = append(ids, t.OrganizerID)
		}
	}

	names, err := s.userRepo.DisplayNamesByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve organizer names: %w", err)
	}
	return names, nil
}

func (s *TaskService) revalidate(paths ...string) {
	if s.revalidator != nil {
		s.revalidator.Revalidate(paths...)
	}
}
