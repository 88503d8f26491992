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
	ErrApplicationNotFound  = errors.New("application record not found")
	ErrApplicantNotFound    = errors.New("applicant profile not found")
	ErrApplicationsClosed   = errors.New("applications are closed for this task")
	ErrDuplicateApplication = errors.New("you have already applied for this task")
	ErrMotivationTooShort   = errors.New("motivation statement too short")
	ErrInvalidVerdict       = errors.New("verdict must be APPROVED or REJECTED")
	ErrNotApplicationOwner  = errors.New("only the applicant can withdraw this application")
)

// withdrawalReason is the system-authored verdict reason set on withdrawal.
const withdrawalReason = "Volunteer withdrawal"

// StatusConflictError reports a transition refused because the application is
// already in a terminal state. The conflicting state is named in the message.
type StatusConflictError struct {
	Status models.ApplicationStatus
}

func (e *StatusConflictError) Error() string {
	return fmt.Sprintf("application status is already %s", e.Status)
}

// ApplicationService drives the application state machine:
// PENDING -> APPROVED | REJECTED | WITHDRAWN.
type ApplicationService struct {
	appRepo     repository.ApplicationRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	revalidator Revalidator
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(
	appRepo repository.ApplicationRepository,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	revalidator Revalidator,
) *ApplicationService {
	return &ApplicationService{
		appRepo:     appRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		revalidator: revalidator,
	}
}

// SubmitInput carries a volunteer's bid for a task.
type SubmitInput struct {
	TaskID              uint64
	ApplicantEmail      string
	MotivationStatement string
	RelevantExperience  string
	AvailabilityNote    string
}

// Submit creates a PENDING application after checking the task is open and no
// prior application exists for the pair. The duplicate pre-check is backed by
// the compound unique index, so a concurrent duplicate still fails cleanly.
func (s *ApplicationService) Submit(input SubmitInput) (*models.Application, error) {
	if len(input.MotivationStatement) < constants.MinMotivationLength {
		return nil, ErrMotivationTooShort
	}

	applicant, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(input.ApplicantEmail)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicantNotFound
		}
		return nil, fmt.Errorf("failed to find applicant: %w", err)
	}

	task, err := s.taskRepo.FindByID(input.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.Status != models.TaskStatusActiveOpen {
		return nil, ErrApplicationsClosed
	}

	if _, err := s.appRepo.FindByTaskAndApplicant(task.ID, applicant.ID); err == nil {
		return nil, ErrDuplicateApplication
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}

	app := &models.Application{
		TaskID:              task.ID,
		ApplicantID:         applicant.ID,
		MotivationStatement: input.MotivationStatement,
		RelevantExperience:  input.RelevantExperience,
		AvailabilityNote:    input.AvailabilityNote,
		Status:              models.ApplicationStatusPending,
		AppliedAt:           time.Now(),
	}

	if err := s.appRepo.Create(app); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateApplication
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.revalidate("/tasks", "/applications")

	return app, nil
}

// VerdictInput carries an organizer's decision on a pending application.
type VerdictInput struct {
	ApplicationID uint64
	OrganizerID   uint64
	Verdict       models.ApplicationStatus
	Reason        string
}

// Verdict applies APPROVED or REJECTED. An application already APPROVED or
// WITHDRAWN is refused; a REJECTED one may be re-judged. Approval adds the
// applicant to the task roster exactly once, even if the call is retried.
func (s *ApplicationService) Verdict(input VerdictInput) error {
	if input.Verdict != models.ApplicationStatusApproved && input.Verdict != models.ApplicationStatusRejected {
		return ErrInvalidVerdict
	}

	app, err := s.appRepo.FindByID(input.ApplicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to find application: %w", err)
	}

	task, err := s.taskRepo.FindByID(app.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}
	if task.OrganizerID != input.OrganizerID {
		return ErrNotTaskOrganizer
	}

	applied, err := s.appRepo.ApplyVerdict(app.ID, input.Verdict, input.Reason, input.OrganizerID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to apply verdict: %w", err)
	}
	if !applied {
		// The conditional update lost to a concurrent transition or the
		// application was terminal all along; report the current state.
		return s.statusConflict(app.ID)
	}

	s.revalidate("/applications", "/organizer/applicants")

	return nil
}

// Withdraw moves the applicant's own PENDING application to WITHDRAWN with a
// system-authored verdict reason. Decided applications cannot be withdrawn.
func (s *ApplicationService) Withdraw(applicationID, applicantID uint64) error {
	app, err := s.appRepo.FindByID(applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to find application: %w", err)
	}

	if app.ApplicantID != applicantID {
		return ErrNotApplicationOwner
	}

	withdrawn, err := s.appRepo.Withdraw(app.ID, withdrawalReason, time.Now())
	if err != nil {
		return fmt.Errorf("failed to withdraw application: %w", err)
	}
	if !withdrawn {
		return s.statusConflict(app.ID)
	}

	s.revalidate("/applications", "/organizer/applicants")

	return nil
}

// GetApplication returns a single application with its task, applicant, and
// the resolved organizer name.
func (s *ApplicationService) GetApplication(applicationID uint64) (*models.Application, string, error) {
	app, err := s.appRepo.FindByID(applicationID, "Task", "Applicant")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrApplicationNotFound
		}
		return nil, "", fmt.Errorf("failed to find application: %w", err)
	}

	names, err := s.userRepo.DisplayNamesByIDs([]uint64{app.Task.OrganizerID})
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve organizer name: %w", err)
	}

	return app, names[app.Task.OrganizerID], nil
}

// ListByApplicant returns a volunteer's application history, newest first,
// with organizer names resolved in one batched lookup.
func (s *ApplicationService) ListByApplicant(applicantEmail string) ([]models.Application, map[uint64]string, error) {
	applicant, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(applicantEmail)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrApplicantNotFound
		}
		return nil, nil, fmt.Errorf("failed to find applicant: %w", err)
	}

	apps, err := s.appRepo.ListByApplicant(applicant.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list applications: %w", err)
	}

	names, err := s.organizerNamesForApps(apps)
	if err != nil {
		return nil, nil, err
	}

	return apps, names, nil
}

// ListForOrganizer returns the review queue across the organizer's tasks,
// pending applications first.
func (s *ApplicationService) ListForOrganizer(organizerID uint64) ([]models.Application, error) {
	apps, err := s.appRepo.ListByOrganizer(organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer applications: %w", err)
	}
	return apps, nil
}

func (s *ApplicationService) statusConflict(appID uint64) error {
	current, err := s.appRepo.FindByID(appID)
	if err != nil {
		return fmt.Errorf("failed to re-read application: %w", err)
	}
	return &StatusConflictError{Status: current.Status}
}

func (s *ApplicationService) organizerNamesForApps(apps []models.Application) (map[uint64]string, error) {
	seen := make(map[uint64]struct{}, len(apps))
	ids := make([]uint64, 0, len(apps))
	for _, app := range apps {
		if _, ok := seen[app.Task.OrganizerID]; !ok {
			seen[app.Task.OrganizerID] = struct{}{}
			ids = append(ids, app.Task.OrganizerID)
		}
	}

	names, err := s.userRepo.DisplayNamesByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve organizer names: %w", err)
	}
	return names, nil
}

func (s *ApplicationService) revalidate(paths ...string) {
	if s.revalidator != nil {
		s.revalidator.Revalidate(paths...)
	}
}
