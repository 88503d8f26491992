package repository

import (
	"time"

	"github.com/volunteerhub/volunteer-hub-api/internal/models"
)

// CatalogFilter holds filtering options for the public task catalog
type CatalogFilter struct {
	// TitleQuery is a case-insensitive substring match on the title
	TitleQuery string
	// CauseFocus is an exact category match
	CauseFocus string
	Page       int
	PageSize   int
}

// ProfileUpdate holds the editable profile fields
type ProfileUpdate struct {
	DisplayName string
	Location    string
	CauseFocus  string
	Skills      string
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by their (lowercased) email
	FindByEmail(email string) (*models.User, error)

	// FindByEmailOrDisplayName finds any user matching either value.
	// Used for the combined signup uniqueness check.
	FindByEmailOrDisplayName(email, displayName string) (*models.User, error)

	// UpdateProfileByEmail updates the editable profile fields, returning
	// the number of matched rows
	UpdateProfileByEmail(email string, update ProfileUpdate) (int64, error)

	// DisplayNamesByIDs resolves display names for a set of user IDs in one query
	DisplayNamesByIDs(ids []uint64) (map[uint64]string, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListCatalog retrieves publicly listed tasks with filtering and pagination
	ListCatalog(filter CatalogFilter) ([]models.Task, int64, error)

	// ListByOrganizer retrieves all tasks owned by an organizer
	ListByOrganizer(organizerID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error
}

// ApplicationRepository defines the interface for application data access
type ApplicationRepository interface {
	// Create inserts a new application; the compound unique index on
	// (task_id, applicant_id) rejects duplicates
	Create(app *models.Application) error

	// FindByID finds an application by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Application, error)

	// FindByTaskAndApplicant finds an application for the pair
	FindByTaskAndApplicant(taskID, applicantID uint64) (*models.Application, error)

	// ListByApplicant lists a volunteer's applications, newest first
	ListByApplicant(applicantID uint64) ([]models.Application, error)

	// ListByOrganizer lists applications across an organizer's tasks,
	// pending first
	ListByOrganizer(organizerID uint64) ([]models.Application, error)

	// ApplyVerdict conditionally moves an application to APPROVED or
	// REJECTED unless it is already APPROVED or WITHDRAWN, and on approval
	// adds the applicant to the task roster in the same transaction.
	// Returns false when the condition did not match.
	ApplyVerdict(appID uint64, verdict models.ApplicationStatus, reason string, verdictBy uint64, reviewedAt time.Time) (bool, error)

	// Withdraw conditionally moves a PENDING application to WITHDRAWN.
	// Returns false when the application was no longer pending.
	Withdraw(appID uint64, reason string, reviewedAt time.Time) (bool, error)
}
