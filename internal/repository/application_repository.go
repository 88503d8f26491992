package repository

import (
	"time"

	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormApplicationRepository is a GORM implementation of ApplicationRepository
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// Create inserts a new application. A concurrent duplicate submit loses the
// race on the compound unique index and surfaces gorm.ErrDuplicatedKey.
func (r *GormApplicationRepository) Create(app *models.Application) error {
	return r.db.Create(app).Error
}

// FindByID finds an application by ID with optional preloading
func (r *GormApplicationRepository) FindByID(id uint64, preload ...string) (*models.Application, error) {
	var app models.Application
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&app, id).Error; err != nil {
		return nil, err
	}

	return &app, nil
}

// FindByTaskAndApplicant finds an application for the pair
func (r *GormApplicationRepository) FindByTaskAndApplicant(taskID, applicantID uint64) (*models.Application, error) {
	var app models.Application
	if err := r.db.Where("task_id = ? AND applicant_id = ?", taskID, applicantID).
		First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByApplicant lists a volunteer's applications, newest first
func (r *GormApplicationRepository) ListByApplicant(applicantID uint64) ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.
		Where("applicant_id = ?", applicantID).
		Order("applied_at DESC").
		Preload("Task").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// ListByOrganizer lists applications across an organizer's tasks, pending first
func (r *GormApplicationRepository) ListByOrganizer(organizerID uint64) ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.
		Joins("JOIN tasks ON tasks.id = applications.task_id").
		Where("tasks.organizer_id = ?", organizerID).
		Order("CASE WHEN applications.status = 'PENDING' THEN 0 ELSE 1 END, applications.applied_at DESC").
		Preload("Task").
		Preload("Applicant").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// ApplyVerdict moves an application to its verdict state with a conditional
// update, so two concurrent verdicts cannot both win. Approval adds the
// roster row in the same transaction; the ON CONFLICT guard makes a retried
// approval a no-op rather than a duplicate roster entry.
func (r *GormApplicationRepository) ApplyVerdict(appID uint64, verdict models.ApplicationStatus, reason string, verdictBy uint64, reviewedAt time.Time) (bool, error) {
	applied := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var app models.Application
		if err := tx.First(&app, appID).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Application{}).
			Where("id = ? AND status NOT IN ?", appID, []models.ApplicationStatus{
				models.ApplicationStatusApproved,
				models.ApplicationStatusWithdrawn,
			}).
			Updates(map[string]interface{}{
				"status":         verdict,
				"verdict_reason": reason,
				"verdict_by":     verdictBy,
				"reviewed_at":    reviewedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		applied = true

		if verdict == models.ApplicationStatusApproved {
			volunteer := models.TaskVolunteer{
				TaskID: app.TaskID,
				UserID: app.ApplicantID,
			}
			return tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&volunteer).Error
		}

		return nil
	})

	return applied, err
}

// Withdraw moves a PENDING application to WITHDRAWN with a conditional update
func (r *GormApplicationRepository) Withdraw(appID uint64, reason string, reviewedAt time.Time) (bool, error) {
	result := r.db.Model(&models.Application{}).
		Where("id = ? AND status = ?", appID, models.ApplicationStatusPending).
		Updates(map[string]interface{}{
			"status":         models.ApplicationStatusWithdrawn,
			"verdict_reason": reason,
			"reviewed_at":    reviewedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
