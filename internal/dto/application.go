package dto

import (
	"strconv"
	"time"

	"github.com/volunteerhub/volunteer-hub-api/internal/models"
)

// ApplicationDetailDTO is the full application view with resolved context.
type ApplicationDetailDTO struct {
	ID             string `json:"id"`
	TaskID         string `json:"task_id"`
	TaskTitle      string `json:"task_title"`
	OrganizerName  string `json:"organizer_name"`
	ApplicantName  string `json:"applicant_name"`
	ApplicantEmail string `json:"applicant_email"`

	MotivationStatement string `json:"motivation_statement"`
	RelevantExperience  string `json:"relevant_experience"`
	AvailabilityNote    string `json:"availability_note"`

	Status        string  `json:"status"`
	VerdictReason *string `json:"verdict_reason"`
	VerdictBy     *string `json:"verdict_by"`
	AppliedAt     string  `json:"applied_at"`
	ReviewedAt    *string `json:"reviewed_at"`
}

// ApplicationHistoryItemDTO is one row in a volunteer's history listing.
type ApplicationHistoryItemDTO struct {
	ID            string `json:"id"`
	TaskID        string `json:"task_id"`
	TaskTitle     string `json:"task_title"`
	OrganizerName string `json:"organizer_name"`
	Status        string `json:"status"`
	AppliedAt     string `json:"applied_at"`
	PriorityLevel string `json:"priority_level"`
}

// ReviewQueueItemDTO is one row in an organizer's review queue.
type ReviewQueueItemDTO struct {
	ID            string `json:"id"`
	TaskID        string `json:"task_id"`
	TaskTitle     string `json:"task_title"`
	ApplicantName string `json:"applicant_name"`
	Status        string `json:"status"`
	AppliedAt     string `json:"applied_at"`
}

// ToApplicationDetailDTO converts an Application with preloaded Task and
// Applicant, plus the resolved organizer name.
func ToApplicationDetailDTO(app models.Application, organizerName string) ApplicationDetailDTO {
	var verdictBy *string
	if app.VerdictBy != nil {
		formatted := strconv.FormatUint(*app.VerdictBy, 10)
		verdictBy = &formatted
	}

	var reviewedAt *string
	if app.ReviewedAt != nil {
		formatted := app.ReviewedAt.Format(time.RFC3339)
		reviewedAt = &formatted
	}

	return ApplicationDetailDTO{
		ID:             strconv.FormatUint(app.ID, 10),
		TaskID:         strconv.FormatUint(app.TaskID, 10),
		TaskTitle:      app.Task.Title,
		OrganizerName:  organizerName,
		ApplicantName:  app.Applicant.DisplayName,
		ApplicantEmail: app.Applicant.Email,

		MotivationStatement: app.MotivationStatement,
		RelevantExperience:  app.RelevantExperience,
		AvailabilityNote:    app.AvailabilityNote,

		Status:        string(app.Status),
		VerdictReason: app.VerdictReason,
		VerdictBy:     verdictBy,
		AppliedAt:     app.AppliedAt.Format(time.RFC3339),
		ReviewedAt:    reviewedAt,
	}
}

// ToApplicationHistoryItemDTO converts an Application with preloaded Task,
// resolving the organizer name from the batched lookup.
func ToApplicationHistoryItemDTO(app models.Application, organizerNames map[uint64]string) ApplicationHistoryItemDTO {
	return ApplicationHistoryItemDTO{
		ID:            strconv.FormatUint(app.ID, 10),
		TaskID:        strconv.FormatUint(app.TaskID, 10),
		TaskTitle:     app.Task.Title,
		OrganizerName: organizerNames[app.Task.OrganizerID],
		Status:        string(app.Status),
		AppliedAt:     app.AppliedAt.Format(time.RFC3339),
		PriorityLevel: string(app.Task.PriorityLevel),
	}
}

// ToReviewQueueItemDTO converts an Application with preloaded Task and
// Applicant to the organizer queue row.
func ToReviewQueueItemDTO(app models.Application) ReviewQueueItemDTO {
	return ReviewQueueItemDTO{
		ID:            strconv.FormatUint(app.ID, 10),
		TaskID:        strconv.FormatUint(app.TaskID, 10),
		TaskTitle:     app.Task.Title,
		ApplicantName: app.Applicant.DisplayName,
		Status:        string(app.Status),
		AppliedAt:     app.AppliedAt.Format(time.RFC3339),
	}
}
