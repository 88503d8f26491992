package models

import (
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "PENDING"
	ApplicationStatusApproved  ApplicationStatus = "APPROVED"
	ApplicationStatusRejected  ApplicationStatus = "REJECTED"
	ApplicationStatusWithdrawn ApplicationStatus = "WITHDRAWN"
)

type Application struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	TaskID      uint64 `gorm:"not null;uniqueIndex:idx_applications_task_applicant" json:"task_id"`
	ApplicantID uint64 `gorm:"not null;uniqueIndex:idx_applications_task_applicant" json:"applicant_id"`

	MotivationStatement string `gorm:"type:text;not null" json:"motivation_statement"`
	RelevantExperience  string `gorm:"type:text" json:"relevant_experience"`
	AvailabilityNote    string `gorm:"type:text" json:"availability_note"`

	Status ApplicationStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`

	VerdictReason *string    `gorm:"type:text" json:"verdict_reason"`
	VerdictBy     *uint64    `json:"verdict_by"`
	AppliedAt     time.Time  `gorm:"not null" json:"applied_at"`
	ReviewedAt    *time.Time `json:"reviewed_at"`

	// Relations
	Task      Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Applicant User `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
}
