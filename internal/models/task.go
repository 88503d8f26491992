package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusDraft         TaskStatus = "DRAFT"
	TaskStatusPendingReview TaskStatus = "PENDING_REVIEW"
	TaskStatusActiveOpen    TaskStatus = "ACTIVE_OPEN"
	TaskStatusActiveFull    TaskStatus = "ACTIVE_FULL"
	TaskStatusInProgress    TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted     TaskStatus = "COMPLETED"
	TaskStatusTerminated    TaskStatus = "TERMINATED"
	TaskStatusFailed        TaskStatus = "FAILED"
)

type PriorityLevel string

const (
	PriorityNormal   PriorityLevel = "normal"
	PriorityHigh     PriorityLevel = "high"
	PriorityCritical PriorityLevel = "critical"
)

type Task struct {
	ID                      uint64        `gorm:"primarykey" json:"id"`
	Title                   string        `gorm:"type:varchar(60);not null" json:"title"`
	Description             string        `gorm:"type:text;not null" json:"description"`
	OrganizerID             uint64        `gorm:"not null" json:"organizer_id"`
	StartTime               time.Time     `gorm:"not null" json:"start_time"`
	EndTime                 *time.Time    `json:"end_time"`
	Location                string        `gorm:"type:varchar(255);not null" json:"location"`
	ApplicationDeadline     time.Time     `gorm:"not null" json:"application_deadline"`
	MaxVolunteers           int           `gorm:"not null" json:"max_volunteers"`
	CauseFocus              string        `gorm:"type:varchar(100);not null" json:"cause_focus"`
	RequiredSkills          []string      `gorm:"serializer:json" json:"required_skills"`
	PriorityLevel           PriorityLevel `gorm:"type:varchar(20);not null;default:'normal'" json:"priority_level"`
	Status                  TaskStatus    `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`
	IsAcceptingApplications bool          `gorm:"not null;default:true" json:"is_accepting_applications"`
	TerminationReason       *string       `gorm:"type:text" json:"termination_reason,omitempty"`
	CreatedAt               time.Time     `json:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at"`

	// Relations
	Organizer    User            `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	Volunteers   []TaskVolunteer `gorm:"foreignKey:TaskID" json:"volunteers,omitempty"`
	Applications []Application   `gorm:"foreignKey:TaskID" json:"applications,omitempty"`
}

// SlotsRemaining is derived at read time and never stored. It can go negative
// only if over-commitment bypassed the roster path.
func (t *Task) SlotsRemaining() int {
	return t.MaxVolunteers - len(t.Volunteers)
}
