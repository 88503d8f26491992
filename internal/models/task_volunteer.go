package models

import (
	"time"
)

// TaskVolunteer is a committed roster entry: the applicant was approved for
// the task. Rows are only ever created by the approval path.
type TaskVolunteer struct {
	TaskID    uint64    `gorm:"primarykey" json:"task_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
