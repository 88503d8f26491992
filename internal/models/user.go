package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName  string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"display_name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Location     string    `gorm:"type:varchar(255)" json:"location"`
	CauseFocus   string    `gorm:"type:varchar(100);not null" json:"cause_focus"`
	Skills       string    `gorm:"type:text" json:"skills"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	OrganizedTasks []Task          `gorm:"foreignKey:OrganizerID" json:"-"`
	Applications   []Application   `gorm:"foreignKey:ApplicantID" json:"-"`
	Commitments    []TaskVolunteer `gorm:"foreignKey:UserID" json:"-"`
}
