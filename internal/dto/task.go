package dto

import (
	"strconv"
	"time"

	"github.com/volunteerhub/volunteer-hub-api/internal/models"
)

// TaskCardDTO is the minimal listing shape for the public catalog. Dates are
// ISO-8601 strings and slots_remaining is recomputed at read time.
type TaskCardDTO struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Organizer           string `json:"organizer"`
	Location            string `json:"location"`
	ApplicationDeadline string `json:"application_deadline"`
	PriorityLevel       string `json:"priority_level"`
	CauseFocus          string `json:"cause_focus"`
	Slots               int    `json:"slots"`
	SlotsRemaining      int    `json:"slots_remaining"`
}

// TaskDetailDTO is the full task shape for the detail page.
type TaskDetailDTO struct {
	ID                      string   `json:"id"`
	Title                   string   `json:"title"`
	Description             string   `json:"description"`
	Organizer               string   `json:"organizer"`
	Location                string   `json:"location"`
	StartTime               string   `json:"start_time"`
	EndTime                 *string  `json:"end_time"`
	ApplicationDeadline     string   `json:"application_deadline"`
	MaxVolunteers           int      `json:"max_volunteers"`
	SlotsRemaining          int      `json:"slots_remaining"`
	CauseFocus              string   `json:"cause_focus"`
	RequiredSkills          []string `json:"required_skills"`
	PriorityLevel           string   `json:"priority_level"`
	Status                  string   `json:"status"`
	IsAcceptingApplications bool     `json:"is_accepting_applications"`
	Volunteers              []string `json:"volunteers"`
	CreatedAt               string   `json:"created_at"`
	UpdatedAt               string   `json:"updated_at"`
}

// OrganizerTaskDTO is a task row on the organizer's own dashboard.
type OrganizerTaskDTO struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Status           string `json:"status"`
	StartTime        string `json:"start_time"`
	MaxVolunteers    int    `json:"max_volunteers"`
	SlotsRemaining   int    `json:"slots_remaining"`
	ApplicationCount int    `json:"application_count"`
	PriorityLevel    string `json:"priority_level"`
}

// TaskListResponse is the paginated catalog response.
type TaskListResponse struct {
	Tasks      []TaskCardDTO `json:"tasks"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalCount int64         `json:"total_count"`
}

// ToTaskCardDTO converts a Task to its catalog card, resolving the organizer
// name from the batched lookup.
func ToTaskCardDTO(task models.Task, organizerNames map[uint64]string) TaskCardDTO {
	return TaskCardDTO{
		ID:                  strconv.FormatUint(task.ID, 10),
		Title:               task.Title,
		Organizer:           organizerNames[task.OrganizerID],
		Location:            task.Location,
		ApplicationDeadline: task.ApplicationDeadline.Format(time.RFC3339),
		PriorityLevel:       string(task.PriorityLevel),
		CauseFocus:          task.CauseFocus,
		Slots:               task.MaxVolunteers,
		SlotsRemaining:      task.SlotsRemaining(),
	}
}

// ToTaskDetailDTO converts a Task with preloaded roster to its detail shape.
func ToTaskDetailDTO(task models.Task, organizerName string) TaskDetailDTO {
	volunteers := make([]string, len(task.Volunteers))
	for i, v := range task.Volunteers {
		volunteers[i] = strconv.FormatUint(v.UserID, 10)
	}

	var endTime *string
	if task.EndTime != nil {
		formatted := task.EndTime.Format(time.RFC3339)
		endTime = &formatted
	}

	skills := task.RequiredSkills
	if skills == nil {
		skills = []string{}
	}

	return TaskDetailDTO{
		ID:                      strconv.FormatUint(task.ID, 10),
		Title:                   task.Title,
		Description:             task.Description,
		Organizer:               organizerName,
		Location:                task.Location,
		StartTime:               task.StartTime.Format(time.RFC3339),
		EndTime:                 endTime,
		ApplicationDeadline:     task.ApplicationDeadline.Format(time.RFC3339),
		MaxVolunteers:           task.MaxVolunteers,
		SlotsRemaining:          task.SlotsRemaining(),
		CauseFocus:              task.CauseFocus,
		RequiredSkills:          skills,
		PriorityLevel:           string(task.PriorityLevel),
		Status:                  string(task.Status),
		IsAcceptingApplications: task.IsAcceptingApplications,
		Volunteers:              volunteers,
		CreatedAt:               task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               task.UpdatedAt.Format(time.RFC3339),
	}
}

// ToOrganizerTaskDTO converts a Task with preloaded roster and applications
// to the organizer dashboard row.
func ToOrganizerTaskDTO(task models.Task) OrganizerTaskDTO {
	return OrganizerTaskDTO{
		ID:               strconv.FormatUint(task.ID, 10),
		Title:            task.Title,
		Status:           string(task.Status),
		StartTime:        task.StartTime.Format(time.RFC3339),
		MaxVolunteers:    task.MaxVolunteers,
		SlotsRemaining:   task.SlotsRemaining(),
		ApplicationCount: len(task.Applications),
		PriorityLevel:    string(task.PriorityLevel),
	}
}
