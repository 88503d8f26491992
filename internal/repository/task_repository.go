package repository

import (
	"strings"

	"github.com/volunteerhub/volunteer-hub-api/internal/database"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// listedStatuses are the lifecycle states shown in the public catalog
var listedStatuses = []models.TaskStatus{
	models.TaskStatusActiveOpen,
	models.TaskStatusActiveFull,
	models.TaskStatusPendingReview,
}

// ListCatalog retrieves publicly listed tasks with filtering and pagination
func (r *GormTaskRepository) ListCatalog(filter CatalogFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).
		Where("status IN ?", listedStatuses).
		Where("is_accepting_applications = ?", true)

	if filter.TitleQuery != "" {
		pattern := "%" + strings.ToLower(filter.TitleQuery) + "%"
		query = query.Where("LOWER(title) LIKE ?", pattern)
	}
	if filter.CauseFocus != "" {
		query = query.Where("cause_focus = ?", filter.CauseFocus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order(
		"CASE priority_level WHEN 'critical' THEN 0 WHEN 'high' THEN 1 ELSE 2 END, start_time ASC",
	)

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Volunteers").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListByOrganizer retrieves all tasks owned by an organizer, newest first
func (r *GormTaskRepository) ListByOrganizer(organizerID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Preload("Volunteers").
		Preload("Applications").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}
