package repository

import (
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email. Callers lowercase the email first.
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailOrDisplayName finds any user matching either value
func (r *GormUserRepository) FindByEmailOrDisplayName(email, displayName string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ? OR display_name = ?", email, displayName).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfileByEmail updates the editable profile fields by email match
func (r *GormUserRepository) UpdateProfileByEmail(email string, update ProfileUpdate) (int64, error) {
	result := r.db.Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"display_name": update.DisplayName,
			"location":     update.Location,
			"cause_focus":  update.CauseFocus,
			"skills":       update.Skills,
		})
	return result.RowsAffected, result.Error
}

// DisplayNamesByIDs resolves display names for a set of user IDs in one query
func (r *GormUserRepository) DisplayNamesByIDs(ids []uint64) (map[uint64]string, error) {
	names := make(map[uint64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID          uint64
		DisplayName string
	}
	if err := r.db.Model(&models.User{}).
		Select("id", "display_name").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		names[row.ID] = row.DisplayName
	}
	return names, nil
}
