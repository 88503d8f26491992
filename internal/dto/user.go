package dto

import (
	"strconv"

	"github.com/volunteerhub/volunteer-hub-api/internal/models"
)

// UserDTO represents a user's public profile in API responses. The password
// hash never crosses this boundary.
type UserDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Location    string `json:"location"`
	CauseFocus  string `json:"cause_focus"`
	Skills      string `json:"skills"`
}

// SessionPrincipalDTO is the minimal identity carried by a session.
type SessionPrincipalDTO struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          strconv.FormatUint(user.ID, 10),
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Location:    user.Location,
		CauseFocus:  user.CauseFocus,
		Skills:      user.Skills,
	}
}
