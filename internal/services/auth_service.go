package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/volunteerhub/volunteer-hub-api/internal/constants"
	"github.com/volunteerhub/volunteer-hub-api/internal/models"
	"github.com/volunteerhub/volunteer-hub-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("a user with this email address already exists")
	ErrDisplayNameTaken     = errors.New("this display name is already taken")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrMissingSignupFields  = errors.New("missing required authentication and community fields")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles signup, login, and profile management.
type AuthService struct {
	userRepo    repository.UserRepository
	revalidator Revalidator
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, revalidator Revalidator) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		revalidator: revalidator,
	}
}

// SignupInput represents the required information to create a new account.
type SignupInput struct {
	DisplayName string
	Email       string
	Password    string
	Location    string
	CauseFocus  string
	Skills      string
}

// Signup checks uniqueness, hashes the password, and stores the user.
// Emails are normalized to lowercase before the uniqueness check so an
// address differing only in case is still a duplicate.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	displayName := strings.TrimSpace(input.DisplayName)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if email == "" || input.Password == "" || displayName == "" || input.CauseFocus == "" {
		return nil, ErrMissingSignupFields
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	// One combined existence query covers both unique fields
	existing, err := s.userRepo.FindByEmailOrDisplayName(email, displayName)
	if err == nil {
		if existing.Email == email {
			return nil, ErrEmailTaken
		}
		return nil, ErrDisplayNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Location:     input.Location,
		CauseFocus:   input.CauseFocus,
		Skills:       input.Skills,
	}

	if err := s.userRepo.Create(user); err != nil {
		// A concurrent signup can still lose the race on the unique indexes
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.revalidate("/")

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. The session
// principal issued from it carries only email and display name.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByEmail retrieves a user's profile by their email.
func (s *AuthService) GetUserByEmail(email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateProfileInput holds the editable profile fields.
type UpdateProfileInput struct {
	DisplayName string
	Location    string
	CauseFocus  string
	Skills      string
}

// UpdateProfile updates display name, location, cause focus, and skills for
// the user matched by email.
func (s *AuthService) UpdateProfile(email string, input UpdateProfileInput) error {
	matched, err := s.userRepo.UpdateProfileByEmail(
		strings.ToLower(strings.TrimSpace(email)),
		repository.ProfileUpdate{
			DisplayName: strings.TrimSpace(input.DisplayName),
			Location:    input.Location,
			CauseFocus:  input.CauseFocus,
			Skills:      input.Skills,
		},
	)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDisplayNameTaken
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if matched == 0 {
		return ErrUserNotFound
	}

	s.revalidate("/profile")

	return nil
}

func (s *AuthService) revalidate(paths ...string) {
	if s.revalidator != nil {
		s.revalidator.Revalidate(paths...)
	}
}
