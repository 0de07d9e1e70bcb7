package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/mofihq/mofi-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Username      string     `json:"username"`
	Provider      string     `json:"provider"`
	ProfilePic    *string    `json:"profile_pic,omitempty"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email         string
	Name          string
	Username      string
	Provider      string
	PasswordHash  *string
	ProfilePic    *string
	ProfilePicID  *string
	DateOfBirth   *time.Time
	EmailVerified bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Username:      u.Username,
		Provider:      u.Provider,
		ProfilePic:    u.ProfilePic,
		DateOfBirth:   u.DateOfBirth,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	provider := c.Provider
	if provider == "" {
		provider = models.ProviderLocal
	}

	return &models.User{
		Email:         c.Email,
		Name:          c.Name,
		Username:      c.Username,
		Provider:      provider,
		PasswordHash:  c.PasswordHash,
		ProfilePic:    c.ProfilePic,
		ProfilePicID:  c.ProfilePicID,
		DateOfBirth:   c.DateOfBirth,
		EmailVerified: c.EmailVerified,
	}
}
