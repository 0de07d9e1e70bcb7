package auth

import (
	"time"

	"github.com/mofihq/mofi-backend/internal/producers"
	"github.com/mofihq/mofi-backend/internal/users"
)

// RegisterRequest carries the multipart form fields for producer onboarding.
// The profile picture travels separately as an upload.File.
type RegisterRequest struct {
	FirstName        string     `json:"first_name" validate:"required"`
	LastName         string     `json:"last_name" validate:"required"`
	Email            string     `json:"email" validate:"required,email"`
	Password         string     `json:"password" validate:"required"`
	ConfirmPassword  string     `json:"confirm_password" validate:"required"`
	Contact          string     `json:"contact" validate:"required"`
	NICNumber        string     `json:"nic_number" validate:"required"`
	Street           string     `json:"street_address" validate:"required"`
	City             string     `json:"city" validate:"required"`
	State            string     `json:"state" validate:"required"`
	PostalCode       string     `json:"postal" validate:"required"`
	Country          string     `json:"country" validate:"required"`
	ProfessionalName string     `json:"professional_name"`
	DateOfBirth      *time.Time `json:"dob,omitempty"`
}

// UserRegisterRequest carries the multipart form fields for crew onboarding.
// The profile picture travels separately as an upload.File.
type UserRegisterRequest struct {
	Name            string     `json:"name" validate:"required"`
	Username        string     `json:"username" validate:"required"`
	Email           string     `json:"email" validate:"required,email"`
	Password        string     `json:"password" validate:"required"`
	ConfirmPassword string     `json:"confirm_password" validate:"required"`
	DateOfBirth     *time.Time `json:"dob,omitempty"`
}

// PasswordResetRequest asks for a reset link to be mailed.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest redeems a reset token for a new credential.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// UpdateProfileRequest patches producer profile fields. Nil pointers mean
// "leave unchanged"; the optional replacement picture travels separately.
type UpdateProfileRequest struct {
	FirstName        *string
	LastName         *string
	ProfessionalName *string
	Contact          *string
	Street           *string
	City             *string
	State            *string
	PostalCode       *string
	Country          *string
}

// LoginRequest is the credential payload shared by both account kinds.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the access token in the body. The refresh token is
// excluded from serialization; it travels only in the HttpOnly cookie the
// controller sets.
type LoginResponse struct {
	Access       string                 `json:"access"`
	User         *producers.ProducerDTO `json:"user"`
	RefreshToken string                 `json:"-"`
}

// UserLoginResponse is the crew-account flavor of LoginResponse.
type UserLoginResponse struct {
	Access       string         `json:"access"`
	User         *users.UserDTO `json:"user"`
	RefreshToken string         `json:"-"`
}

// ResendVerificationRequest asks for a fresh verification email.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest rotates a producer's credential.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// DeleteAccountRequest confirms account deletion by professional name.
type DeleteAccountRequest struct {
	ProfessionalName string `json:"professional_name" validate:"required"`
}

// GoogleCallbackResult carries everything the controller needs to finish
// the OAuth redirect.
type GoogleCallbackResult struct {
	Access       string
	RefreshToken string
	RedirectURL  string
}
