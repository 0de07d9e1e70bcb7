package models

import (
	"time"

	"github.com/google/uuid"
)

// Auth providers for user accounts.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User is a crew-side login account. Google-provisioned accounts carry no
// password hash.
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string     `gorm:"type:text;not null;uniqueIndex"`
	Name          string     `gorm:"column:name;not null"`
	Username      string     `gorm:"column:username;not null;uniqueIndex"`
	Provider      string     `gorm:"column:provider;not null;default:local"`
	PasswordHash  *string    `gorm:"column:password_hash"`
	ProfilePic    *string    `gorm:"column:profile_pic"`
	ProfilePicID  *string    `gorm:"column:profile_pic_id"`
	DateOfBirth   *time.Time `gorm:"column:date_of_birth"`
	EmailVerified bool       `gorm:"column:email_verified;not null;default:false"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
