package models

import (
	"time"

	"github.com/google/uuid"
)

// Producer is a production-house account that registers with full
// professional details and owns movies through the crew ledger.
type Producer struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email            string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash     string     `gorm:"column:password_hash;not null"`
	FirstName        string     `gorm:"column:first_name;not null"`
	LastName         string     `gorm:"column:last_name;not null"`
	ProfessionalName string     `gorm:"column:professional_name;not null"`
	Contact          string     `gorm:"column:contact"`
	NICNumber        string     `gorm:"column:nic_number"`
	Street           string     `gorm:"column:street"`
	City             string     `gorm:"column:city"`
	State            string     `gorm:"column:state"`
	PostalCode       string     `gorm:"column:postal_code"`
	Country          string     `gorm:"column:country"`
	DateOfBirth      *time.Time `gorm:"column:date_of_birth"`
	ProfilePicURL    *string    `gorm:"column:profile_pic_url"`
	ProfilePicID     *string    `gorm:"column:profile_pic_id"`
	EmailVerified    bool       `gorm:"column:email_verified;not null;default:false"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
