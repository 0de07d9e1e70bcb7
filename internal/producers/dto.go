package producers

import (
	"time"

	"github.com/google/uuid"

	"github.com/mofihq/mofi-backend/pkg/db/models"
)

// ProducerDTO is the transport shape that omits sensitive credentials.
type ProducerDTO struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	ProfessionalName string     `json:"professional_name"`
	Contact          string     `json:"contact,omitempty"`
	Street           string     `json:"street,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	PostalCode       string     `json:"postal_code,omitempty"`
	Country          string     `json:"country,omitempty"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	ProfilePicURL    *string    `json:"profile_pic_url,omitempty"`
	EmailVerified    bool       `json:"email_verified"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateProducerDTO holds the data required by the repo to persist a new producer.
type CreateProducerDTO struct {
	Email            string
	PasswordHash     string
	FirstName        string
	LastName         string
	ProfessionalName string
	Contact          string
	NICNumber        string
	Street           string
	City             string
	State            string
	PostalCode       string
	Country          string
	DateOfBirth      *time.Time
	ProfilePicURL    *string
	ProfilePicID     *string
}

func FromModel(p *models.Producer) *ProducerDTO {
	if p == nil {
		return nil
	}

	return &ProducerDTO{
		ID:               p.ID,
		Email:            p.Email,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		ProfessionalName: p.ProfessionalName,
		Contact:          p.Contact,
		Street:           p.Street,
		City:             p.City,
		State:            p.State,
		PostalCode:       p.PostalCode,
		Country:          p.Country,
		DateOfBirth:      p.DateOfBirth,
		ProfilePicURL:    p.ProfilePicURL,
		EmailVerified:    p.EmailVerified,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (c CreateProducerDTO) ToModel() *models.Producer {
	return &models.Producer{
		Email:            c.Email,
		PasswordHash:     c.PasswordHash,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		ProfessionalName: c.ProfessionalName,
		Contact:          c.Contact,
		NICNumber:        c.NICNumber,
		Street:           c.Street,
		City:             c.City,
		State:            c.State,
		PostalCode:       c.PostalCode,
		Country:          c.Country,
		DateOfBirth:      c.DateOfBirth,
		ProfilePicURL:    c.ProfilePicURL,
		ProfilePicID:     c.ProfilePicID,
	}
}
