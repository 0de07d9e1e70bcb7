package producers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/pkg/db/models"
)

// Repository exposes producer-account persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a producers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new producer and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateProducerDTO) (*models.Producer, error) {
	producer := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(producer).Error; err != nil {
		return nil, err
	}
	return producer, nil
}

// FindByEmail retrieves the producer matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Producer, error) {
	var producer models.Producer
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&producer).Error; err != nil {
		return nil, err
	}
	return &producer, nil
}

// FindByID loads a producer by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Producer, error) {
	var producer models.Producer
	if err := r.db.WithContext(ctx).First(&producer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &producer, nil
}

// MarkEmailVerified flips the verification flag for the given email.
func (r *Repository) MarkEmailVerified(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Model(&models.Producer{}).
		Where("email = ?", email).
		UpdateColumn("email_verified", true).Error
}

// UpdatePasswordHash replaces the stored credential.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Producer{}).
		Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "updated_at": time.Now().UTC()}).Error
}

// UpdateColumns applies a partial column update to the producer row.
func (r *Repository) UpdateColumns(ctx context.Context, id uuid.UUID, columns map[string]any) error {
	if len(columns) == 0 {
		return nil
	}
	columns["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.Producer{}).
		Where("id = ?", id).
		Updates(columns).Error
}

// Delete removes the producer row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Producer{}, "id = ?", id).Error
}
