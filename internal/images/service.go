package images

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/pkg/db/models"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
	"github.com/mofihq/mofi-backend/pkg/logger"
	"github.com/mofihq/mofi-backend/pkg/storage/cloudinary"
	"github.com/mofihq/mofi-backend/pkg/upload"
)

// Service manages the lifecycle of movie images, including their blob copies.
type Service interface {
	Upload(ctx context.Context, req UploadImageRequest, file upload.File) (*ImageDTO, error)
	Get(ctx context.Context, imageID string) (*ImageDTO, error)
	ListByMovie(ctx context.Context, movieID string) ([]ImageDTO, error)
	UpdateMetadata(ctx context.Context, imageID string, req UpdateImageRequest) (*ImageDTO, error)
	Delete(ctx context.Context, imageID string) error
	DeleteByMovie(ctx context.Context, movieID string) error
}

type assetRepository interface {
	Create(ctx context.Context, image *models.MovieImage) error
	FindByID(ctx context.Context, imageID string) (*models.MovieImage, error)
	ListByMovie(ctx context.Context, movieID string) ([]models.MovieImage, error)
	UpdateColumns(ctx context.Context, imageID string, columns map[string]any) error
	Delete(ctx context.Context, imageID string) error
	DeleteByMovie(ctx context.Context, movieID string) error
}

type blobStore interface {
	UploadImage(ctx context.Context, folder string, data []byte) (*cloudinary.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

type movieRegistry interface {
	FindByID(ctx context.Context, movieID string) (*models.Movie, error)
	AddImageRef(ctx context.Context, movieID, imageURL string) error
	RemoveImageRef(ctx context.Context, movieID, imageURL string) error
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Repo     assetRepository
	Blobs    blobStore
	Movies   movieRegistry
	Folder   string
	MaxBytes int64
	Logger   *logger.Logger
}

type service struct {
	repo     assetRepository
	blobs    blobStore
	movies   movieRegistry
	folder   string
	maxBytes int64
	logg     *logger.Logger
}

// NewService wires an image service from its dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("images: repo is required")
	}
	if params.Blobs == nil {
		return nil, errors.New("images: blob store is required")
	}
	if params.Movies == nil {
		return nil, errors.New("images: movie registry is required")
	}
	return &service{
		repo:     params.Repo,
		blobs:    params.Blobs,
		movies:   params.Movies,
		folder:   params.Folder,
		maxBytes: params.MaxBytes,
		logg:     params.Logger,
	}, nil
}

// Upload stores the image blob first, then records it. The blob write is
// the only step with no transactional rollback, so every later failure
// triggers a compensating destroy of the uploaded blob.
func (s *service) Upload(ctx context.Context, req UploadImageRequest, file upload.File) (*ImageDTO, error) {
	if strings.TrimSpace(req.MovieID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movie id is required")
	}
	if err := upload.ValidateImage(file, s.maxBytes); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid image file")
	}
	data, err := file.ReadAll()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to read image file")
	}

	result, err := s.blobs.UploadImage(ctx, s.folder, data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "image upload failed")
	}

	if _, err := s.movies.FindByID(ctx, req.MovieID); err != nil {
		s.compensate(ctx, result.PublicID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "movie not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load movie")
	}

	image := req.toModel(uuid.NewString(), result.PublicID, result.SecureURL)
	if err := s.repo.Create(ctx, image); err != nil {
		s.compensate(ctx, result.PublicID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to save image")
	}

	if err := s.movies.AddImageRef(ctx, req.MovieID, image.ImageURL); err != nil {
		if delErr := s.repo.Delete(ctx, image.ImageID); delErr != nil {
			s.logError(ctx, map[string]any{
				"image_id": image.ImageID,
				"movie_id": req.MovieID,
			}, "failed to roll back image row", delErr)
		}
		s.compensate(ctx, result.PublicID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to link image to movie")
	}

	if image.UploadedAt.IsZero() {
		image.UploadedAt = time.Now().UTC()
	}
	dto := FromModel(image)
	return &dto, nil
}

// Get returns a single stored image.
func (s *service) Get(ctx context.Context, imageID string) (*ImageDTO, error) {
	image, err := s.loadImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	dto := FromModel(image)
	return &dto, nil
}

// ListByMovie returns every image attached to a movie.
func (s *service) ListByMovie(ctx context.Context, movieID string) ([]ImageDTO, error) {
	rows, err := s.repo.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list images")
	}
	out := make([]ImageDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

// UpdateMetadata patches the mutable fields of an image row.
func (s *service) UpdateMetadata(ctx context.Context, imageID string, req UpdateImageRequest) (*ImageDTO, error) {
	columns := map[string]any{}
	if req.Title != nil {
		columns["title"] = strings.TrimSpace(*req.Title)
	}
	if req.People != nil {
		columns["people"] = pq.StringArray(req.People)
	}
	if req.Description != nil {
		columns["description"] = *req.Description
	}
	if len(columns) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if _, err := s.loadImage(ctx, imageID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateColumns(ctx, imageID, columns); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update image")
	}
	return s.Get(ctx, imageID)
}

// Delete removes the blob copy, then the row, then the movie back reference.
// A failed blob destroy is logged and does not block the row delete.
func (s *service) Delete(ctx context.Context, imageID string) error {
	image, err := s.loadImage(ctx, imageID)
	if err != nil {
		return err
	}
	if image.PublicID != "" {
		if err := s.blobs.Destroy(ctx, image.PublicID); err != nil {
			s.logError(ctx, map[string]any{
				"image_id":  image.ImageID,
				"public_id": image.PublicID,
			}, "failed to destroy image blob", err)
		}
	}
	if err := s.repo.Delete(ctx, imageID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete image")
	}
	if err := s.movies.RemoveImageRef(ctx, image.MovieID, image.ImageURL); err != nil {
		s.logError(ctx, map[string]any{
			"image_id": image.ImageID,
			"movie_id": image.MovieID,
		}, "failed to unlink image from movie", err)
	}
	return nil
}

// DeleteByMovie destroys the blobs it can and drops every image row for a
// movie. Used by the movie delete cascade, so partial blob failures are
// logged rather than surfaced.
func (s *service) DeleteByMovie(ctx context.Context, movieID string) error {
	rows, err := s.repo.ListByMovie(ctx, movieID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list images")
	}
	for i := range rows {
		if rows[i].PublicID == "" {
			continue
		}
		if err := s.blobs.Destroy(ctx, rows[i].PublicID); err != nil {
			s.logError(ctx, map[string]any{
				"image_id":  rows[i].ImageID,
				"public_id": rows[i].PublicID,
			}, "failed to destroy image blob", err)
		}
	}
	if err := s.repo.DeleteByMovie(ctx, movieID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete images")
	}
	return nil
}

func (s *service) loadImage(ctx context.Context, imageID string) (*models.MovieImage, error) {
	image, err := s.repo.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load image")
	}
	return image, nil
}

// compensate destroys a freshly uploaded blob after a later step failed.
// Cleanup failures are logged and never mask the original error.
func (s *service) compensate(ctx context.Context, publicID string) {
	if err := s.blobs.Destroy(ctx, publicID); err != nil {
		s.logError(ctx, map[string]any{"public_id": publicID}, "failed to clean up orphaned image blob", err)
	}
}

func (s *service) logError(ctx context.Context, fields map[string]any, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(s.logg.WithFields(ctx, fields), msg, err)
}
