package crew

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/pkg/db/models"
	dbtypes "github.com/mofihq/mofi-backend/pkg/db/types"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
	"github.com/mofihq/mofi-backend/pkg/logger"
)

// Service defines the crew-ledger behavior needed by controllers and by
// the movie registry's lifecycle hooks.
type Service interface {
	Grant(ctx context.Context, memberID, movieID, contribution string, perms dbtypes.Permissions) (*EntryDTO, error)
	Update(ctx context.Context, crewID uuid.UUID, movieID string, update RoleUpdate) (*EntryDTO, error)
	Revoke(ctx context.Context, crewID uuid.UUID, movieID string) error
	EnsureCreator(ctx context.Context, movieID, creatorID string) error
	RemoveMovie(ctx context.Context, movieID string) error
	MembersOfMovie(ctx context.Context, movieID string) ([]MemberRole, error)
	GetEntry(ctx context.Context, crewID uuid.UUID) (*EntryDTO, error)
}

type ledgerRepository interface {
	FindByMemberID(ctx context.Context, memberID string) (*models.CrewEntry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CrewEntry, error)
	ListByMovie(ctx context.Context, movieID string) ([]models.CrewEntry, error)
	Create(ctx context.Context, entry *models.CrewEntry) error
	SaveMovies(ctx context.Context, id uuid.UUID, movies dbtypes.RoleMap) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo ledgerRepository
	logg *logger.Logger
	now  func() time.Time
}

// ServiceParams bundles the dependencies required to build a crew service.
type ServiceParams struct {
	Repo   ledgerRepository
	Logger *logger.Logger
}

// NewService constructs a crew service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("crew repository is required")
	}
	return &service{
		repo: params.Repo,
		logg: params.Logger,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

// Grant adds a role for memberID on movieID. A member who already holds a
// role on the movie keeps it untouched and the call conflicts.
func (s *service) Grant(ctx context.Context, memberID, movieID, contribution string, perms dbtypes.Permissions) (*EntryDTO, error) {
	memberID = strings.TrimSpace(memberID)
	movieID = strings.TrimSpace(movieID)
	contribution = strings.TrimSpace(contribution)
	if memberID == "" || movieID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "member id and movie id are required")
	}
	if contribution == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contribution is required")
	}

	now := s.now()
	role := dbtypes.RoleEntry{
		Contribution: contribution,
		Permissions:  perms,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	entry, err := s.repo.FindByMemberID(ctx, memberID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = &models.CrewEntry{
			MemberID: memberID,
			Movies:   dbtypes.RoleMap{movieID: role},
		}
		if err := s.repo.Create(ctx, entry); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create crew entry")
		}
		return entryFromModel(entry), nil
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load crew entry")
	}

	if _, exists := entry.Movies[movieID]; exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "member already has a role on this movie")
	}

	entry.Movies[movieID] = role
	if err := s.repo.SaveMovies(ctx, entry.ID, entry.Movies); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save crew entry")
	}
	return entryFromModel(entry), nil
}

// Update applies a partial role change for movieID on the given ledger row.
func (s *service) Update(ctx context.Context, crewID uuid.UUID, movieID string, update RoleUpdate) (*EntryDTO, error) {
	if update.Contribution == nil && update.Permissions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if update.Contribution != nil && strings.TrimSpace(*update.Contribution) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contribution cannot be empty")
	}

	entry, err := s.loadEntry(ctx, crewID)
	if err != nil {
		return nil, err
	}

	role, exists := entry.Movies[movieID]
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member has no role on this movie")
	}

	if update.Contribution != nil {
		role.Contribution = strings.TrimSpace(*update.Contribution)
	}
	if update.Permissions != nil {
		role.Permissions = *update.Permissions
	}
	role.UpdatedAt = s.now()
	entry.Movies[movieID] = role

	if err := s.repo.SaveMovies(ctx, entry.ID, entry.Movies); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save crew entry")
	}
	return entryFromModel(entry), nil
}

// Revoke removes the role for movieID. The ledger row is deleted outright
// once its last movie is removed.
func (s *service) Revoke(ctx context.Context, crewID uuid.UUID, movieID string) error {
	entry, err := s.loadEntry(ctx, crewID)
	if err != nil {
		return err
	}

	if _, exists := entry.Movies[movieID]; !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "member has no role on this movie")
	}

	delete(entry.Movies, movieID)

	if len(entry.Movies) == 0 {
		if err := s.repo.Delete(ctx, entry.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete crew entry")
		}
		return nil
	}

	if err := s.repo.SaveMovies(ctx, entry.ID, entry.Movies); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save crew entry")
	}
	return nil
}

// EnsureCreator records the creator role written through at movie creation.
// Repeated calls are no-ops, and an existing different role is never
// overwritten.
func (s *service) EnsureCreator(ctx context.Context, movieID, creatorID string) error {
	now := s.now()
	role := dbtypes.RoleEntry{
		Contribution: ContributionCreator,
		Permissions:  dbtypes.AllGranted(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	entry, err := s.repo.FindByMemberID(ctx, creatorID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = &models.CrewEntry{
			MemberID: creatorID,
			Movies:   dbtypes.RoleMap{movieID: role},
		}
		if err := s.repo.Create(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create crew entry")
		}
		return nil
	case err != nil:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load crew entry")
	}

	if _, exists := entry.Movies[movieID]; exists {
		return nil
	}

	entry.Movies[movieID] = role
	if err := s.repo.SaveMovies(ctx, entry.ID, entry.Movies); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save crew entry")
	}
	return nil
}

// RemoveMovie strips the movie's key from every ledger row that carries it.
// Per-entry failures are logged and skipped so one bad row cannot block the
// rest of the cascade.
func (s *service) RemoveMovie(ctx context.Context, movieID string) error {
	entries, err := s.repo.ListByMovie(ctx, movieID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list crew entries for movie")
	}

	for i := range entries {
		entry := &entries[i]
		delete(entry.Movies, movieID)

		var opErr error
		if len(entry.Movies) == 0 {
			opErr = s.repo.Delete(ctx, entry.ID)
		} else {
			opErr = s.repo.SaveMovies(ctx, entry.ID, entry.Movies)
		}
		if opErr != nil && s.logg != nil {
			fields := map[string]any{"crew_id": entry.ID.String(), "movie_id": movieID}
			s.logg.Error(s.logg.WithFields(ctx, fields), "crew cascade: entry update failed", opErr)
		}
	}
	return nil
}

// MembersOfMovie flattens the ledger rows carrying the movie into per-member roles.
func (s *service) MembersOfMovie(ctx context.Context, movieID string) ([]MemberRole, error) {
	entries, err := s.repo.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list crew entries for movie")
	}

	members := make([]MemberRole, 0, len(entries))
	for _, entry := range entries {
		role, exists := entry.Movies[movieID]
		if !exists {
			continue
		}
		members = append(members, MemberRole{
			CrewID:       entry.ID,
			MemberID:     entry.MemberID,
			MovieID:      movieID,
			Contribution: role.Contribution,
			Permissions:  role.Permissions,
			CreatedAt:    role.CreatedAt,
			UpdatedAt:    role.UpdatedAt,
		})
	}
	return members, nil
}

// GetEntry returns the full ledger row.
func (s *service) GetEntry(ctx context.Context, crewID uuid.UUID) (*EntryDTO, error) {
	entry, err := s.loadEntry(ctx, crewID)
	if err != nil {
		return nil, err
	}
	return entryFromModel(entry), nil
}

func (s *service) loadEntry(ctx context.Context, crewID uuid.UUID) (*models.CrewEntry, error) {
	entry, err := s.repo.FindByID(ctx, crewID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "crew entry not found")
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load crew entry")
	}
	return entry, nil
}
