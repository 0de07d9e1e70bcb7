package access

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/internal/crew"
	"github.com/mofihq/mofi-backend/pkg/db/models"
	dbtypes "github.com/mofihq/mofi-backend/pkg/db/types"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
)

// Resolver answers "what can this member do on this movie" and "which
// movies can this member touch". The crew ledger is authoritative; the
// movie row's frozen user_id only backstops pre-ledger data.
type Resolver interface {
	Resolve(ctx context.Context, memberID, movieID string) (*Resolution, error)
	ListAccessible(ctx context.Context, memberID string) (*AccessibleMovies, error)
	ListCreated(ctx context.Context, memberID string) ([]AccessibleMovie, error)
	ListCrewOnly(ctx context.Context, memberID string) ([]AccessibleMovie, error)
}

type ledgerReader interface {
	FindByMemberID(ctx context.Context, memberID string) (*models.CrewEntry, error)
}

type movieReader interface {
	FindByID(ctx context.Context, movieID string) (*models.Movie, error)
	ListByUserID(ctx context.Context, userID string) ([]models.Movie, error)
}

type resolver struct {
	ledger ledgerReader
	movies movieReader
}

// ResolverParams bundles the dependencies required to build a resolver.
type ResolverParams struct {
	Ledger ledgerReader
	Movies movieReader
}

// NewResolver constructs an access resolver with the provided dependencies.
func NewResolver(params ResolverParams) (Resolver, error) {
	if params.Ledger == nil {
		return nil, fmt.Errorf("crew ledger reader is required")
	}
	if params.Movies == nil {
		return nil, fmt.Errorf("movie reader is required")
	}
	return &resolver{ledger: params.Ledger, movies: params.Movies}, nil
}

// Resolve determines the member's standing on one movie. The ledger is
// consulted before the movie row, so a ledger role still answers during a
// partially completed delete cascade; the dangling reference just reports
// "Unknown" movie details. The frozen user_id fallback only applies to
// movies that still exist.
func (r *resolver) Resolve(ctx context.Context, memberID, movieID string) (*Resolution, error) {
	resolution := &Resolution{
		MemberID:     memberID,
		MovieID:      movieID,
		MovieDetails: MovieDetails{Title: "Unknown"},
	}

	movie, err := r.movies.FindByID(ctx, movieID)
	switch {
	case err == nil:
		resolution.MovieDetails = MovieDetails{
			Title:       movie.Title,
			Description: movie.Description,
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		movie = nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load movie")
	}

	entry, err := r.ledger.FindByMemberID(ctx, memberID)
	switch {
	case err == nil:
		if role, ok := entry.Movies[movieID]; ok {
			resolution.HasAccess = true
			resolution.IsCreator = role.Contribution == crew.ContributionCreator
			resolution.Contribution = role.Contribution
			resolution.Permissions = role.Permissions
			return resolution, nil
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load crew entry")
	}

	if movie != nil && movie.UserID == memberID {
		resolution.HasAccess = true
		resolution.IsCreator = true
		resolution.Contribution = crew.ContributionCreator
		resolution.Permissions = dbtypes.AllGranted()
	}
	return resolution, nil
}

// ListAccessible unions the member's ledger roles with their legacy-created
// movies, deduplicated by movie id. Ledger references to movies that no
// longer exist are skipped silently.
func (r *resolver) ListAccessible(ctx context.Context, memberID string) (*AccessibleMovies, error) {
	items, err := r.union(ctx, memberID)
	if err != nil {
		return nil, err
	}

	result := &AccessibleMovies{Movies: items, Total: len(items)}
	for _, item := range items {
		if item.IsCreator {
			result.CreatedCount++
		} else {
			result.CrewCount++
		}
	}
	return result, nil
}

// ListCreated returns the creator slice of the union, legacy rows included.
func (r *resolver) ListCreated(ctx context.Context, memberID string) ([]AccessibleMovie, error) {
	items, err := r.union(ctx, memberID)
	if err != nil {
		return nil, err
	}

	created := make([]AccessibleMovie, 0, len(items))
	for _, item := range items {
		if item.IsCreator {
			created = append(created, item)
		}
	}
	return created, nil
}

// ListCrewOnly returns non-creator ledger roles. The legacy fallback never
// contributes here because it can only synthesize creator roles.
func (r *resolver) ListCrewOnly(ctx context.Context, memberID string) ([]AccessibleMovie, error) {
	items, err := r.ledgerMovies(ctx, memberID)
	if err != nil {
		return nil, err
	}

	crewOnly := make([]AccessibleMovie, 0, len(items))
	for _, item := range items {
		if !item.IsCreator {
			crewOnly = append(crewOnly, item)
		}
	}
	return crewOnly, nil
}

func (r *resolver) union(ctx context.Context, memberID string) ([]AccessibleMovie, error) {
	items, err := r.ledgerMovies(ctx, memberID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item.Movie.MovieID] = struct{}{}
	}

	legacy, err := r.movies.ListByUserID(ctx, memberID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list created movies")
	}
	for i := range legacy {
		movie := &legacy[i]
		if _, dup := seen[movie.MovieID]; dup {
			continue
		}
		seen[movie.MovieID] = struct{}{}
		items = append(items, AccessibleMovie{
			Movie:        movieSummary(movie),
			Contribution: crew.ContributionCreator,
			IsCreator:    true,
			Permissions:  dbtypes.AllGranted(),
		})
	}
	return items, nil
}

func (r *resolver) ledgerMovies(ctx context.Context, memberID string) ([]AccessibleMovie, error) {
	entry, err := r.ledger.FindByMemberID(ctx, memberID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return []AccessibleMovie{}, nil
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load crew entry")
	}

	items := make([]AccessibleMovie, 0, len(entry.Movies))
	for movieID, role := range entry.Movies {
		movie, err := r.movies.FindByID(ctx, movieID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Dangling ledger reference, the movie was deleted.
			continue
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load movie")
		}
		items = append(items, AccessibleMovie{
			Movie:        movieSummary(movie),
			Contribution: role.Contribution,
			IsCreator:    role.Contribution == crew.ContributionCreator,
			Permissions:  role.Permissions,
		})
	}
	return items, nil
}
