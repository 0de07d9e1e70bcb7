package access

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/internal/crew"
	"github.com/mofihq/mofi-backend/pkg/db/models"
	dbtypes "github.com/mofihq/mofi-backend/pkg/db/types"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
)

type fakeLedger struct {
	entries map[string]*models.CrewEntry
	err     error
}

func (f *fakeLedger) FindByMemberID(ctx context.Context, memberID string) (*models.CrewEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	entry, ok := f.entries[memberID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return entry, nil
}

type fakeMovies struct {
	movies map[string]*models.Movie
	err    error
}

func (f *fakeMovies) FindByID(ctx context.Context, movieID string) (*models.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	movie, ok := f.movies[movieID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return movie, nil
}

func (f *fakeMovies) ListByUserID(ctx context.Context, userID string) ([]models.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Movie
	for _, movie := range f.movies {
		if movie.UserID == userID {
			out = append(out, *movie)
		}
	}
	return out, nil
}

func newTestResolver(t *testing.T, ledger *fakeLedger, movies *fakeMovies) Resolver {
	t.Helper()
	if ledger.entries == nil {
		ledger.entries = map[string]*models.CrewEntry{}
	}
	if movies.movies == nil {
		movies.movies = map[string]*models.Movie{}
	}
	r, err := NewResolver(ResolverParams{Ledger: ledger, Movies: movies})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return r
}

func movieRow(movieID, userID, title string) *models.Movie {
	return &models.Movie{MovieID: movieID, UserID: userID, Title: title, Type: "movie"}
}

func ledgerEntry(memberID string, movies dbtypes.RoleMap) *models.CrewEntry {
	return &models.CrewEntry{ID: uuid.New(), MemberID: memberID, Movies: movies}
}

func TestResolveLedgerRoleWinsOverLegacyFallback(t *testing.T) {
	// The member holds an Editor role on a movie whose frozen user_id
	// also names them. The ledger answer must win.
	ledger := &fakeLedger{entries: map[string]*models.CrewEntry{
		"member-1": ledgerEntry("member-1", dbtypes.RoleMap{
			"movie-1": {Contribution: "Editor", Permissions: dbtypes.Permissions{Video: true}},
		}),
	}}
	movies := &fakeMovies{movies: map[string]*models.Movie{
		"movie-1": movieRow("movie-1", "member-1", "The Film"),
	}}
	r := newTestResolver(t, ledger, movies)

	res, err := r.Resolve(context.Background(), "member-1", "movie-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.HasAccess {
		t.Fatal("expected access")
	}
	if res.IsCreator {
		t.Fatal("ledger Editor role must not resolve as creator")
	}
	if res.Contribution != "Editor" {
		t.Fatalf("unexpected contribution %q", res.Contribution)
	}
	if res.Permissions != (dbtypes.Permissions{Video: true}) {
		t.Fatalf("expected the stored bundle, got %+v", res.Permissions)
	}
	if res.MovieDetails.Title != "The Film" {
		t.Fatalf("movie details missing: %+v", res.MovieDetails)
	}
}

func TestResolveLegacyFallbackSynthesizesCreator(t *testing.T) {
	ledger := &fakeLedger{}
	movies := &fakeMovies{movies: map[string]*models.Movie{
		"movie-1": movieRow("movie-1", "member-1", "Pre Ledger"),
	}}
	r := newTestResolver(t, ledger, movies)

	res, err := r.Resolve(context.Background(), "member-1", "movie-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.HasAccess || !res.IsCreator {
		t.Fatalf("expected synthesized creator access, got %+v", res)
	}
	if res.Contribution != crew.ContributionCreator {
		t.Fatalf("unexpected contribution %q", res.Contribution)
	}
	if res.Permissions != dbtypes.AllGranted() {
		t.Fatalf("expected all-true bundle, got %+v", res.Permissions)
	}
}

func TestResolveNoAccess(t *testing.T) {
	ledger := &fakeLedger{entries: map[string]*models.CrewEntry{
		"member-1": ledgerEntry("member-1", dbtypes.RoleMap{
			"movie-2": {Contribution: "Editor"},
		}),
	}}
	movies := &fakeMovies{movies: map[string]*models.Movie{
		"movie-1": movieRow("movie-1", "someone-else", "Not Yours"),
	}}
	r := newTestResolver(t, ledger, movies)

	res, err := r.Resolve(context.Background(), "member-1", "movie-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.HasAccess || res.IsCreator {
		t.Fatalf("expected no access, got %+v", res)
	}
	if res.Permissions != (dbtypes.Permissions{}) {
		t.Fatalf("expected empty bundle, got %+v", res.Permissions)
	}
}

func TestResolveMissingMovieWithoutRole(t *testing.T) {
	r := newTestResolver(t, &fakeLedger{}, &fakeMovies{})

	res, err := r.Resolve(context.Background(), "member-1", "movie-404")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.HasAccess {
		t.Fatalf("expected no access, got %+v", res)
	}
	if res.MovieDetails.Title != "Unknown" {
		t.Fatalf("expected Unknown details, got %+v", res.MovieDetails)
	}
}

func TestResolveLedgerRoleOnDanglingMovie(t *testing.T) {
	// A half-finished delete cascade can leave a ledger role pointing at a
	// movie row that is already gone. The role still answers.
	ledger := &fakeLedger{entries: map[string]*models.CrewEntry{
		"member-1": ledgerEntry("member-1", dbtypes.RoleMap{
			"movie-gone": {Contribution: "Editor", Permissions: dbtypes.Permissions{Video: true}},
		}),
	}}
	r := newTestResolver(t, ledger, &fakeMovies{})

	res, err := r.Resolve(context.Background(), "member-1", "movie-gone")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.HasAccess || res.IsCreator {
		t.Fatalf("expected crew access, got %+v", res)
	}
	if res.Contribution != "Editor" {
		t.Fatalf("unexpected contribution %q", res.Contribution)
	}
	if res.MovieDetails.Title != "Unknown" || res.MovieDetails.Description != "" {
		t.Fatalf("expected Unknown movie details, got %+v", res.MovieDetails)
	}
}

func TestResolveStorageFault(t *testing.T) {
	movies := &fakeMovies{err: errors.New("connection reset")}
	movies.movies = map[string]*models.Movie{}
	r := newTestResolver(t, &fakeLedger{}, movies)

	_, err := r.Resolve(context.Background(), "member-1", "movie-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected INTERNAL_ERROR, got %v", err)
	}
}

func TestListAccessibleUnionDedupAndCounts(t *testing.T) {
	// movie-1: ledger creator role AND legacy user_id match (dedup case).
	// movie-2: ledger crew role only.
	// movie-3: legacy creation only.
	ledger := &fakeLedger{entries: map[string]*models.CrewEntry{
		"member-1": ledgerEntry("member-1", dbtypes.RoleMap{
			"movie-1": {Contribution: crew.ContributionCreator, Permissions: dbtypes.AllGranted()},
			"movie-2": {Contribution: "Editor", Permissions: dbtypes.Permissions{Video: true}},
		}),
	}}
	movies := &fakeMovies{movies: map[string]*models.Movie{
		"movie-1": movieRow("movie-1", "member-1", "Owned Twice"),
		"movie-2": movieRow("movie-2", "someone-else", "Crew Gig"),
		"movie-3": movieRow("movie-3", "member-1", "Legacy Only"),
	}}
	r := newTestResolver(t, ledger, movies)

	result, err := r.ListAccessible(context.Background(), "member-1")
	if err != nil {
		t.Fatalf("list accessible: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("expected 3 movies, got %d", result.Total)
	}
	if result.CreatedCount != 2 {
		t.Fatalf("expected 2 created, got %d", result.CreatedCount)
	}
	if result.CrewCount != 1 {
		t.Fatalf("expected 1 crew, got %d", result.CrewCount)
	}

	seen := map[string]int{}
	for _, item := range result.Movies {
		seen[item.Movie.MovieID]++
	}
	for movieID, n := range seen {
		if n != 1 {
			t.Fatalf("movie %s appears %d times", movieID, n)
		}
	}
}

func TestListAccessibleSkipsDanglingLedgerRefs(t *testing.T) {
	ledger := &fakeLedger{entries: map[string]*models.CrewEntry{
		"member-1": ledgerEntry("member-1", dbtypes.RoleMap{
			"movie-1":    {Contribution: "Editor"},
			"movie-gone": {Contribution: "Writer"},
		}),
	}}
	movies := &fakeMovies{movies: map[string]*models.Movie{
		"movie-1": movieRow("movie-1", "someone-else", "Still Here"),
	}}
	r := newTestResolver(t, ledger, movies)

	result, err := r.ListAccessible(context.Background(), "member-1")
	if err != nil {
		t.Fatalf("list accessible: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("dangling ref should be skipped, got %d movies", result.Total)
	}
	if result.Movies[0].Movie.MovieID != "movie-1" {
		t.Fatalf("unexpected movie %q", result.Movies[0].Movie.MovieID)
	}
}

func TestListAccessibleEmptyForUnknownMember(t *testing.T) {
	r := newTestResolver(t, &fakeLedger{}, &fakeMovies{})

	result, err := r.ListAccessible(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("list accessible: %v", err)
	}
	if result.Total != 0 || len(result.Movies) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestListCreatedMergesLegacy(t *testing.T) {
	ledger := &fakeLedger{entries: map[string]*models.CrewEntry{
		"member-1": ledgerEntry("member-1", dbtypes.RoleMap{
			"movie-1": {Contribution: crew.ContributionCreator},
			"movie-2": {Contribution: "Editor"},
		}),
	}}
	movies := &fakeMovies{movies: map[string]*models.Movie{
		"movie-1": movieRow("movie-1", "member-1", "Ledger Creator"),
		"movie-2": movieRow("movie-2", "someone-else", "Crew Gig"),
		"movie-3": movieRow("movie-3", "member-1", "Legacy Created"),
	}}
	r := newTestResolver(t, ledger, movies)

	created, err := r.ListCreated(context.Background(), "member-1")
	if err != nil {
		t.Fatalf("list created: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created movies, got %d", len(created))
	}
	for _, item := range created {
		if !item.IsCreator {
			t.Fatalf("non-creator item in created list: %+v", item)
		}
	}
}

func TestListCrewOnlyIsLedgerOnly(t *testing.T) {
	ledger := &fakeLedger{entries: map[string]*models.CrewEntry{
		"member-1": ledgerEntry("member-1", dbtypes.RoleMap{
			"movie-1": {Contribution: crew.ContributionCreator},
			"movie-2": {Contribution: "Editor"},
		}),
	}}
	movies := &fakeMovies{movies: map[string]*models.Movie{
		"movie-1": movieRow("movie-1", "member-1", "Created"),
		"movie-2": movieRow("movie-2", "someone-else", "Crew Gig"),
		"movie-3": movieRow("movie-3", "member-1", "Legacy Created"),
	}}
	r := newTestResolver(t, ledger, movies)

	crewMovies, err := r.ListCrewOnly(context.Background(), "member-1")
	if err != nil {
		t.Fatalf("list crew only: %v", err)
	}
	if len(crewMovies) != 1 {
		t.Fatalf("expected 1 crew movie, got %d", len(crewMovies))
	}
	if crewMovies[0].Movie.MovieID != "movie-2" {
		t.Fatalf("unexpected movie %q", crewMovies[0].Movie.MovieID)
	}
}
