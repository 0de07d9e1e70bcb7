package crew

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mofihq/mofi-backend/pkg/db/models"
	dbtypes "github.com/mofihq/mofi-backend/pkg/db/types"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
)

type fakeLedgerRepo struct {
	entries map[uuid.UUID]*models.CrewEntry

	saveErrFor   map[uuid.UUID]error
	deleteErrFor map[uuid.UUID]error
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		entries:      make(map[uuid.UUID]*models.CrewEntry),
		saveErrFor:   make(map[uuid.UUID]error),
		deleteErrFor: make(map[uuid.UUID]error),
	}
}

func (f *fakeLedgerRepo) add(memberID string, movies dbtypes.RoleMap) *models.CrewEntry {
	entry := &models.CrewEntry{ID: uuid.New(), MemberID: memberID, Movies: movies}
	f.entries[entry.ID] = entry
	return entry
}

func (f *fakeLedgerRepo) FindByMemberID(ctx context.Context, memberID string) (*models.CrewEntry, error) {
	for _, entry := range f.entries {
		if entry.MemberID == memberID {
			copied := *entry
			copied.Movies = cloneRoleMap(entry.Movies)
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLedgerRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CrewEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *entry
	copied.Movies = cloneRoleMap(entry.Movies)
	return &copied, nil
}

func (f *fakeLedgerRepo) ListByMovie(ctx context.Context, movieID string) ([]models.CrewEntry, error) {
	var out []models.CrewEntry
	for _, entry := range f.entries {
		if _, ok := entry.Movies[movieID]; ok {
			copied := *entry
			copied.Movies = cloneRoleMap(entry.Movies)
			out = append(out, copied)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) Create(ctx context.Context, entry *models.CrewEntry) error {
	entry.ID = uuid.New()
	stored := *entry
	stored.Movies = cloneRoleMap(entry.Movies)
	f.entries[entry.ID] = &stored
	return nil
}

func (f *fakeLedgerRepo) SaveMovies(ctx context.Context, id uuid.UUID, movies dbtypes.RoleMap) error {
	if err := f.saveErrFor[id]; err != nil {
		return err
	}
	entry, ok := f.entries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.Movies = cloneRoleMap(movies)
	return nil
}

func (f *fakeLedgerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := f.deleteErrFor[id]; err != nil {
		return err
	}
	delete(f.entries, id)
	return nil
}

func cloneRoleMap(m dbtypes.RoleMap) dbtypes.RoleMap {
	out := make(dbtypes.RoleMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func newTestService(t *testing.T, repo ledgerRepository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error with code %s, got %v", want, err)
	}
	if typed.Code() != want {
		t.Fatalf("expected code %s, got %s (%v)", want, typed.Code(), err)
	}
}

func TestGrantCreatesEntryOnFirstRole(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	entry, err := svc.Grant(ctx, "member-1", "movie-1", "Editor", dbtypes.Permissions{Video: true})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if entry.MemberID != "member-1" {
		t.Fatalf("unexpected member id %q", entry.MemberID)
	}
	role := entry.Movies["movie-1"]
	if role.Contribution != "Editor" || !role.Permissions.Video || role.Permissions.Crew {
		t.Fatalf("unexpected role %+v", role)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected one persisted entry, got %d", len(repo.entries))
	}
}

func TestGrantConflictsOnDuplicateAndPreservesRole(t *testing.T) {
	repo := newFakeLedgerRepo()
	stored := repo.add("member-1", dbtypes.RoleMap{
		"movie-1": {Contribution: "Editor", Permissions: dbtypes.Permissions{Video: true}},
	})
	svc := newTestService(t, repo)

	_, err := svc.Grant(context.Background(), "member-1", "movie-1", "Director", dbtypes.AllGranted())
	assertCode(t, err, pkgerrors.CodeConflict)

	// The stored role must be untouched by the failed grant.
	role := repo.entries[stored.ID].Movies["movie-1"]
	if role.Contribution != "Editor" || role.Permissions != (dbtypes.Permissions{Video: true}) {
		t.Fatalf("stored role mutated by failed grant: %+v", role)
	}
}

func TestGrantAddsKeyToExistingEntry(t *testing.T) {
	repo := newFakeLedgerRepo()
	stored := repo.add("member-1", dbtypes.RoleMap{
		"movie-1": {Contribution: "Editor"},
	})
	svc := newTestService(t, repo)

	entry, err := svc.Grant(context.Background(), "member-1", "movie-2", "Writer", dbtypes.Permissions{Scripts: true})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if len(entry.Movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(entry.Movies))
	}
	if len(repo.entries[stored.ID].Movies) != 2 {
		t.Fatalf("second role not persisted")
	}
}

func TestGrantValidation(t *testing.T) {
	svc := newTestService(t, newFakeLedgerRepo())
	ctx := context.Background()

	_, err := svc.Grant(ctx, "", "movie-1", "Editor", dbtypes.Permissions{})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Grant(ctx, "member-1", "movie-1", "  ", dbtypes.Permissions{})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdatePartialChange(t *testing.T) {
	repo := newFakeLedgerRepo()
	stored := repo.add("member-1", dbtypes.RoleMap{
		"movie-1": {Contribution: "Editor", Permissions: dbtypes.Permissions{Video: true}},
	})
	svc := newTestService(t, repo)

	contribution := "Lead Editor"
	entry, err := svc.Update(context.Background(), stored.ID, "movie-1", RoleUpdate{Contribution: &contribution})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	role := entry.Movies["movie-1"]
	if role.Contribution != "Lead Editor" {
		t.Fatalf("contribution not updated: %+v", role)
	}
	if !role.Permissions.Video {
		t.Fatalf("permissions should be untouched when not provided: %+v", role)
	}

	perms := dbtypes.Permissions{Live: true}
	entry, err = svc.Update(context.Background(), stored.ID, "movie-1", RoleUpdate{Permissions: &perms})
	if err != nil {
		t.Fatalf("update perms: %v", err)
	}
	role = entry.Movies["movie-1"]
	if role.Permissions != perms {
		t.Fatalf("permissions not replaced wholesale: %+v", role.Permissions)
	}
}

func TestUpdateNotFoundCases(t *testing.T) {
	repo := newFakeLedgerRepo()
	stored := repo.add("member-1", dbtypes.RoleMap{"movie-1": {Contribution: "Editor"}})
	svc := newTestService(t, repo)
	contribution := "Director"

	_, err := svc.Update(context.Background(), uuid.New(), "movie-1", RoleUpdate{Contribution: &contribution})
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Update(context.Background(), stored.ID, "movie-404", RoleUpdate{Contribution: &contribution})
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Update(context.Background(), stored.ID, "movie-1", RoleUpdate{})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRevokeRemovesKeyAndDeletesEmptyEntry(t *testing.T) {
	repo := newFakeLedgerRepo()
	stored := repo.add("member-1", dbtypes.RoleMap{
		"movie-1": {Contribution: "Editor"},
		"movie-2": {Contribution: "Writer"},
	})
	svc := newTestService(t, repo)
	ctx := context.Background()

	if err := svc.Revoke(ctx, stored.ID, "movie-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(repo.entries[stored.ID].Movies) != 1 {
		t.Fatalf("expected one remaining movie")
	}

	// Last role removed deletes the whole row.
	if err := svc.Revoke(ctx, stored.ID, "movie-2"); err != nil {
		t.Fatalf("revoke last: %v", err)
	}
	if _, ok := repo.entries[stored.ID]; ok {
		t.Fatalf("entry should be deleted once its map empties")
	}

	err := svc.Revoke(ctx, stored.ID, "movie-2")
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestRevokeMissingMovie(t *testing.T) {
	repo := newFakeLedgerRepo()
	stored := repo.add("member-1", dbtypes.RoleMap{"movie-1": {Contribution: "Editor"}})
	svc := newTestService(t, repo)

	err := svc.Revoke(context.Background(), stored.ID, "movie-404")
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestEnsureCreatorIsIdempotent(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if err := svc.EnsureCreator(ctx, "movie-1", "producer-1"); err != nil {
		t.Fatalf("ensure creator: %v", err)
	}
	if err := svc.EnsureCreator(ctx, "movie-1", "producer-1"); err != nil {
		t.Fatalf("ensure creator again: %v", err)
	}

	entry, err := repo.FindByMemberID(ctx, "producer-1")
	if err != nil {
		t.Fatalf("find entry: %v", err)
	}
	if len(entry.Movies) != 1 {
		t.Fatalf("expected one movie, got %d", len(entry.Movies))
	}
	role := entry.Movies["movie-1"]
	if role.Contribution != ContributionCreator || role.Permissions != dbtypes.AllGranted() {
		t.Fatalf("unexpected creator role %+v", role)
	}
}

func TestEnsureCreatorNeverOverwritesExistingRole(t *testing.T) {
	repo := newFakeLedgerRepo()
	stored := repo.add("member-1", dbtypes.RoleMap{
		"movie-1": {Contribution: "Editor", Permissions: dbtypes.Permissions{Video: true}},
	})
	svc := newTestService(t, repo)

	if err := svc.EnsureCreator(context.Background(), "movie-1", "member-1"); err != nil {
		t.Fatalf("ensure creator: %v", err)
	}

	role := repo.entries[stored.ID].Movies["movie-1"]
	if role.Contribution != "Editor" {
		t.Fatalf("existing role overwritten: %+v", role)
	}
}

func TestRemoveMovieCascadesAcrossAllEntries(t *testing.T) {
	repo := newFakeLedgerRepo()
	multi := repo.add("member-1", dbtypes.RoleMap{
		"movie-1": {Contribution: ContributionCreator},
		"movie-2": {Contribution: "Editor"},
	})
	single := repo.add("member-2", dbtypes.RoleMap{
		"movie-1": {Contribution: "Camera"},
	})
	untouched := repo.add("member-3", dbtypes.RoleMap{
		"movie-9": {Contribution: "Sound"},
	})
	svc := newTestService(t, repo)

	if err := svc.RemoveMovie(context.Background(), "movie-1"); err != nil {
		t.Fatalf("remove movie: %v", err)
	}

	if _, ok := repo.entries[multi.ID].Movies["movie-1"]; ok {
		t.Fatalf("movie key not removed from multi-role entry")
	}
	if len(repo.entries[multi.ID].Movies) != 1 {
		t.Fatalf("other roles should survive the cascade")
	}
	if _, ok := repo.entries[single.ID]; ok {
		t.Fatalf("emptied entry should be deleted")
	}
	if len(repo.entries[untouched.ID].Movies) != 1 {
		t.Fatalf("unrelated entry modified")
	}
}

func TestRemoveMovieContinuesPastEntryFailures(t *testing.T) {
	repo := newFakeLedgerRepo()
	failing := repo.add("member-1", dbtypes.RoleMap{
		"movie-1": {Contribution: "Editor"},
		"movie-2": {Contribution: "Writer"},
	})
	ok := repo.add("member-2", dbtypes.RoleMap{
		"movie-1": {Contribution: "Camera"},
	})
	repo.saveErrFor[failing.ID] = errors.New("write failed")
	svc := newTestService(t, repo)

	if err := svc.RemoveMovie(context.Background(), "movie-1"); err != nil {
		t.Fatalf("cascade should swallow per-entry failures, got %v", err)
	}

	if _, stillThere := repo.entries[ok.ID]; stillThere {
		t.Fatalf("healthy entry should still be processed and deleted")
	}
}

func TestMembersOfMovie(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.add("member-1", dbtypes.RoleMap{"movie-1": {Contribution: ContributionCreator}})
	repo.add("member-2", dbtypes.RoleMap{"movie-1": {Contribution: "Editor"}, "movie-2": {Contribution: "Writer"}})
	svc := newTestService(t, repo)

	members, err := svc.MembersOfMovie(context.Background(), "movie-1")
	if err != nil {
		t.Fatalf("members of movie: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	for _, m := range members {
		if m.MovieID != "movie-1" {
			t.Fatalf("unexpected movie id %q", m.MovieID)
		}
	}
}
