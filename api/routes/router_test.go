package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mofihq/mofi-backend/api/controllers"
	"github.com/mofihq/mofi-backend/internal/auth"
	"github.com/mofihq/mofi-backend/internal/movies"
	"github.com/mofihq/mofi-backend/internal/producers"
	pkgauth "github.com/mofihq/mofi-backend/pkg/auth"
	"github.com/mofihq/mofi-backend/pkg/config"
	pkgerrors "github.com/mofihq/mofi-backend/pkg/errors"
	"github.com/mofihq/mofi-backend/pkg/upload"
)

type stubMovieService struct{}

func (stubMovieService) Create(context.Context, string, movies.CreateMovieRequest) (*movies.MovieDTO, error) {
	return &movies.MovieDTO{MovieID: "mv_1"}, nil
}

func (stubMovieService) Get(context.Context, string) (*movies.MovieDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "movie not found")
}

func (stubMovieService) List(context.Context) ([]movies.MovieDTO, error) {
	return []movies.MovieDTO{}, nil
}

func (stubMovieService) Update(context.Context, string, movies.UpdateMovieRequest) (*movies.MovieDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "movie not found")
}

func (stubMovieService) Delete(context.Context, string) error {
	return nil
}

func (stubMovieService) UpdateRating(context.Context, string, movies.RatingRequest) (*movies.MovieDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "movie not found")
}

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, auth.RegisterRequest, upload.File) error {
	return nil
}

func (stubAuthService) ResendVerification(context.Context, string) (bool, error) {
	return true, nil
}

func (stubAuthService) VerifyEmail(_ context.Context, token string) string {
	if token == "good" {
		return "http://localhost:5174/login?verified=success"
	}
	return "http://localhost:5174/verify?status=invalid"
}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

func (stubAuthService) Me(context.Context, uuid.UUID) (*producers.ProducerDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
}

func (stubAuthService) UpdateProfile(context.Context, uuid.UUID, auth.UpdateProfileRequest, upload.File) (*producers.ProducerDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
}

func (stubAuthService) ChangePassword(context.Context, uuid.UUID, auth.ChangePasswordRequest) error {
	return nil
}

func (stubAuthService) DeleteAccount(context.Context, uuid.UUID, auth.DeleteAccountRequest) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8001"},
		JWT: config.JWTConfig{
			Secret:              "router-test-secret",
			Issuer:              "mofi-test",
			AccessExpiryMinutes: 15,
			RefreshExpiryDays:   15,
			VerifyExpiryMinutes: 15,
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(testConfig(), nil, nil, map[string]controllers.Pinger{}, Services{
		Auth:   stubAuthService{},
		Movies: stubMovieService{},
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Mofi-Env") != "test" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-Mofi-Env"))
	}
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	router := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/movies/"},
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodPost, "/api/v1/producer/change-password"},
		{http.MethodGet, "/api/v1/access/u1/accessible-movies"},
		{http.MethodGet, "/api/v1/crew/movie/mv_1"},
	}

	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestBearerTokenOpensProtectedRoute(t *testing.T) {
	router := newTestRouter(t)

	cfg := testConfig()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), uuid.NewString())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestVerifyEmailRedirects(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify-email/good", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "verified=success") {
		t.Fatalf("expected success redirect, got %q", loc)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == pkgauth.RefreshCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected refresh cookie to be cleared")
	}
}
