package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mofihq/mofi-backend/api/controllers"
	"github.com/mofihq/mofi-backend/api/middleware"
	"github.com/mofihq/mofi-backend/internal/access"
	"github.com/mofihq/mofi-backend/internal/auth"
	"github.com/mofihq/mofi-backend/internal/crew"
	"github.com/mofihq/mofi-backend/internal/images"
	"github.com/mofihq/mofi-backend/internal/movies"
	"github.com/mofihq/mofi-backend/internal/trailers"
	"github.com/mofihq/mofi-backend/pkg/config"
	"github.com/mofihq/mofi-backend/pkg/logger"
	"github.com/mofihq/mofi-backend/pkg/redis"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Auth     auth.Service
	UserAuth auth.UserService
	Movies   movies.Service
	Crew     crew.Service
	Access   access.Resolver
	Images   images.Service
	Trailers trailers.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	readiness map[string]controllers.Pinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Frontend.BaseURL),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	requireAuth := middleware.Auth(cfg.JWT, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, cfg, logg))
		r.Post("/refresh", controllers.SessionRefresh(cfg, logg))
		r.Post("/logout", controllers.SessionLogout(cfg, logg))
		r.Post("/resend-verification", controllers.AuthResendVerification(svcs.Auth, logg))
		r.Get("/verify-email/{token}", controllers.AuthVerifyEmail(svcs.Auth, logg))
		r.Get("/google/login", controllers.GoogleLogin(svcs.UserAuth, logg))
		r.Get("/google/callback", controllers.GoogleCallback(svcs.UserAuth, cfg, logg))

		r.With(requireAuth).Get("/me", controllers.AuthMe(svcs.Auth, logg))
	})

	r.Route("/api/v1/user/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.UserRegister(svcs.UserAuth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.UserLogin(svcs.UserAuth, cfg, logg))
		r.Get("/verify-email/{token}", controllers.UserVerifyEmail(svcs.UserAuth, logg))
		r.Post("/request-password-reset", controllers.UserRequestPasswordReset(svcs.UserAuth, logg))
		r.Post("/reset-password", controllers.UserResetPassword(svcs.UserAuth, logg))
		r.With(requireAuth).Get("/me", controllers.UserMe(svcs.UserAuth, logg))
	})

	r.Route("/api/v1/producer", func(r chi.Router) {
		r.Use(requireAuth)
		r.Patch("/profile", controllers.AuthUpdateProfile(svcs.Auth, logg))
		r.Post("/change-password", controllers.AuthChangePassword(svcs.Auth, logg))
		r.Delete("/account", controllers.AuthDeleteAccount(svcs.Auth, cfg, logg))
	})

	r.Route("/api/v1/movies", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", controllers.MovieCreate(svcs.Movies, logg))
		r.Get("/", controllers.MovieList(svcs.Movies, logg))

		r.Route("/{movieId}", func(r chi.Router) {
			r.Get("/", controllers.MovieGet(svcs.Movies, logg))
			r.Patch("/", controllers.MovieUpdate(svcs.Movies, logg))
			r.Delete("/", controllers.MovieDelete(svcs.Movies, logg))
			r.Post("/rating", controllers.MovieRate(svcs.Movies, logg))

			r.Post("/images", controllers.ImageUpload(svcs.Images, logg))
			r.Get("/images", controllers.ImageList(svcs.Images, logg))
			r.Post("/trailers", controllers.TrailerAdd(svcs.Trailers, logg))
			r.Get("/trailers", controllers.TrailerList(svcs.Trailers, logg))
		})
	})

	r.Route("/api/v1/images/{imageId}", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.ImageGet(svcs.Images, logg))
		r.Patch("/", controllers.ImageUpdate(svcs.Images, logg))
		r.Delete("/", controllers.ImageDelete(svcs.Images, logg))
	})

	r.Route("/api/v1/trailers/{trailerId}", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", controllers.TrailerGet(svcs.Trailers, logg))
		r.Patch("/", controllers.TrailerUpdate(svcs.Trailers, logg))
		r.Delete("/", controllers.TrailerDelete(svcs.Trailers, logg))
	})

	r.Route("/api/v1/crew", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", controllers.CrewGrant(svcs.Crew, logg))
		r.Get("/movie/{movieId}", controllers.CrewMembersOfMovie(svcs.Crew, logg))
		r.Get("/{crewId}", controllers.CrewGet(svcs.Crew, logg))
		r.Patch("/{crewId}/movie/{movieId}", controllers.CrewUpdate(svcs.Crew, logg))
		r.Delete("/{crewId}/movie/{movieId}", controllers.CrewRevoke(svcs.Crew, logg))
	})

	r.Route("/api/v1/access/{memberId}", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/accessible-movies", controllers.AccessMovies(svcs.Access, logg))
		r.Get("/created-movies", controllers.AccessCreatedMovies(svcs.Access, logg))
		r.Get("/crew-movies", controllers.AccessCrewMovies(svcs.Access, logg))
		r.Get("/movie/{movieId}/permissions", controllers.AccessResolve(svcs.Access, logg))
	})

	return r
}
