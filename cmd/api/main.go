package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/mofihq/mofi-backend/api/controllers"
	"github.com/mofihq/mofi-backend/api/routes"
	"github.com/mofihq/mofi-backend/internal/access"
	"github.com/mofihq/mofi-backend/internal/auth"
	"github.com/mofihq/mofi-backend/internal/crew"
	"github.com/mofihq/mofi-backend/internal/images"
	"github.com/mofihq/mofi-backend/internal/movies"
	"github.com/mofihq/mofi-backend/internal/producers"
	"github.com/mofihq/mofi-backend/internal/trailers"
	"github.com/mofihq/mofi-backend/internal/users"
	"github.com/mofihq/mofi-backend/pkg/config"
	"github.com/mofihq/mofi-backend/pkg/db"
	"github.com/mofihq/mofi-backend/pkg/logger"
	"github.com/mofihq/mofi-backend/pkg/mailer"
	"github.com/mofihq/mofi-backend/pkg/migrate"
	"github.com/mofihq/mofi-backend/pkg/oauth"
	"github.com/mofihq/mofi-backend/pkg/redis"
	"github.com/mofihq/mofi-backend/pkg/storage/cloudinary"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	blobClient, err := cloudinary.NewClient(context.Background(), cfg.Cloudinary, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cloudinary", err)
		os.Exit(1)
	}

	mailSender, err := mailer.NewSMTPSender(cfg.SMTP)
	if err != nil {
		logg.Error(context.Background(), "failed to configure smtp sender", err)
		os.Exit(1)
	}

	googleProvider, err := oauth.NewGoogleProvider(cfg.GoogleOAuth)
	if err != nil {
		logg.Error(context.Background(), "failed to configure google oauth", err)
		os.Exit(1)
	}

	producerRepo := producers.NewRepository(dbClient.DB())
	userRepo := users.NewRepository(dbClient.DB())
	movieRepo := movies.NewRepository(dbClient.DB())
	crewRepo := crew.NewRepository(dbClient.DB())
	imageRepo := images.NewRepository(dbClient.DB())
	trailerRepo := trailers.NewRepository(dbClient.DB())

	maxUploadBytes := int64(cfg.Media.MaxUploadMB) << 20

	crewService, err := crew.NewService(crew.ServiceParams{
		Repo:   crewRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create crew service", err)
		os.Exit(1)
	}

	imageService, err := images.NewService(images.ServiceParams{
		Repo:     imageRepo,
		Blobs:    blobClient,
		Movies:   movieRepo,
		Folder:   cfg.Cloudinary.ImageFolder,
		MaxBytes: maxUploadBytes,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create image service", err)
		os.Exit(1)
	}

	trailerService, err := trailers.NewService(trailers.ServiceParams{
		Repo:   trailerRepo,
		Movies: movieRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create trailer service", err)
		os.Exit(1)
	}

	movieService, err := movies.NewService(movies.ServiceParams{
		Repo:     movieRepo,
		Crew:     crewService,
		Images:   imageService,
		Trailers: trailerService,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create movie service", err)
		os.Exit(1)
	}

	accessResolver, err := access.NewResolver(access.ResolverParams{
		Ledger: crewRepo,
		Movies: movieRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create access resolver", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		ProducerRepo:   producerRepo,
		Blobs:          blobClient,
		Mail:           mailSender,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		PublicURL:      cfg.App.PublicURL,
		FrontendURL:    cfg.Frontend.BaseURL,
		ProfileFolder:  cfg.Cloudinary.ProfileFolder,
		MaxPicBytes:    maxUploadBytes,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userAuthService, err := auth.NewUserService(auth.UserServiceParams{
		UserRepo:       userRepo,
		Google:         googleProvider,
		Blobs:          blobClient,
		Mail:           mailSender,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		PublicURL:      cfg.App.PublicURL,
		FrontendURL:    cfg.Frontend.BaseURL,
		ProfileFolder:  cfg.Cloudinary.ProfileFolder,
		MaxPicBytes:    maxUploadBytes,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user auth service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	readiness := map[string]controllers.Pinger{
		"database":   dbClient,
		"redis":      redisClient,
		"cloudinary": blobClient,
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, readiness, routes.Services{
			Auth:     authService,
			UserAuth: userAuthService,
			Movies:   movieService,
			Crew:     crewService,
			Access:   accessResolver,
			Images:   imageService,
			Trailers: trailerService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
