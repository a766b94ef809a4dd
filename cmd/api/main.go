package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/costumehub/costumehub-api/internal/config"
	"github.com/costumehub/costumehub-api/internal/domain/admin"
	"github.com/costumehub/costumehub-api/internal/domain/booking"
	"github.com/costumehub/costumehub-api/internal/domain/category"
	"github.com/costumehub/costumehub-api/internal/domain/dashboard"
	"github.com/costumehub/costumehub-api/internal/domain/item"
	"github.com/costumehub/costumehub-api/internal/middleware"
	"github.com/costumehub/costumehub-api/internal/pkg/database"
	"github.com/costumehub/costumehub-api/internal/pkg/imaging"
	pkgresponse "github.com/costumehub/costumehub-api/internal/pkg/response"
	"github.com/costumehub/costumehub-api/internal/pkg/session"
	"github.com/costumehub/costumehub-api/internal/pkg/storage"
)

// application groups the handlers the router mounts
type application struct {
	cfg      *config.Config
	sessions *session.Service

	categoryHandler  *category.Handler
	itemHandler      *item.Handler
	bookingHandler   *booking.Handler
	adminHandler     *admin.Handler
	dashboardHandler *dashboard.Handler
}

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting CostumeHub API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	sessions := session.NewService(cfg.SessionSecret, cfg.CookieName, cfg.SessionTTL, cfg.IsProduction(), redis)

	store, err := storage.New(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		PublicURL: cfg.S3PublicURL,
		BaseDir:   cfg.StorageDir,
		BaseURL:   "/uploads",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create image storage")
	}

	processor := imaging.NewProcessor(cfg.MaxImageWidth)

	// ---------- Repositories ----------
	categoryRepo := category.NewRepository(db)
	itemRepo := item.NewRepository(db)
	bookingRepo := booking.NewRepository(db, itemRepo)
	adminRepo := admin.NewRepository(db)

	// ---------- Services ----------
	itemService := item.NewService(itemRepo, categoryRepo, store, processor)
	bookingService := booking.NewService(bookingRepo, itemRepo)
	adminService := admin.NewService(adminRepo)
	dashboardService := dashboard.NewService(db)

	app := &application{
		cfg:      cfg,
		sessions: sessions,

		categoryHandler:  category.NewHandler(categoryRepo),
		itemHandler:      item.NewHandler(itemService),
		bookingHandler:   booking.NewHandler(bookingService),
		adminHandler:     admin.NewHandler(adminService, sessions),
		dashboardHandler: dashboard.NewHandler(dashboardService),
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func (app *application) routes() chi.Router {
	authMiddleware := middleware.AdminAuth(app.sessions)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(app.cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	// Storefront
	r.Route("/api", func(r chi.Router) {
		r.Get("/costumes", app.itemHandler.ListCostumes)
		r.Get("/accessories", app.itemHandler.ListAccessories)
		r.Mount("/categories", app.categoryHandler.PublicRoutes())
		r.Mount("/items", app.itemHandler.PublicRoutes())
		r.Mount("/bookings", app.bookingHandler.PublicRoutes())
	})

	// Admin dashboard
	r.Route("/api/admin", func(r chi.Router) {
		r.Mount("/auth", app.adminHandler.Routes(authMiddleware))
		r.Mount("/categories", app.categoryHandler.AdminRoutes(authMiddleware))
		r.Mount("/items", app.itemHandler.AdminRoutes(authMiddleware))
		r.Mount("/bookings", app.bookingHandler.AdminRoutes(authMiddleware))
		r.Mount("/dashboard", dashboard.Routes(app.dashboardHandler, authMiddleware))
	})

	// Serve uploaded images when the local disk backend is active;
	// storage.New falls back to disk unless both S3 keys are present
	if app.cfg.S3AccessKey == "" || app.cfg.S3SecretKey == "" {
		dir := strings.TrimPrefix(app.cfg.StorageDir, "./")
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
