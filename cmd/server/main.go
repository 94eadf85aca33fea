package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"spotisheet/internal/adapter/auth"
	"spotisheet/internal/adapter/spotify"
	"spotisheet/internal/adapter/store"
	"spotisheet/internal/adapter/xlsx"
	"spotisheet/internal/handler"
	"spotisheet/internal/middleware"
	"spotisheet/internal/service"
	"spotisheet/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	cfg := config.Load()

	slog.Info("starting spotisheet",
		"port", cfg.Port,
		"spotify_api", cfg.SpotifyAPIURL,
		"token_margin_s", cfg.TokenExpiryMargin,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	// ── Adapters ─────────────────────────────────────────────────────────
	spotifyAuth := auth.NewSpotifyProvider(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyRedirectURL)
	spotifyAPI := spotify.NewClient(cfg.SpotifyAPIURL)
	tokenClient := spotify.NewTokenClient(cfg.SpotifyAccountsURL)

	// ── Services ─────────────────────────────────────────────────────────
	jwtCfg := service.JWTConfigFor(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiration)
	authService := service.NewAuthService(spotifyAuth, pgStore, jwtCfg)
	tokenService := service.NewTokenService(
		pgStore, tokenClient,
		cfg.SpotifyClientID, cfg.SpotifyClientSecret,
		time.Duration(cfg.TokenExpiryMargin)*time.Second,
	)
	exportService := service.NewExportService(pgStore, tokenService, spotifyAPI, xlsx.NewWorkbook)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))
	app.Use(middleware.AuditMiddleware(pgStore))

	// ── Public Routes ────────────────────────────────────────────────────
	authHandler := handler.NewAuthHandler(authService, cfg.FrontendURL)
	authHandler.Register(app)

	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	// ── Protected Routes ─────────────────────────────────────────────────
	api := app.Group("/api/v1", middleware.JWTMiddleware(jwtCfg))

	exportHandler := handler.NewExportHandler(exportService)
	exportHandler.Register(api)

	auditHandler := handler.NewAuditHandler(pgStore)
	auditHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
