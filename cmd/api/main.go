package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/pawtrails/pawtrails-api/internal/config"
	"github.com/pawtrails/pawtrails-api/internal/domain/auth"
	"github.com/pawtrails/pawtrails-api/internal/domain/availability"
	"github.com/pawtrails/pawtrails-api/internal/domain/booking"
	"github.com/pawtrails/pawtrails-api/internal/domain/cancellation"
	"github.com/pawtrails/pawtrails-api/internal/domain/feed"
	"github.com/pawtrails/pawtrails-api/internal/domain/product"
	"github.com/pawtrails/pawtrails-api/internal/middleware"
	"github.com/pawtrails/pawtrails-api/internal/pkg/canceltoken"
	"github.com/pawtrails/pawtrails-api/internal/pkg/database"
	"github.com/pawtrails/pawtrails-api/internal/pkg/email"
	"github.com/pawtrails/pawtrails-api/internal/pkg/jwt"
	"github.com/pawtrails/pawtrails-api/internal/pkg/logger"
	pkgresponse "github.com/pawtrails/pawtrails-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting PawTrails API")

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

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	var mailService *email.Service
	if cfg.SendGridAPIKey != "" {
		mailService = email.NewService(email.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		})
		defer mailService.Close()
	} else {
		log.Warn().Msg("SENDGRID_API_KEY not set, emails disabled")
	}

	tokenStore := canceltoken.NewStore(redis, cfg.CancelTokenTTL)

	// ---------- WebSocket hub ----------
	feedHub := feed.NewHub(redis)
	go feedHub.Run()
	defer feedHub.Shutdown()

	// ---------- Repositories ----------
	productRepo := product.NewRepository(db)
	slotRepo := availability.NewRepository(db)
	bookingRepo := booking.NewRepository(db, slotRepo)
	cancellationRepo := cancellation.NewRepository(db)
	authRepo := auth.NewRepository(db)

	// ---------- Services ----------
	// The email service is optional; passing a typed nil through the Mailer
	// interface would dodge the nil checks, hence the explicit split.
	var bookingService *booking.Service
	var cancellationService *cancellation.Service
	if mailService != nil {
		bookingService = booking.NewService(bookingRepo, mailService, feedHub, tokenStore, productRepo, cfg.BookingTxTimeout, cfg.FrontendURL)
		cancellationService = cancellation.NewService(cancellationRepo, bookingRepo, slotRepo, tokenStore, mailService, feedHub, productRepo)
	} else {
		bookingService = booking.NewService(bookingRepo, nil, feedHub, tokenStore, productRepo, cfg.BookingTxTimeout, cfg.FrontendURL)
		cancellationService = cancellation.NewService(cancellationRepo, bookingRepo, slotRepo, tokenStore, nil, feedHub, productRepo)
	}
	authService := auth.NewService(authRepo, jwtService)

	// ---------- Handlers ----------
	productHandler := product.NewHandler(productRepo)
	availabilityHandler := availability.NewHandler(slotRepo)
	bookingHandler := booking.NewHandler(bookingService)
	cancellationHandler := cancellation.NewHandler(cancellationService)
	authHandler := auth.NewHandler(authService)
	feedHandler := feed.NewHandler(feedHub, jwtService, cfg.AllowedOrigins, cfg.IsDevelopment())

	authMiddleware := middleware.Auth(jwtService)
	adminOnly := middleware.RequireRole("admin")

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Mount("/ws", feedHandler.Routes())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/products", productHandler.Routes())
		r.Mount("/availability", availabilityHandler.Routes())
		r.Mount("/bookings", bookingHandler.Routes(authMiddleware, adminOnly))
		r.Mount("/cancellations", cancellationHandler.Routes(authMiddleware, adminOnly))
	})

	// Payment provider callbacks live outside /api/v1 and carry no JWT.
	r.Mount("/webhooks", bookingHandler.WebhookRoutes())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
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
