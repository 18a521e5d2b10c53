package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/wanderdesk/booking-api/internal/auth"
	"github.com/wanderdesk/booking-api/internal/booking"
	"github.com/wanderdesk/booking-api/internal/catalog"
	"github.com/wanderdesk/booking-api/internal/config"
	"github.com/wanderdesk/booking-api/internal/database"
	"github.com/wanderdesk/booking-api/internal/events"
	"github.com/wanderdesk/booking-api/internal/handlers"
	"github.com/wanderdesk/booking-api/internal/notifier"
)

func main() {
	// A local .env is optional; real deployments set the environment.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Package catalog, cached in Redis when available
	repo := catalog.NewRepository(db)
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		client, err := catalog.NewRedisClient(context.Background(), catalog.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Printf("Package cache disabled: %v", err)
		} else {
			redisClient = client
		}
	}
	packages := catalog.NewCachedLookup(repo, redisClient, cfg.PackageCacheTTL)

	// Notifications
	var mailer notifier.Mailer
	if cfg.EmailConfigured() {
		mailer = notifier.NewSendGridMailer(cfg.SendGridAPIKey, cfg.FromName, cfg.FromEmail)
	}
	notifiers := notifier.Multi{
		notifier.NewEmailNotifier(mailer, notifier.EmailOptions{
			AdminEmail:    cfg.AdminEmail,
			AdminPanelURL: cfg.AdminPanelURL,
			AgencyName:    cfg.FromName,
		}),
	}
	if cfg.DiscordBotToken != "" && cfg.DiscordNotificationsChannelID != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			notifiers = append(notifiers, notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID))
		}
	}

	// Booking events
	var publisher booking.EventPublisher
	if cfg.RabbitMQURL != "" {
		p, err := events.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("Booking events disabled: %v", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	service := booking.NewService(booking.NewGormStore(db), packages, notifiers, publisher)

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	if cfg.DiscordGuildID == "" {
		log.Printf("DISCORD_GUILD_ID is not set: operator login is disabled, API keys still work")
	}
	h := handlers.Handlers{
		Auth:     authHandler,
		Bookings: handlers.NewBookingHandler(service, authHandler),
		Packages: handlers.NewPackageHandler(repo, packages, authHandler),
		APIKeys:  handlers.NewAPIKeyHandler(db, authHandler),
	}

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, h)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
