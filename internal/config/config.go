package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string   `mapstructure:"PORT"`
	DatabasePath       string   `mapstructure:"DATABASE_PATH"`
	JWTSecret          string   `mapstructure:"JWT_SECRET"`
	FrontendURL        string   `mapstructure:"FRONTEND_URL"`
	EnableCORS         bool     `mapstructure:"ENABLE_CORS"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Operators sign in through Discord and must belong to the agency guild.
	DiscordClientID               string `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret           string `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL            string `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordGuildID                string `mapstructure:"DISCORD_GUILD_ID"`
	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`

	// An empty SendGridAPIKey disables email notifications.
	SendGridAPIKey string `mapstructure:"SENDGRID_API_KEY"`
	AdminEmail     string `mapstructure:"ADMIN_EMAIL"`
	FromEmail      string `mapstructure:"FROM_EMAIL"`
	FromName       string `mapstructure:"FROM_NAME"`
	AdminPanelURL  string `mapstructure:"ADMIN_PANEL_URL"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	PackageCacheTTL time.Duration `mapstructure:"PACKAGE_CACHE_TTL"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	BookingRatePerMinute int `mapstructure:"BOOKING_RATE_PER_MINUTE"`
	BookingRateBurst     int `mapstructure:"BOOKING_RATE_BURST"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "bookings.db")
	viper.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:8080/auth/discord/callback")
	viper.SetDefault("FRONTEND_URL", "http://127.0.0.1:4000/admin/bookings")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://127.0.0.1:4000"})
	viper.SetDefault("ADMIN_EMAIL", "bookings@wanderdesk.travel")
	viper.SetDefault("FROM_EMAIL", "notifications@wanderdesk.travel")
	viper.SetDefault("FROM_NAME", "Wanderdesk Travels")
	viper.SetDefault("ADMIN_PANEL_URL", "http://127.0.0.1:4000/admin/bookings")
	viper.SetDefault("PACKAGE_CACHE_TTL", "10m")
	viper.SetDefault("BOOKING_RATE_PER_MINUTE", 5)
	viper.SetDefault("BOOKING_RATE_BURST", 3)

	for _, key := range []string{
		"DATABASE_PATH",
		"JWT_SECRET",
		"FRONTEND_URL",
		"ENABLE_CORS",
		"CORS_ALLOWED_ORIGINS",
		"DISCORD_CLIENT_ID",
		"DISCORD_CLIENT_SECRET",
		"DISCORD_GUILD_ID",
		"DISCORD_BOT_TOKEN",
		"DISCORD_NOTIFICATIONS_CHANNEL_ID",
		"SENDGRID_API_KEY",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"RABBITMQ_URL",
	} {
		viper.BindEnv(key)
	}

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}

// EmailConfigured reports whether a mail provider credential is present.
func (c *Config) EmailConfigured() bool {
	return c.SendGridAPIKey != ""
}
