package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	MongoDatabase     string `mapstructure:"MONGO_DATABASE"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`
	PublicBaseURL     string `mapstructure:"PUBLIC_BASE_URL"`
	AdminAPIToken     string `mapstructure:"ADMIN_API_TOKEN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Google Calendar configuration.
	CalendarEnabled         bool   `mapstructure:"GOOGLE_CALENDAR_ENABLED"`
	CalendarID              string `mapstructure:"GOOGLE_CALENDAR_CALENDAR_ID"`
	CalendarTimezone        string `mapstructure:"GOOGLE_CALENDAR_TIMEZONE"`
	CalendarDefaultDuration int    `mapstructure:"GOOGLE_CALENDAR_DEFAULT_DURATION"`
	CalendarInviteClient    bool   `mapstructure:"GOOGLE_CALENDAR_INVITE_CLIENT"`
	CalendarSendUpdates     string `mapstructure:"GOOGLE_CALENDAR_SEND_UPDATES"`
	CalendarCredentialsJSON string `mapstructure:"GOOGLE_CALENDAR_CREDENTIALS_JSON"`

	// Stripe webhook signing secrets. The secondary slot allows rotation
	// without a deploy gap.
	StripeWebhookSecret          string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeWebhookSecretSecondary string `mapstructure:"STRIPE_WEBHOOK_SECRET_SECONDARY"`

	// Payhip (alternate commerce source).
	PayhipWebhookSecret string `mapstructure:"PAYHIP_WEBHOOK_SECRET"`
	PayhipAPIKey        string `mapstructure:"PAYHIP_API_KEY"`

	// Resend email relay.
	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
	ResendFrom   string `mapstructure:"RESEND_FROM"`
	ResendTo     string `mapstructure:"RESEND_TO"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "plinio")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("CORS_ORIGINS", "https://agenziaplinio.it,https://www.agenziaplinio.it")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("GOOGLE_CALENDAR_ENABLED", false)
	viper.SetDefault("GOOGLE_CALENDAR_TIMEZONE", "Europe/Rome")
	viper.SetDefault("GOOGLE_CALENDAR_DEFAULT_DURATION", 60)
	viper.SetDefault("GOOGLE_CALENDAR_INVITE_CLIENT", false)
	viper.SetDefault("GOOGLE_CALENDAR_SEND_UPDATES", "none")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// AllowedOrigins splits the comma-separated CORS origin list.
func AllowedOrigins() []string {
	parts := strings.Split(AppConfig.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// StripeWebhookSecrets returns the ordered list of signing secrets to try.
func StripeWebhookSecrets() []string {
	var secrets []string
	if AppConfig.StripeWebhookSecret != "" {
		secrets = append(secrets, AppConfig.StripeWebhookSecret)
	}
	if AppConfig.StripeWebhookSecretSecondary != "" {
		secrets = append(secrets, AppConfig.StripeWebhookSecretSecondary)
	}
	return secrets
}
