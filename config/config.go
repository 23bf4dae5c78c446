package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, read from the environment.
type Config struct {
	Port     string
	Timezone string

	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	JWTSecret      string
	JWTExpiryHours int
	CORSOrigins    []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	StripeSecretKey    string
	StripeDryRun       bool
	CheckoutSuccessURL string
	CheckoutCancelURL  string
	PlanPrices         map[string]string // plan name -> price id
	TrialDays          int

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioPhoneNumber    string
	TwilioWhatsAppNumber string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	ReminderCron    string
	ProfileSyncCron string
	AdminToken      string

	LogLevel       string
	LogDevelopment bool
}

// Load reads a .env file when present and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("TIMEZONE", "America/Sao_Paulo"),

		DatabaseURL:     getEnv("DB_URL", ""),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		CORSOrigins:    getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      getEnvAsDuration("CACHE_TTL", 10*time.Minute),

		StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", ""),
		StripeDryRun:       getEnvAsBool("STRIPE_DRY_RUN", false),
		CheckoutSuccessURL: getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/dashboard?checkout=success"),
		CheckoutCancelURL:  getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/planos"),
		PlanPrices: map[string]string{
			"basic":   getEnv("STRIPE_PRICE_BASIC", "price_1SAuSTRDwjywIfSVeFmskIti"),
			"premium": getEnv("STRIPE_PRICE_PREMIUM", "price_1SAuSkRDwjywIfSVuFglOKtO"),
		},
		TrialDays: getEnvAsInt("TRIAL_DAYS", 7),

		TwilioAccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber:    getEnv("TWILIO_PHONE_NUMBER", ""),
		TwilioWhatsAppNumber: getEnv("TWILIO_WHATSAPP_NUMBER", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "no-reply@easyhora.com.br"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "EasyHora"),

		ReminderCron:    getEnv("REMINDER_CRON", "0 9 * * *"),
		ProfileSyncCron: getEnv("PROFILE_SYNC_CRON", ""),
		AdminToken:      getEnv("ADMIN_TOKEN", ""),

		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogDevelopment: getEnvAsBool("LOG_DEVELOPMENT", false),
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
