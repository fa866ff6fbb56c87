package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"vidbrief/internal/domain/models"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AI       AIConfig
	JWT      JWTConfig
	Billing  BillingConfig
	Quota    QuotaConfig
}

type ServerConfig struct {
	Port        string
	Environment string
	BaseURL     string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AIConfig struct {
	GeminiKey   string
	OpenAIKey   string
	GeminiModel string
	OpenAIModel string
}

type JWTConfig struct {
	Secret     string
	Expiration int
}

type BillingConfig struct {
	StripeSecret        string
	StripeWebhookSecret string
	ProPriceID          string
	MaxPriceID          string
}

// QuotaConfig holds per-plan admission ceilings. Numbers are configuration,
// not structure; unset values fall back to the model defaults.
type QuotaConfig struct {
	Limits map[models.UserPlan]models.PlanLimits
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION", "3600"))

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "vidbrief"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		AI: AIConfig{
			GeminiKey:   getEnv("GOOGLE_API_KEY", ""),
			OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
			GeminiModel: getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "dev-only-secret"),
			Expiration: jwtExp,
		},
		Billing: BillingConfig{
			StripeSecret:        getEnv("STRIPE_SECRET", ""),
			StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			ProPriceID:          getEnv("STRIPE_PRO_PRICE_ID", ""),
			MaxPriceID:          getEnv("STRIPE_MAX_PRICE_ID", ""),
		},
		Quota: QuotaConfig{
			Limits: loadQuotaLimits(),
		},
	}
}

func loadQuotaLimits() map[models.UserPlan]models.PlanLimits {
	limits := models.DefaultPlanLimits()
	for plan, envPrefix := range map[models.UserPlan]string{
		models.PlanFree: "QUOTA_FREE",
		models.PlanPro:  "QUOTA_PRO",
		models.PlanMax:  "QUOTA_MAX",
	} {
		l := limits[plan]
		if v, err := strconv.Atoi(os.Getenv(envPrefix + "_DAILY")); err == nil && v > 0 {
			l.Daily = v
		}
		if v, err := strconv.Atoi(os.Getenv(envPrefix + "_MINUTE")); err == nil && v > 0 {
			l.Minute = v
		}
		limits[plan] = l
	}
	return limits
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
